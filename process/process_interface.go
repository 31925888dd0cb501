package process

// Inspector is the capability interface for one attached target process.
// The platform packages provide the real implementations; processtest
// provides an in-memory one.
type Inspector interface {
	// GetPID returns the process ID
	GetPID() ProcessID

	// QueryRegion returns the region containing addr, or the next region
	// above addr when addr falls in unmapped space. ok is false once the
	// address space above addr is exhausted or the query itself fails.
	// Returned regions may be ineligible for scanning; filtering them is
	// the caller's job.
	QueryRegion(addr ProcessMemoryAddress) (Region, bool)

	// ReadMemory reads exactly size bytes from the process at the specified
	// address. A short read is an error, not a partial result.
	ReadMemory(addr ProcessMemoryAddress, size ProcessMemorySize) ([]byte, error)

	// WriteMemory writes all of data to the process memory at the specified
	// address. A partial write is an error.
	WriteMemory(addr ProcessMemoryAddress, data []byte) error

	// Alive reports whether the target process is still running. It has no
	// side effects at this layer.
	Alive() bool

	// Close releases the process handle. Idempotent.
	Close() error
}
