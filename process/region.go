package process

import "fmt"

// Memory region state and protection values, mirroring the Windows
// MEMORY_BASIC_INFORMATION encoding. The Linux inspector synthesizes them
// from /proc/<pid>/maps permission letters.
const (
	MemCommit  uint32 = 0x1000
	MemReserve uint32 = 0x2000
	MemFree    uint32 = 0x10000

	PageNoaccess         uint32 = 0x01
	PageReadonly         uint32 = 0x02
	PageReadwrite        uint32 = 0x04
	PageWritecopy        uint32 = 0x08
	PageExecute          uint32 = 0x10
	PageExecuteRead      uint32 = 0x20
	PageExecuteReadwrite uint32 = 0x40
	PageExecuteWritecopy uint32 = 0x80
	PageGuard            uint32 = 0x100
)

// writableMask covers every write-capable protection, including the
// copy-on-write variants.
const writableMask = PageReadwrite | PageWritecopy | PageExecuteReadwrite | PageExecuteWritecopy

// readableMask covers every protection that permits reads at all.
const readableMask = PageReadonly | PageReadwrite | PageWritecopy |
	PageExecuteRead | PageExecuteReadwrite | PageExecuteWritecopy

// Region describes one contiguous range of a process's address space as
// reported by the OS. Regions are ephemeral: produced by a query, consumed
// by the scan pass, never stored.
type Region struct {
	Base    ProcessMemoryAddress
	Size    ProcessMemorySize
	State   uint32
	Protect uint32
}

// End returns the first address past the region.
func (r Region) End() ProcessMemoryAddress {
	return r.Base + ProcessMemoryAddress(r.Size)
}

// IsCommitted reports whether backing storage is allocated for the region.
func (r Region) IsCommitted() bool {
	return r.State == MemCommit
}

// IsReadable reports whether the region permits reads.
func (r Region) IsReadable() bool {
	return r.Protect&readableMask != 0
}

// IsWritable reports whether the region carries any write-capable protection.
func (r Region) IsWritable() bool {
	return r.Protect&writableMask != 0
}

// IsGuarded reports whether the guard-page flag is set. Guarded regions fault
// on first access and must never be read during a scan.
func (r Region) IsGuarded() bool {
	return r.Protect&PageGuard != 0
}

func (r Region) String() string {
	return fmt.Sprintf("Base: %x, Size: %d, State: %x, Protect: %x", uint64(r.Base), uint(r.Size), r.State, r.Protect)
}
