// Package process provides the types and capability interface for inspecting
// and manipulating the memory of a foreign process.
package process

import "errors"

var (
	// ErrAddressNotMapped is returned when a memory address is not found within any mapped region of a process.
	ErrAddressNotMapped = errors.New("address not mapped")

	// ErrProcessNotOpen is returned when an operation requiring an open process is attempted
	// before the process has been successfully opened or after it has been closed.
	ErrProcessNotOpen = errors.New("process not open")

	// ErrInvalidPointer is returned when a pointer slot reads back a value below the
	// sanity floor, which marks it as uninitialized rather than a usable address.
	ErrInvalidPointer = errors.New("invalid pointer read")
)
