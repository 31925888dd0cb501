package process

import (
	"fmt"
)

// ProcessMemoryAddress represents a memory address within a process
type ProcessMemoryAddress uint64

func (pma ProcessMemoryAddress) ToString() string {
	return fmt.Sprintf("0x%X", uint64(pma))
}

// ProcessMemorySize represents a size of memory region
type ProcessMemorySize uint

func (pms ProcessMemorySize) ToString() string {
	return fmt.Sprintf("%d bytes", uint(pms))
}

const (
	// MinValidAddress is the sanity floor for target addresses. Anything below
	// it lives in or near the null page and is treated as unresolved.
	MinValidAddress ProcessMemoryAddress = 0x10000

	// ScanLimit is the x64 user-space ceiling; scans never walk past it.
	ScanLimit ProcessMemoryAddress = 0x7FFFFFFF0000

	// ScanChunkSize bounds a single remote read during a scan pass.
	ScanChunkSize ProcessMemorySize = 1 << 20

	// PointerSize is the pointer width of the target process.
	PointerSize ProcessMemorySize = 8
)

// AOB (Array of Bytes) represents a pattern to search for in memory
type AOB struct {
	Pattern []byte // The byte pattern to search for
	Mask    []byte // Optional mask where 0xFF means exact match and 0x00 means wildcard
}

// IsValid checks if the AOB pattern is valid. A nil mask means exact match.
func (aob AOB) IsValid() bool {
	return len(aob.Mask) == 0 || len(aob.Pattern) == len(aob.Mask)
}

func NewAOB(pattern, mask []byte) (AOB, error) {
	if len(pattern) != len(mask) {
		return AOB{}, fmt.Errorf("pattern and mask must be of the same length")
	}
	return AOB{Pattern: pattern, Mask: mask}, nil
}

// ExactAOB builds an exact-match pattern from raw bytes.
func ExactAOB(pattern []byte) AOB {
	return AOB{Pattern: pattern}
}
