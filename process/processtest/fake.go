// Package processtest provides an in-memory process.Inspector for tests.
package processtest

import (
	"fmt"
	"sort"

	"scdhook/process"
)

// FakeRegion couples a region descriptor with its backing bytes. Data shorter
// than the declared size reads back zero-filled; ineligible regions may still
// carry data so that a scanner that skips the eligibility filter gets caught.
type FakeRegion struct {
	Region process.Region
	Data   []byte
}

// Fake is an in-memory process.Inspector. The zero value is unusable; build
// one with New and add regions before handing it to code under test.
type Fake struct {
	pid     process.ProcessID
	regions []FakeRegion
	alive   bool
	closed  bool

	// Reads and Writes count every ReadMemory/WriteMemory call, including
	// failed ones.
	Reads  int
	Writes int

	failWrites map[process.ProcessMemoryAddress]error
}

// New returns an alive Fake with no regions.
func New(pid process.ProcessID) *Fake {
	return &Fake{
		pid:        pid,
		alive:      true,
		failWrites: make(map[process.ProcessMemoryAddress]error),
	}
}

// AddRegion declares a region with the given backing data. Regions must not
// overlap; they are kept sorted by base address.
func (f *Fake) AddRegion(r process.Region, data []byte) {
	backing := make([]byte, r.Size)
	copy(backing, data)
	f.regions = append(f.regions, FakeRegion{Region: r, Data: backing})
	sort.Slice(f.regions, func(i, j int) bool {
		return f.regions[i].Region.Base < f.regions[j].Region.Base
	})
}

// AddWritableRegion declares a committed read-write region, the common case.
func (f *Fake) AddWritableRegion(base process.ProcessMemoryAddress, size process.ProcessMemorySize, data []byte) {
	f.AddRegion(process.Region{
		Base:    base,
		Size:    size,
		State:   process.MemCommit,
		Protect: process.PageReadwrite,
	}, data)
}

// SetAlive flips the simulated process liveness. Exiting does not clear the
// regions: reads against a dead process still fail at the caller's gate, and
// tests can assert nothing got through.
func (f *Fake) SetAlive(alive bool) {
	f.alive = alive
}

// FailWriteAt makes every WriteMemory starting at addr return err.
func (f *Fake) FailWriteAt(addr process.ProcessMemoryAddress, err error) {
	f.failWrites[addr] = err
}

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	return f.closed
}

// Bytes returns a copy of size bytes of backing data at addr, for asserting
// what a write actually left behind.
func (f *Fake) Bytes(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) []byte {
	fr := f.lookup(addr)
	if fr == nil {
		return nil
	}
	offset := addr - fr.Region.Base
	end := offset + process.ProcessMemoryAddress(size)
	if end > process.ProcessMemoryAddress(fr.Region.Size) {
		return nil
	}
	out := make([]byte, size)
	copy(out, fr.Data[offset:end])
	return out
}

func (f *Fake) GetPID() process.ProcessID {
	return f.pid
}

// QueryRegion returns the region covering addr, or the next region above it.
func (f *Fake) QueryRegion(addr process.ProcessMemoryAddress) (process.Region, bool) {
	idx := sort.Search(len(f.regions), func(i int) bool {
		return f.regions[i].Region.End() > addr
	})
	if idx >= len(f.regions) {
		return process.Region{}, false
	}
	return f.regions[idx].Region, true
}

func (f *Fake) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	f.Reads++

	fr := f.lookup(addr)
	if fr == nil {
		return nil, process.ErrAddressNotMapped
	}

	offset := addr - fr.Region.Base
	end := offset + process.ProcessMemoryAddress(size)
	if end > process.ProcessMemoryAddress(fr.Region.Size) {
		return nil, fmt.Errorf("read of %d bytes at %s crosses region end", uint(size), addr.ToString())
	}

	out := make([]byte, size)
	copy(out, fr.Data[offset:end])
	return out, nil
}

func (f *Fake) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	f.Writes++

	if err, ok := f.failWrites[addr]; ok {
		return err
	}

	fr := f.lookup(addr)
	if fr == nil {
		return process.ErrAddressNotMapped
	}

	offset := addr - fr.Region.Base
	end := offset + process.ProcessMemoryAddress(len(data))
	if end > process.ProcessMemoryAddress(fr.Region.Size) {
		return fmt.Errorf("write of %d bytes at %s crosses region end", len(data), addr.ToString())
	}

	copy(fr.Data[offset:end], data)
	return nil
}

func (f *Fake) Alive() bool {
	return f.alive
}

func (f *Fake) Close() error {
	f.closed = true
	f.alive = false
	return nil
}

func (f *Fake) lookup(addr process.ProcessMemoryAddress) *FakeRegion {
	for i := range f.regions {
		r := f.regions[i].Region
		if addr >= r.Base && addr < r.End() {
			return &f.regions[i]
		}
	}
	return nil
}
