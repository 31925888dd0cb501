package process_test

import (
	"testing"

	"scdhook/process"
	"scdhook/process/processtest"
)

func TestFindFirst(t *testing.T) {
	pattern := []byte("PANACEA_KEY")

	t.Run("pattern at known offset", func(t *testing.T) {
		fake := processtest.New(100)
		data := make([]byte, 0x2000)
		copy(data[0x123:], pattern)
		fake.AddWritableRegion(0x300000, 0x2000, data)

		addr, ok := process.FindFirst(fake, process.ExactAOB(pattern))
		if !ok {
			t.Fatal("pattern not found")
		}
		if addr != 0x300123 {
			t.Errorf("found at %s, want 0x300123", addr.ToString())
		}
	})

	t.Run("pattern absent", func(t *testing.T) {
		fake := processtest.New(100)
		fake.AddWritableRegion(0x300000, 0x2000, nil)

		if addr, ok := process.FindFirst(fake, process.ExactAOB(pattern)); ok {
			t.Errorf("found %s in a map without the pattern", addr.ToString())
		}
	})

	t.Run("pattern in later chunk", func(t *testing.T) {
		fake := processtest.New(100)
		size := process.ScanChunkSize + 0x1000
		data := make([]byte, size)
		copy(data[process.ScanChunkSize+5:], pattern)
		fake.AddWritableRegion(0x300000, size, data)

		addr, ok := process.FindFirst(fake, process.ExactAOB(pattern))
		if !ok {
			t.Fatal("pattern not found past the first chunk")
		}
		want := process.ProcessMemoryAddress(0x300000) + process.ProcessMemoryAddress(process.ScanChunkSize) + 5
		if addr != want {
			t.Errorf("found at %s, want %s", addr.ToString(), want.ToString())
		}
	})

	t.Run("dead process scans nothing", func(t *testing.T) {
		fake := processtest.New(100)
		data := make([]byte, 0x1000)
		copy(data, pattern)
		fake.AddWritableRegion(0x300000, 0x1000, data)
		fake.SetAlive(false)

		if _, ok := process.FindFirst(fake, process.ExactAOB(pattern)); ok {
			t.Error("found a match in a dead process")
		}
		if fake.Reads != 0 {
			t.Errorf("%d reads against a dead process", fake.Reads)
		}
	})
}

// The scanner must never match inside regions that are not committed,
// writable, non-guarded memory, even when the bytes are there.
func TestFindFirstIneligibleRegions(t *testing.T) {
	pattern := []byte("PANACEA_KEY")

	tests := []struct {
		name    string
		state   uint32
		protect uint32
	}{
		{"reserved", process.MemReserve, process.PageReadwrite},
		{"free", process.MemFree, process.PageReadwrite},
		{"read-only", process.MemCommit, process.PageReadonly},
		{"execute-read", process.MemCommit, process.PageExecuteRead},
		{"no-access", process.MemCommit, process.PageNoaccess},
		{"guarded", process.MemCommit, process.PageReadwrite | process.PageGuard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := processtest.New(100)
			data := make([]byte, 0x1000)
			copy(data[0x10:], pattern)
			fake.AddRegion(process.Region{
				Base:    0x300000,
				Size:    0x1000,
				State:   tt.state,
				Protect: tt.protect,
			}, data)

			if addr, ok := process.FindFirst(fake, process.ExactAOB(pattern)); ok {
				t.Errorf("matched at %s inside an ineligible region", addr.ToString())
			}
			if fake.Reads != 0 {
				t.Errorf("%d reads of an ineligible region", fake.Reads)
			}
		})
	}

	t.Run("eligible match after ineligible copy", func(t *testing.T) {
		fake := processtest.New(100)
		decoy := make([]byte, 0x1000)
		copy(decoy, pattern)
		fake.AddRegion(process.Region{
			Base:    0x200000,
			Size:    0x1000,
			State:   process.MemCommit,
			Protect: process.PageReadonly,
		}, decoy)

		heap := make([]byte, 0x1000)
		copy(heap[0x40:], pattern)
		fake.AddWritableRegion(0x400000, 0x1000, heap)

		addr, ok := process.FindFirst(fake, process.ExactAOB(pattern))
		if !ok {
			t.Fatal("pattern not found")
		}
		if addr != 0x400040 {
			t.Errorf("found at %s, want the writable copy at 0x400040", addr.ToString())
		}
	})
}

func TestFindAll(t *testing.T) {
	pattern := []byte("DUP")

	fake := processtest.New(100)
	data := make([]byte, 0x1000)
	copy(data[0x10:], pattern)
	copy(data[0x500:], pattern)
	fake.AddWritableRegion(0x300000, 0x1000, data)

	other := make([]byte, 0x1000)
	copy(other[0x20:], pattern)
	fake.AddWritableRegion(0x500000, 0x1000, other)

	matches := process.FindAll(fake, process.ExactAOB(pattern))
	want := []process.ProcessMemoryAddress{0x300010, 0x300500, 0x500020}
	if len(matches) != len(want) {
		t.Fatalf("got %d matches, want %d", len(matches), len(want))
	}
	for i, addr := range matches {
		if addr != want[i] {
			t.Errorf("match %d at %s, want %s", i, addr.ToString(), want[i].ToString())
		}
	}
}

func TestFindFirstMasked(t *testing.T) {
	fake := processtest.New(100)
	data := make([]byte, 0x1000)
	copy(data[0x80:], []byte{0x53, 0x43, 0x99, 0x44})
	fake.AddWritableRegion(0x300000, 0x1000, data)

	aob, err := process.NewAOB(
		[]byte{0x53, 0x43, 0x00, 0x44},
		[]byte{0xFF, 0xFF, 0x00, 0xFF},
	)
	if err != nil {
		t.Fatal(err)
	}

	addr, ok := process.FindFirst(fake, aob)
	if !ok {
		t.Fatal("masked pattern not found")
	}
	if addr != 0x300080 {
		t.Errorf("found at %s, want 0x300080", addr.ToString())
	}
}

// scriptedInspector serves a fixed sequence of QueryRegion answers and
// records every cursor the scanner asks about.
type scriptedInspector struct {
	regions []process.Region
	queried []process.ProcessMemoryAddress
}

func (s *scriptedInspector) GetPID() process.ProcessID { return 1 }
func (s *scriptedInspector) Alive() bool               { return true }
func (s *scriptedInspector) Close() error              { return nil }

func (s *scriptedInspector) QueryRegion(addr process.ProcessMemoryAddress) (process.Region, bool) {
	s.queried = append(s.queried, addr)
	if len(s.queried) > len(s.regions) {
		return process.Region{}, false
	}
	return s.regions[len(s.queried)-1], true
}

func (s *scriptedInspector) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	return make([]byte, size), nil
}

func (s *scriptedInspector) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	return nil
}

// The cursor must strictly advance even when the OS reports a null base for
// the region at the scan origin, and the walk must stop rather than spin on
// zero-size or wrapped regions.
func TestScanCursorAdvances(t *testing.T) {
	t.Run("zero base at scan origin", func(t *testing.T) {
		insp := &scriptedInspector{regions: []process.Region{
			{Base: 0, Size: 0x1000, State: process.MemFree},
			{Base: process.MinValidAddress + 0x1000, Size: 0x1000, State: process.MemFree},
		}}

		if _, ok := process.FindFirst(insp, process.ExactAOB([]byte("X"))); ok {
			t.Fatal("unexpected match")
		}

		if len(insp.queried) != 3 {
			t.Fatalf("got %d queries, want 3", len(insp.queried))
		}
		for i := 1; i < len(insp.queried); i++ {
			if insp.queried[i] <= insp.queried[i-1] {
				t.Errorf("cursor did not advance: query %d at %s after %s",
					i, insp.queried[i].ToString(), insp.queried[i-1].ToString())
			}
		}
		if want := process.MinValidAddress + 0x1000; insp.queried[1] != want {
			t.Errorf("second query at %s, want %s", insp.queried[1].ToString(), want.ToString())
		}
	})

	t.Run("zero-size region stops the walk", func(t *testing.T) {
		insp := &scriptedInspector{regions: []process.Region{
			{Base: process.MinValidAddress, Size: 0},
			{Base: process.MinValidAddress, Size: 0},
		}}

		if _, ok := process.FindFirst(insp, process.ExactAOB([]byte("X"))); ok {
			t.Fatal("unexpected match")
		}
		if len(insp.queried) != 1 {
			t.Errorf("got %d queries after a zero-size region, want 1", len(insp.queried))
		}
	})

	t.Run("non-increasing region stops the walk", func(t *testing.T) {
		insp := &scriptedInspector{regions: []process.Region{
			{Base: process.MinValidAddress + 0x1000, Size: 0x1000, State: process.MemFree},
			{Base: process.MinValidAddress, Size: 0x1000, State: process.MemFree},
		}}

		if _, ok := process.FindFirst(insp, process.ExactAOB([]byte("X"))); ok {
			t.Fatal("unexpected match")
		}
		if len(insp.queried) != 2 {
			t.Errorf("got %d queries after a backwards region, want 2", len(insp.queried))
		}
	})
}
