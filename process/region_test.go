package process_test

import (
	"testing"

	"scdhook/process"
)

func TestRegionPredicates(t *testing.T) {
	tests := []struct {
		name      string
		region    process.Region
		committed bool
		writable  bool
		guarded   bool
	}{
		{
			name:      "committed read-write",
			region:    process.Region{State: process.MemCommit, Protect: process.PageReadwrite},
			committed: true,
			writable:  true,
		},
		{
			name:      "committed execute-read-write",
			region:    process.Region{State: process.MemCommit, Protect: process.PageExecuteReadwrite},
			committed: true,
			writable:  true,
		},
		{
			name:      "committed write-copy",
			region:    process.Region{State: process.MemCommit, Protect: process.PageWritecopy},
			committed: true,
			writable:  true,
		},
		{
			name:      "committed execute-write-copy",
			region:    process.Region{State: process.MemCommit, Protect: process.PageExecuteWritecopy},
			committed: true,
			writable:  true,
		},
		{
			name:      "committed read-only",
			region:    process.Region{State: process.MemCommit, Protect: process.PageReadonly},
			committed: true,
		},
		{
			name:   "reserved read-write",
			region: process.Region{State: process.MemReserve, Protect: process.PageReadwrite},
			// reserved memory has no backing storage yet
			writable: true,
		},
		{
			name:   "free",
			region: process.Region{State: process.MemFree},
		},
		{
			name:      "guarded read-write",
			region:    process.Region{State: process.MemCommit, Protect: process.PageReadwrite | process.PageGuard},
			committed: true,
			writable:  true,
			guarded:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.region.IsCommitted(); got != tt.committed {
				t.Errorf("IsCommitted() = %t, want %t", got, tt.committed)
			}
			if got := tt.region.IsWritable(); got != tt.writable {
				t.Errorf("IsWritable() = %t, want %t", got, tt.writable)
			}
			if got := tt.region.IsGuarded(); got != tt.guarded {
				t.Errorf("IsGuarded() = %t, want %t", got, tt.guarded)
			}
		})
	}
}

func TestRegionEnd(t *testing.T) {
	r := process.Region{Base: 0x300000, Size: 0x2000}
	if r.End() != 0x302000 {
		t.Errorf("End() = %s, want 0x302000", r.End().ToString())
	}
}

func TestAOBIsValid(t *testing.T) {
	if !(process.AOB{Pattern: []byte{1, 2}}).IsValid() {
		t.Error("exact pattern without mask reported invalid")
	}
	if !(process.AOB{Pattern: []byte{1, 2}, Mask: []byte{0xFF, 0}}).IsValid() {
		t.Error("matched-length mask reported invalid")
	}
	if (process.AOB{Pattern: []byte{1, 2}, Mask: []byte{0xFF}}).IsValid() {
		t.Error("length-mismatched mask reported valid")
	}

	if _, err := process.NewAOB([]byte{1}, []byte{0xFF, 0}); err == nil {
		t.Error("NewAOB accepted mismatched lengths")
	}
}
