//go:build linux

package process_linux

import (
	"strings"
	"testing"

	"scdhook/process"
)

const sampleMaps = `00400000-0040b000 r-xp 00000000 08:01 1048578                            /usr/bin/cat
0060a000-0060b000 rw-p 0000a000 08:01 1048578                            /usr/bin/cat
019e0000-01a01000 rw-p 00000000 00:00 0                                  [heap]
7f2c4a000000-7f2c4a200000 rw-p 00000000 00:00 0
7f2c4b789000-7f2c4b92c000 r-xp 00000000 08:01 920344                     /usr/lib/libc.so.6
7ffd1c3a0000-7ffd1c3c1000 rwxp 00000000 00:00 0                          [stack]
7ffd1c3fe000-7ffd1c400000 r--p 00000000 00:00 0                          [vvar]
140000000-141000000 rw-p 00000000 08:02 22                               /games/pfx/KINGDOM HEARTS II FINAL MIX.exe
garbage line
`

func TestParseRegions(t *testing.T) {
	regions, err := parseRegions(strings.NewReader(sampleMaps))
	if err != nil {
		t.Fatal(err)
	}

	if len(regions) != 8 {
		t.Fatalf("parsed %d regions, want 8", len(regions))
	}

	heap := regions[2]
	if heap.Base != 0x019e0000 {
		t.Errorf("heap base %s", heap.Base.ToString())
	}
	if heap.Size != 0x21000 {
		t.Errorf("heap size %d", heap.Size)
	}
	if !heap.IsCommitted() || !heap.IsWritable() || heap.IsGuarded() {
		t.Errorf("heap predicates wrong: %s", heap)
	}

	text := regions[0]
	if text.IsWritable() {
		t.Errorf("r-xp region reported writable: %s", text)
	}
}

func TestPermsToProtect(t *testing.T) {
	tests := []struct {
		perms string
		want  uint32
	}{
		{"rw-p", process.PageReadwrite},
		{"rwxp", process.PageExecuteReadwrite},
		{"r-xp", process.PageExecuteRead},
		{"r--p", process.PageReadonly},
		{"--xp", process.PageExecute},
		{"---p", process.PageNoaccess},
	}

	for _, tt := range tests {
		t.Run(tt.perms, func(t *testing.T) {
			if got := permsToProtect(tt.perms); got != tt.want {
				t.Errorf("permsToProtect(%q) = 0x%x, want 0x%x", tt.perms, got, tt.want)
			}
		})
	}
}

func TestParseRegionRejects(t *testing.T) {
	tests := []struct {
		name      string
		addrRange string
	}{
		{"missing dash", "00400000"},
		{"bad hex", "zzz-0040b000"},
		{"end before start", "0040b000-00400000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := parseRegion(tt.addrRange, "rw-p"); ok {
				t.Errorf("parseRegion accepted %q", tt.addrRange)
			}
		})
	}
}

func TestFindModuleBase(t *testing.T) {
	t.Run("plain module", func(t *testing.T) {
		base, ok := findModuleBase(strings.NewReader(sampleMaps), "libc.so.6")
		if !ok {
			t.Fatal("libc not found")
		}
		if base != 0x7f2c4b789000 {
			t.Errorf("base %s", base.ToString())
		}
	})

	t.Run("module name with spaces", func(t *testing.T) {
		base, ok := findModuleBase(strings.NewReader(sampleMaps), "KINGDOM HEARTS II FINAL MIX.exe")
		if !ok {
			t.Fatal("game module not found")
		}
		if base != 0x140000000 {
			t.Errorf("base %s", base.ToString())
		}
	})

	t.Run("absent module", func(t *testing.T) {
		if _, ok := findModuleBase(strings.NewReader(sampleMaps), "nope.dll"); ok {
			t.Error("found a module that is not mapped")
		}
	})
}
