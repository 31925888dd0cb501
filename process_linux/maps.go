//go:build linux

package process_linux

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"scdhook/process"
)

// readRegions reads and parses /proc/<pid>/maps.
func readRegions(pid process.ProcessID) ([]process.Region, error) {
	file, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return parseRegions(file)
}

// parseRegions parses maps-format lines into regions. Lines that do not
// parse are skipped, matching what the kernel may emit for exotic mappings.
func parseRegions(r io.Reader) ([]process.Region, error) {
	var regions []process.Region

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		region, ok := parseRegion(fields[0], fields[1])
		if !ok {
			continue
		}

		regions = append(regions, region)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return regions, nil
}

// parseRegion converts one address range (e.g. "00400000-0040b000") and its
// permission letters (e.g. "r-xp") into a region descriptor.
func parseRegion(addrRange, perms string) (process.Region, bool) {
	bounds := strings.Split(addrRange, "-")
	if len(bounds) != 2 {
		return process.Region{}, false
	}

	start, err := strconv.ParseUint(bounds[0], 16, 64)
	if err != nil {
		return process.Region{}, false
	}

	end, err := strconv.ParseUint(bounds[1], 16, 64)
	if err != nil || end < start {
		return process.Region{}, false
	}

	return process.Region{
		Base:    process.ProcessMemoryAddress(start),
		Size:    process.ProcessMemorySize(end - start),
		State:   process.MemCommit,
		Protect: permsToProtect(perms),
	}, true
}

// permsToProtect maps maps-file permission letters onto the protection flags
// the region predicates understand. Every maps entry is committed memory and
// Linux has no guard-page flag, so the letters only decide the protection.
func permsToProtect(perms string) uint32 {
	var r, w, x bool
	if len(perms) > 0 {
		r = perms[0] == 'r'
	}
	if len(perms) > 1 {
		w = perms[1] == 'w'
	}
	if len(perms) > 2 {
		x = perms[2] == 'x'
	}

	switch {
	case w && x:
		return process.PageExecuteReadwrite
	case w:
		return process.PageReadwrite
	case r && x:
		return process.PageExecuteRead
	case r:
		return process.PageReadonly
	case x:
		return process.PageExecute
	}
	return process.PageNoaccess
}

// ModuleBase returns the base address of the first mapping whose file
// basename equals module, typically the load address of that binary.
func ModuleBase(pid process.ProcessID, module string) (process.ProcessMemoryAddress, bool) {
	file, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return 0, false
	}
	defer file.Close()

	return findModuleBase(file, module)
}

func findModuleBase(r io.Reader, module string) (process.ProcessMemoryAddress, bool) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 {
			continue
		}

		// The pathname column can itself contain spaces (the game's own
		// executable name does), so it is everything past the fifth field.
		path := strings.Join(fields[5:], " ")
		if filepath.Base(path) != module {
			continue
		}

		region, ok := parseRegion(fields[0], fields[1])
		if !ok {
			continue
		}

		return region.Base, true
	}

	return 0, false
}
