//go:build linux

package process_linux

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"scdhook/process"
)

// ListByName returns the PIDs of all processes whose comm or exe basename
// equals name. The match is case-sensitive (like pidof). Matching the exe
// basename is what finds Windows binaries running under Proton, whose comm
// is truncated to 15 bytes.
func ListByName(name string) ([]process.ProcessID, error) {
	if name == "" {
		return nil, errors.New("empty name")
	}

	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}

	selfPID := os.Getpid()
	var out []process.ProcessID

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue // not a PID dir
		}
		if pid == selfPID {
			continue // skip ourselves
		}

		comm, _ := os.ReadFile(filepath.Join("/proc", e.Name(), "comm"))
		if string(trimSpaceRight(comm)) == name {
			out = append(out, process.ProcessID(pid))
			continue
		}

		// Resolve /proc/<pid>/exe; may fail for zombies or on permission
		exe, _ := os.Readlink(filepath.Join("/proc", e.Name(), "exe"))
		if exe != "" && filepath.Base(exe) == name {
			out = append(out, process.ProcessID(pid))
		}
	}

	return out, nil
}

// FindProcess returns the lowest PID whose comm or exe basename equals name,
// or false when no such process is running.
func FindProcess(name string) (process.ProcessID, bool) {
	pids, err := ListByName(name)
	if err != nil || len(pids) == 0 {
		return 0, false
	}

	min := pids[0]
	for _, pid := range pids[1:] {
		if pid < min {
			min = pid
		}
	}
	return min, true
}

func procExists(pid process.ProcessID) bool {
	_, err := os.Stat(filepath.Join("/proc", strconv.Itoa(int(pid))))
	if err == nil {
		return true
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	// For transient errors (permission, EIO): fall back to kill 0
	return syscall.Kill(int(pid), 0) == nil
}

func trimSpaceRight(b []byte) []byte {
	for len(b) > 0 {
		switch b[len(b)-1] {
		case '\n', '\r', ' ', '\t':
			b = b[:len(b)-1]
		default:
			return b
		}
	}
	return b
}
