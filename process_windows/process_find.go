//go:build windows

package process_windows

import (
	"unsafe"

	"scdhook/process"

	"golang.org/x/sys/windows"
)

// FindProcess returns the PID of the first process whose executable name
// equals name (case-sensitive, no path). With several instances running the
// winner follows snapshot enumeration order, which the OS does not define.
func FindProcess(name string) (process.ProcessID, bool) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return 0, false
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Process32First(snap, &entry); err != nil {
		return 0, false
	}
	for {
		if windows.UTF16ToString(entry.ExeFile[:]) == name {
			return process.ProcessID(entry.ProcessID), true
		}
		if err := windows.Process32Next(snap, &entry); err != nil {
			return 0, false
		}
	}
}

// ModuleBase returns the base address of the named module loaded in the
// process, or false when the module is absent or the process exited
// mid-enumeration.
func ModuleBase(pid process.ProcessID, module string) (process.ProcessMemoryAddress, bool) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, uint32(pid))
	if err != nil {
		return 0, false
	}
	defer windows.CloseHandle(snap)

	var entry windows.ModuleEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Module32First(snap, &entry); err != nil {
		return 0, false
	}
	for {
		if windows.UTF16ToString(entry.Module[:]) == module {
			return process.ProcessMemoryAddress(entry.ModBaseAddr), true
		}
		if err := windows.Module32Next(snap, &entry); err != nil {
			return 0, false
		}
	}
}
