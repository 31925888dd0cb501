//go:build windows

package main

import (
	"scdhook/process"
	"scdhook/process_windows"
)

func openPID(pid int) (process.Inspector, error) {
	return process_windows.Open(process.ProcessID(pid))
}

func openName(name string) (process.Inspector, error) {
	return process_windows.OpenByName(name)
}

func moduleBase(pid process.ProcessID, module string) (process.ProcessMemoryAddress, bool) {
	return process_windows.ModuleBase(pid, module)
}
