//go:build linux

package main

import (
	"scdhook/process"
	"scdhook/process_linux"
)

func openPID(pid int) (process.Inspector, error) {
	return process_linux.Open(process.ProcessID(pid))
}

func openName(name string) (process.Inspector, error) {
	return process_linux.OpenByName(name)
}

func moduleBase(pid process.ProcessID, module string) (process.ProcessMemoryAddress, bool) {
	return process_linux.ModuleBase(pid, module)
}
