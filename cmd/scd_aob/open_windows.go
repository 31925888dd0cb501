//go:build windows

package main

import (
	"scdhook/process"
	"scdhook/process_windows"
)

func openPID(pid int) (process.Inspector, error) {
	return process_windows.Open(process.ProcessID(pid))
}
