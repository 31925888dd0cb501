//go:build linux

package main

import (
	"scdhook/process"
	"scdhook/process_linux"
)

func openPID(pid int) (process.Inspector, error) {
	return process_linux.Open(process.ProcessID(pid))
}
