//go:build windows

package process_windows

import (
	"fmt"
	"unsafe"

	"scdhook/process"

	"golang.org/x/sys/windows"
)

// QueryRegion queries the region containing addr via VirtualQueryEx. State
// and Protect pass through unchanged; unmapped space comes back as a free
// region, which scan eligibility filters out.
func (p *WindowsProcess) QueryRegion(addr process.ProcessMemoryAddress) (process.Region, bool) {
	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()

	if handle == 0 {
		return process.Region{}, false
	}

	var mbi windows.MemoryBasicInformation
	if err := windows.VirtualQueryEx(handle, uintptr(addr), &mbi, unsafe.Sizeof(mbi)); err != nil {
		return process.Region{}, false
	}

	return process.Region{
		Base:    process.ProcessMemoryAddress(mbi.BaseAddress),
		Size:    process.ProcessMemorySize(mbi.RegionSize),
		State:   mbi.State,
		Protect: mbi.Protect,
	}, true
}

// ReadMemory reads memory from the process at the specified address.
func (p *WindowsProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()

	if handle == 0 {
		return nil, process.ErrProcessNotOpen
	}

	buf := make([]byte, size)
	var bytesRead uintptr
	if err := windows.ReadProcessMemory(handle, uintptr(addr), &buf[0], uintptr(size), &bytesRead); err != nil {
		return nil, fmt.Errorf("ReadProcessMemory failed: %w", err)
	}

	if bytesRead != uintptr(size) {
		return nil, fmt.Errorf("read incomplete: expected %s, got %d bytes", size.ToString(), bytesRead)
	}

	return buf, nil
}

// WriteMemory writes data to the process memory at the specified address.
// Short writes are reported as errors.
func (p *WindowsProcess) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()

	if handle == 0 {
		return process.ErrProcessNotOpen
	}

	var bytesWritten uintptr
	if err := windows.WriteProcessMemory(handle, uintptr(addr), &data[0], uintptr(len(data)), &bytesWritten); err != nil {
		return fmt.Errorf("WriteProcessMemory failed: %w", err)
	}

	if bytesWritten != uintptr(len(data)) {
		return fmt.Errorf("only wrote %d of %d bytes", bytesWritten, len(data))
	}

	return nil
}
