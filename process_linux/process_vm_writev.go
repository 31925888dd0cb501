//go:build linux

package process_linux

import (
	"fmt"
	"unsafe"

	"scdhook/process"

	"golang.org/x/sys/unix"
)

// process_vm_writev uses the process_vm_writev syscall to write memory to
// another process.
func process_vm_writev(
	pid process.ProcessID,
	remoteAddr process.ProcessMemoryAddress,
	localBuf []byte,
) (int, error) {
	localIov := unix.Iovec{
		Base: &localBuf[0],
		Len:  uint64(len(localBuf)),
	}

	remoteIov := unix.RemoteIovec{
		Base: uintptr(remoteAddr),
		Len:  len(localBuf),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_WRITEV,
		uintptr(pid),                        // Remote process PID
		uintptr(unsafe.Pointer(&localIov)),  // Local iovec
		uintptr(1),                          // Number of local iovecs
		uintptr(unsafe.Pointer(&remoteIov)), // Remote iovec
		uintptr(1),                          // Number of remote iovecs
		uintptr(0),                          // Flags (reserved for future use)
	)

	if errno != 0 {
		return 0, fmt.Errorf("process_vm_writev failed: %s (errno: %d)", errno.Error(), errno)
	}

	return int(n), nil
}

// WriteMemory writes data to the process memory at the specified address.
// Short writes are reported as errors.
func (p *LinuxProcess) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	p.mu.Lock()
	pid := p.pid
	valid := p.isValidAddressInternal(addr)
	writable := false
	if r := p.regionAt(addr); r != nil {
		writable = r.IsWritable()
	}
	p.mu.Unlock()

	if pid == 0 {
		return process.ErrProcessNotOpen
	}
	if !valid {
		return process.ErrAddressNotMapped
	}
	if !writable {
		return fmt.Errorf("memory region at %s is not writable", addr.ToString())
	}

	written, err := process_vm_writev(pid, addr, data)
	if err != nil {
		return fmt.Errorf("failed to write process memory: %w", err)
	}

	if written != len(data) {
		return fmt.Errorf("only wrote %d of %d bytes", written, len(data))
	}

	return nil
}
