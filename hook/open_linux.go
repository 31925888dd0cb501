//go:build linux

package hook

import (
	"fmt"

	"scdhook/process"
	"scdhook/process_linux"
)

// defaultOpen locates the game by executable name. Under Proton the Windows
// binary shows up as an ordinary Linux process whose exe basename is the
// .exe name.
func defaultOpen() (process.Inspector, error) {
	p, err := process_linux.OpenByName(TargetProcessName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessNotFound, err)
	}
	return p, nil
}
