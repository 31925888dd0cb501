//go:build windows

package hook

import (
	"fmt"

	"scdhook/process"
	"scdhook/process_windows"
)

// defaultOpen locates the game by executable name.
func defaultOpen() (process.Inspector, error) {
	p, err := process_windows.OpenByName(TargetProcessName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessNotFound, err)
	}
	return p, nil
}
