// scd_probe locates the game, scans for the three mod key signatures and
// reports what it finds: every occurrence (duplicates mean a broken layout),
// the resolved buffer pointers, the current buffer contents and the trigger
// state. It never writes to the target.
package main

import (
	"flag"
	"fmt"
	"os"

	"scdhook/hexdump"
	"scdhook/hook"
	"scdhook/process"
)

func main() {
	pidFlag := flag.Int("pid", 0, "Process ID to probe (default: locate the game by name)")
	flag.Parse()

	var (
		insp process.Inspector
		err  error
	)
	if *pidFlag != 0 {
		insp, err = openPID(*pidFlag)
	} else {
		insp, err = openName(hook.TargetProcessName)
	}
	if err != nil {
		fmt.Printf("Error attaching: %v\n", err)
		os.Exit(1)
	}
	defer insp.Close()

	fmt.Printf("Attached to process %d\n", insp.GetPID())

	if base, ok := moduleBase(insp.GetPID(), hook.TargetProcessName); ok {
		fmt.Printf("Module base: %s\n", base.ToString())
	} else {
		fmt.Println("Module base: not found")
	}

	failed := false
	for _, key := range []string{hook.KeyMusicApply, hook.KeyFieldPath, hook.KeyBattlePath} {
		if !probeKey(insp, key) {
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

func probeKey(insp process.Inspector, key string) bool {
	pattern := []byte(key)

	matches := process.FindAll(insp, process.ExactAOB(pattern))
	fmt.Printf("\n%s: %d occurrence(s)\n", key, len(matches))

	if len(matches) == 0 {
		fmt.Println("  signature not found; is the companion mod loaded?")
		return false
	}
	for _, match := range matches[1:] {
		fmt.Printf("  duplicate at %s\n", match.ToString())
	}

	sig := matches[0]
	fmt.Printf("  signature at %s\n", sig.ToString())

	if data, err := insp.ReadMemory(sig-16, 80); err == nil {
		fmt.Print(hexdump.Context(data, uint64(sig-16), pattern))
	}

	ptr, err := process.ReadPointer(insp, sig+hook.PointerOffset)
	if err != nil {
		fmt.Printf("  pointer: %v\n", err)
		return false
	}
	fmt.Printf("  buffer at %s\n", ptr.ToString())

	switch key {
	case hook.KeyMusicApply:
		value, err := process.ReadByte(insp, ptr)
		if err != nil {
			fmt.Printf("  trigger: %v\n", err)
			return false
		}
		fmt.Printf("  trigger byte: %d (apply pending: %t)\n", value, value != 0)
	default:
		text, err := process.ReadNTS(insp, ptr, hook.PathBufferSize)
		if err != nil {
			fmt.Printf("  contents: %v\n", err)
			return false
		}
		fmt.Printf("  contents: %q\n", text)
	}

	return true
}
