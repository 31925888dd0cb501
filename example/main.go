// Polls for the game, connects, sends one hot-swap and watches liveness —
// the minimal shape of a host application driving the hook.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"scdhook/hook"
)

func main() {
	fieldFlag := flag.String("field", "", "Path to write into the field music slot")
	battleFlag := flag.String("battle", "", "Path to write into the battle music slot")
	flag.Parse()

	if *fieldFlag == "" && *battleFlag == "" {
		fmt.Println("Error: at least one of --field or --battle is required")
		flag.Usage()
		os.Exit(1)
	}

	session := hook.NewSession()
	defer session.Disconnect()

	// The game not running and the mod not loaded are normal; keep polling.
	for session.Connect() != nil {
		time.Sleep(2 * time.Second)
	}

	if paths, err := session.CurrentPaths(); err == nil {
		fmt.Printf("Buffers before: field=%q battle=%q\n", paths.Field, paths.Battle)
	}

	result, err := session.SendHotswap(*fieldFlag, *battleFlag)
	if err != nil {
		fmt.Printf("Hotswap failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Hotswap sent: %s\n", result)

	// Watch the apply byte until the mod consumes the request, then stay
	// attached until the game exits to show the self-healing liveness check.
	for session.IsConnected() {
		pending, err := session.ApplyPending()
		if err == nil && !pending {
			fmt.Println("Mod consumed the apply request")
			break
		}
		time.Sleep(200 * time.Millisecond)
	}

	for session.IsConnected() {
		time.Sleep(2 * time.Second)
	}
	fmt.Println("Game exited, session disconnected")
}
