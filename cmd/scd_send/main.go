// scd_send drives one music hot-swap from the command line: connect, write
// the given paths, raise the apply byte, read the buffers back.
package main

import (
	"flag"
	"fmt"
	"os"

	"scdhook/hook"
)

func main() {
	fieldFlag := flag.String("field", "", "Path to write into the field music slot (empty: leave unchanged)")
	battleFlag := flag.String("battle", "", "Path to write into the battle music slot (empty: leave unchanged)")
	flag.Parse()

	if *fieldFlag == "" && *battleFlag == "" {
		fmt.Println("Error: at least one of --field or --battle is required")
		flag.Usage()
		os.Exit(1)
	}

	session := hook.NewSession()
	defer session.Disconnect()

	if err := session.Connect(); err != nil {
		fmt.Printf("Error connecting: %v\n", err)
		os.Exit(1)
	}

	result, err := session.SendHotswap(*fieldFlag, *battleFlag)
	if err != nil {
		fmt.Printf("Error sending hotswap: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Hotswap result: %s\n", result)

	paths, err := session.CurrentPaths()
	if err != nil {
		fmt.Printf("Error reading buffers back: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Field buffer:  %q\n", paths.Field)
	fmt.Printf("Battle buffer: %q\n", paths.Battle)

	if !result.OK() {
		os.Exit(1)
	}
}
