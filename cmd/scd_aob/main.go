package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"scdhook/hexdump"
	"scdhook/process"
)

// AOBPart represents a part of the AOB pattern
type AOBPart struct {
	Value byte
	Mask  byte // 0xFF for exact match, 0x00 for wildcard
}

func main() {
	pidFlag := flag.Int("pid", 0, "Process ID to attach to")
	aobFlag := flag.String("aob", "", "Array of bytes to scan for (e.g., '00,ba,ad,??,f0')")
	flag.Parse()

	if *pidFlag == 0 {
		fmt.Println("Error: --pid is required")
		flag.Usage()
		os.Exit(1)
	}

	if *aobFlag == "" {
		fmt.Println("Error: --aob is required")
		flag.Usage()
		os.Exit(1)
	}

	pattern, err := parseAOB(*aobFlag)
	if err != nil {
		fmt.Printf("Error parsing AOB: %v\n", err)
		os.Exit(1)
	}

	insp, err := openPID(*pidFlag)
	if err != nil {
		fmt.Printf("Error attaching to process %d: %v\n", *pidFlag, err)
		os.Exit(1)
	}
	defer insp.Close()

	fmt.Printf("Attached to process %d\n", *pidFlag)
	fmt.Printf("Scanning for pattern: %s\n", formatPattern(pattern))

	aob, err := toAOB(pattern)
	if err != nil {
		fmt.Printf("Error building AOB: %v\n", err)
		os.Exit(1)
	}

	matches := process.FindAll(insp, aob)
	fmt.Printf("Found %d matches:\n", len(matches))

	for _, match := range matches {
		fmt.Printf("Match at %s:\n", match.ToString())
		printContext(insp, match, aob)
	}
}

// printContext dumps a window around the match: 16 bytes before, the pattern,
// and whatever of the trailing context is readable.
func printContext(insp process.Inspector, match process.ProcessMemoryAddress, aob process.AOB) {
	start := match - 16
	size := process.ProcessMemorySize(48)
	if len(aob.Pattern) > 16 {
		size = process.ProcessMemorySize(32 + len(aob.Pattern))
	}

	data, err := insp.ReadMemory(start, size)
	if err != nil {
		return
	}

	// Highlighting with wildcards would need mask-aware matching; only exact
	// patterns get highlighted.
	highlight := aob.Pattern
	if len(aob.Mask) != 0 {
		highlight = nil
	}

	fmt.Println(hexdump.Context(data, uint64(start), highlight))
}

func parseAOB(aob string) ([]AOBPart, error) {
	// Split by comma or space
	parts := strings.FieldsFunc(aob, func(r rune) bool {
		return r == ',' || r == ' '
	})

	var pattern []AOBPart

	for _, part := range parts {
		if part == "??" || part == "?" {
			pattern = append(pattern, AOBPart{Value: 0, Mask: 0})
			continue
		}

		val, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex byte: %s", part)
		}
		pattern = append(pattern, AOBPart{Value: byte(val), Mask: 0xFF})
	}

	if len(pattern) == 0 {
		return nil, fmt.Errorf("empty pattern")
	}

	return pattern, nil
}

func formatPattern(pattern []AOBPart) string {
	var sb strings.Builder
	for i, p := range pattern {
		if i > 0 {
			sb.WriteString(" ")
		}
		if p.Mask == 0 {
			sb.WriteString("??")
		} else {
			sb.WriteString(hex.EncodeToString([]byte{p.Value}))
		}
	}
	return sb.String()
}

func toAOB(pattern []AOBPart) (process.AOB, error) {
	bytesOut := make([]byte, len(pattern))
	maskOut := make([]byte, len(pattern))
	exact := true

	for i, part := range pattern {
		bytesOut[i] = part.Value
		maskOut[i] = part.Mask
		if part.Mask != 0xFF {
			exact = false
		}
	}

	if exact {
		return process.ExactAOB(bytesOut), nil
	}
	return process.NewAOB(bytesOut, maskOut)
}
