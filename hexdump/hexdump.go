// Package hexdump renders memory buffers as offset + hex + ASCII lines for
// the diagnostic commands, with optional highlighting of a byte pattern.
package hexdump

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/Moonlight-Companies/gologger/coloransi"
)

// Options defines options for customizing the hexdump output
type Options struct {
	// BytesPerLine defines the number of bytes to display per line
	BytesPerLine int

	// ShowASCII determines whether to show the ASCII representation
	ShowASCII bool

	// ShowOffset determines whether to show the offset/address column
	ShowOffset bool

	// StartOffset is the address printed for the first byte
	StartOffset uint64

	// OffsetWidth is the width of the offset column in hex digits
	OffsetWidth int

	// MaxLines is the maximum number of lines to show (0 for no limit)
	MaxLines int

	// Highlight is a pattern to highlight wherever it occurs in the dump
	Highlight []byte

	// Color toggles ANSI colors; off, the output is plain text
	Color bool

	OffsetColor       coloransi.ColorCode
	HexColor          coloransi.ColorCode
	ASCIIColor        coloransi.ColorCode
	NonPrintableColor coloransi.ColorCode
	ZeroColor         coloransi.ColorCode
	HighlightColor    coloransi.ColorCode
	HighlightBG       coloransi.ColorCode
}

// DefaultOptions returns the default hexdump options
func DefaultOptions() Options {
	return Options{
		BytesPerLine:      16,
		ShowASCII:         true,
		ShowOffset:        true,
		OffsetWidth:       12,
		Color:             true,
		OffsetColor:       coloransi.Cyan,
		HexColor:          coloransi.Green,
		ASCIIColor:        coloransi.White,
		NonPrintableColor: coloransi.BrightBlack,
		ZeroColor:         coloransi.BrightBlack,
		HighlightColor:    coloransi.Yellow,
		HighlightBG:       coloransi.Black,
	}
}

// Dump creates a hex dump of the given data with specified options
func Dump(data []byte, options Options) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, data, options)
	return buffer.String()
}

// Context dumps a window of size bytes starting at addr with the given
// pattern highlighted, the common shape for "show me what surrounds this
// match" in the commands.
func Context(data []byte, addr uint64, pattern []byte) string {
	options := DefaultOptions()
	options.StartOffset = addr
	options.Highlight = pattern
	return Dump(data, options)
}

// DumpToWriter writes a hex dump of the given data to the specified writer
func DumpToWriter(writer io.Writer, data []byte, options Options) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}
	if options.OffsetWidth <= 0 {
		options.OffsetWidth = 12
	}

	marks := highlightMarks(data, options.Highlight)

	lineCount := 0
	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		if options.MaxLines > 0 && lineCount >= options.MaxLines {
			fmt.Fprintf(writer, "... %d more bytes\n", len(data)-offset)
			break
		}

		end := offset + options.BytesPerLine
		if end > len(data) {
			end = len(data)
		}

		formatLine(writer, data[offset:end], marks[offset:end], uint64(offset), options)

		lineCount++
	}
}

// highlightMarks flags every byte covered by an occurrence of the pattern.
func highlightMarks(data, pattern []byte) []bool {
	marks := make([]bool, len(data))
	if len(pattern) == 0 {
		return marks
	}

	start := 0
	for {
		idx := bytes.Index(data[start:], pattern)
		if idx < 0 {
			return marks
		}
		for i := 0; i < len(pattern); i++ {
			marks[start+idx+i] = true
		}
		start += idx + 1
	}
}

// formatLine formats a single line of the hex dump
func formatLine(writer io.Writer, data []byte, marks []bool, offset uint64, options Options) {
	if options.ShowOffset {
		offsetStr := fmt.Sprintf("%0"+strconv.Itoa(options.OffsetWidth)+"x", offset+options.StartOffset)
		fmt.Fprint(writer, paint(options, options.OffsetColor, offsetStr), "  ")
	}

	for i := 0; i < options.BytesPerLine; i++ {
		// Mid-line divider keeps 16-wide lines readable.
		if i > 0 && i == options.BytesPerLine/2 {
			fmt.Fprint(writer, "| ")
		}

		if i >= len(data) {
			fmt.Fprint(writer, "   ")
			continue
		}

		fmt.Fprint(writer, hexByte(data[i], marks[i], options), " ")
	}

	if options.ShowASCII {
		fmt.Fprint(writer, " |")
		for i, b := range data {
			fmt.Fprint(writer, asciiByte(b, marks[i], options))
		}
		fmt.Fprint(writer, "|")
	}

	fmt.Fprintln(writer)
}

func hexByte(b byte, highlighted bool, options Options) string {
	text := fmt.Sprintf("%02x", b)

	if highlighted {
		return highlight(options, text)
	}
	if b == 0 {
		return paint(options, options.ZeroColor, text)
	}
	return paint(options, options.HexColor, text)
}

func asciiByte(b byte, highlighted bool, options Options) string {
	c := rune(b)

	text := string(c)
	if b == 0 || !unicode.IsPrint(c) {
		text = "."
	}

	switch {
	case highlighted:
		return highlight(options, text)
	case b == 0:
		return paint(options, options.ZeroColor, text)
	case !unicode.IsPrint(c):
		return paint(options, options.NonPrintableColor, text)
	}
	return paint(options, options.ASCIIColor, text)
}

func paint(options Options, color coloransi.ColorCode, text string) string {
	if !options.Color {
		return text
	}
	return coloransi.Foreground(color, text)
}

func highlight(options Options, text string) string {
	if !options.Color {
		return strings.ToUpper(text)
	}
	return coloransi.Color(options.HighlightColor, options.HighlightBG, text)
}
