package process

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ReadByte reads a single byte from the specified address.
func ReadByte(insp Inspector, addr ProcessMemoryAddress) (byte, error) {
	data, err := insp.ReadMemory(addr, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// WriteByte writes a single byte to the specified address.
func WriteByte(insp Inspector, addr ProcessMemoryAddress, value byte) error {
	return insp.WriteMemory(addr, []byte{value})
}

// ReadPointer reads a pointer-width little-endian value from the specified
// address. Values below MinValidAddress come back as ErrInvalidPointer: the
// slot holds a null or poisoned pointer, not a usable address.
func ReadPointer(insp Inspector, addr ProcessMemoryAddress) (ProcessMemoryAddress, error) {
	data, err := insp.ReadMemory(addr, PointerSize)
	if err != nil {
		return 0, fmt.Errorf("read pointer at %s: %w", addr.ToString(), err)
	}

	value := ProcessMemoryAddress(binary.LittleEndian.Uint64(data))
	if value < MinValidAddress {
		return 0, fmt.Errorf("%s -> %s: %w", addr.ToString(), value.ToString(), ErrInvalidPointer)
	}

	return value, nil
}

// ReadNTS reads a null-terminated string of at most maxLength bytes from the
// specified address. The result is truncated at the first NUL, and malformed
// byte sequences are replaced rather than failing; the buffer contents are
// not trusted.
func ReadNTS(insp Inspector, addr ProcessMemoryAddress, maxLength ProcessMemorySize) (string, error) {
	if maxLength == 0 {
		return "", nil
	}

	data, err := insp.ReadMemory(addr, maxLength)
	if err != nil {
		return "", err
	}

	if idx := bytes.IndexByte(data, 0); idx >= 0 {
		data = data[:idx]
	}

	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
}

// WriteNTS writes text into a fixed-size null-terminated buffer of maxLength
// bytes at the specified address. The text is truncated to maxLength-1 bytes
// and the remainder is zero-filled, so a shorter string never leaves trailing
// fragments of a longer previous one. The whole buffer goes out in a single
// write.
func WriteNTS(insp Inspector, addr ProcessMemoryAddress, text string, maxLength ProcessMemorySize) error {
	if maxLength == 0 {
		return fmt.Errorf("zero-length string buffer at %s", addr.ToString())
	}

	encoded := []byte(text)
	if len(encoded) > int(maxLength)-1 {
		encoded = encoded[:maxLength-1]
	}

	buf := make([]byte, maxLength)
	copy(buf, encoded)

	return insp.WriteMemory(addr, buf)
}
