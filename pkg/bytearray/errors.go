package bytearray

import (
	"errors"
	"fmt"
)

var (
	// Bounds errors: cursor or length outside the readable/writable region.
	ErrRange = errors.New("bytearray: out of range")

	// Collaborator errors
	ErrCharset     = errors.New("bytearray: unsupported character set")
	ErrCompression = errors.New("bytearray: unsupported compression algorithm")
)

func rangeErr(want, have int) error {
	return fmt.Errorf("%w: read of %d bytes with %d available", ErrRange, want, have)
}
