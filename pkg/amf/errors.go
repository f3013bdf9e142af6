package amf

import (
	"errors"

	"github.com/ssungk/eamf/pkg/bytearray"
)

var (
	// ErrRange covers cursor and length overruns, U29 values of 2^30 or more
	// and UTF strings longer than 65535 bytes. It is the ByteArray's error so
	// both layers match the same errors.Is check.
	ErrRange = bytearray.ErrRange

	// Wire errors: unknown markers, missing end markers, bad references,
	// unsupported externalizable classes and unresolved aliases.
	ErrFormat = errors.New("amf: invalid format")

	// Encode errors for values with no wire mapping
	ErrType = errors.New("amf: unsupported type")
)
