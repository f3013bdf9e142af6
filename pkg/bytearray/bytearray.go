// Package bytearray implements a growable binary buffer with independent
// read and write cursors, selectable byte order, and the primitive encoders
// the AMF codecs are built on.
package bytearray

import (
	"encoding/binary"
	"fmt"

	"github.com/ssungk/eamf/pkg/buf"
)

// ByteArray is a growable byte buffer with separate read and write cursors.
//
// The write cursor marks the end of the content; the read cursor never passes
// it. BytesAvailable is the distance between them. A ByteArray is not safe for
// concurrent use.
type ByteArray struct {
	data   []byte // full storage, len(data) is the capacity
	pooled bool   // data came from buf.Alloc

	rpos int
	wpos int

	order            binary.ByteOrder
	endian           Endian
	objectEncoding   ObjectEncoding
	chunk            int
	compressionLevel int
}

// New creates an empty ByteArray from cfg.
func New(cfg Config) *ByteArray {
	b := &ByteArray{}
	b.apply(cfg)
	if cfg.InitialSize > 0 {
		b.data = alloc(cfg.InitialSize)
		b.pooled = true
	}
	return b
}

// NewDefault creates an empty ByteArray with DefaultConfig.
func NewDefault() *ByteArray {
	return New(DefaultConfig())
}

// NewFromBytes wraps data for reading. The write cursor is placed at the end
// of data, the read cursor at the start. data is owned by the ByteArray until
// it grows past it.
func NewFromBytes(data []byte) *ByteArray {
	b := &ByteArray{data: data, wpos: len(data)}
	b.apply(DefaultConfig())
	return b
}

func (b *ByteArray) apply(cfg Config) {
	b.SetEndian(cfg.Endian)
	b.objectEncoding = cfg.ObjectEncoding
	b.chunk = cfg.ChunkSize
	if b.chunk <= 0 {
		b.chunk = DefaultChunkSize
	}
	b.compressionLevel = cfg.CompressionLevel
}

func alloc(size int) []byte {
	d := buf.Alloc(size)
	return d[:cap(d)]
}

// Endian returns the byte order used by multi-byte primitives.
func (b *ByteArray) Endian() Endian { return b.endian }

// SetEndian changes the byte order used by multi-byte primitives.
// UTF length prefixes are always big-endian.
func (b *ByteArray) SetEndian(e Endian) {
	b.endian = e
	if e == LittleEndian {
		b.order = binary.LittleEndian
	} else {
		b.order = binary.BigEndian
	}
}

// ObjectEncoding returns the codec selector for object serialisation.
func (b *ByteArray) ObjectEncoding() ObjectEncoding { return b.objectEncoding }

// SetObjectEncoding changes the codec selector for object serialisation.
func (b *ByteArray) SetObjectEncoding(enc ObjectEncoding) { b.objectEncoding = enc }

// CompressionLevel returns the zlib level used by Compress.
func (b *ByteArray) CompressionLevel() int { return b.compressionLevel }

// SetCompressionLevel sets the zlib level used by Compress.
func (b *ByteArray) SetCompressionLevel(level int) { b.compressionLevel = level }

// Len returns the content length, which is the write cursor.
func (b *ByteArray) Len() int { return b.wpos }

// Cap returns the storage capacity.
func (b *ByteArray) Cap() int { return len(b.data) }

// BytesAvailable returns the number of bytes left to read.
func (b *ByteArray) BytesAvailable() int { return b.wpos - b.rpos }

// ReadPosition returns the read cursor.
func (b *ByteArray) ReadPosition() int { return b.rpos }

// SetReadPosition moves the read cursor. It must stay within [0, Len()].
func (b *ByteArray) SetReadPosition(pos int) error {
	if pos < 0 || pos > b.wpos {
		return fmt.Errorf("%w: read position %d outside [0, %d]", ErrRange, pos, b.wpos)
	}
	b.rpos = pos
	return nil
}

// WritePosition returns the write cursor.
func (b *ByteArray) WritePosition() int { return b.wpos }

// Bytes returns the content between offset 0 and the write cursor.
// The slice aliases the storage and is valid until the next write or Release.
func (b *ByteArray) Bytes() []byte { return b.data[:b.wpos] }

// Unread returns the bytes between the read and write cursors without
// consuming them.
func (b *ByteArray) Unread() []byte { return b.data[b.rpos:b.wpos] }

// SetLength truncates the content or extends it with zero bytes.
// The read cursor is clamped to the new length.
func (b *ByteArray) SetLength(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative length %d", ErrRange, n)
	}
	if n > b.wpos {
		b.reserve(n - b.wpos)
		clear(b.data[b.wpos:n])
	}
	b.wpos = n
	if b.rpos > n {
		b.rpos = n
	}
	return nil
}

// Clear drops the content and resets both cursors. Storage is kept.
func (b *ByteArray) Clear() {
	b.rpos = 0
	b.wpos = 0
}

// Release returns pooled storage and leaves the ByteArray empty.
func (b *ByteArray) Release() {
	if b.pooled {
		buf.Free(b.data)
	}
	b.data = nil
	b.pooled = false
	b.rpos = 0
	b.wpos = 0
}

// reserve makes room for n more bytes at the write cursor.
// Storage grows to len(storage) + chunk + n, never in place.
func (b *ByteArray) reserve(n int) {
	if b.wpos+n <= len(b.data) {
		return
	}
	grown := alloc(len(b.data) + b.chunk + n)
	copy(grown, b.data[:b.wpos])
	if b.pooled {
		buf.Free(b.data)
	}
	b.data = grown
	b.pooled = true
}

// extend reserves n bytes and advances the write cursor over them.
func (b *ByteArray) extend(n int) []byte {
	b.reserve(n)
	p := b.data[b.wpos : b.wpos+n]
	b.wpos += n
	return p
}

// next consumes n bytes at the read cursor.
func (b *ByteArray) next(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative read length %d", ErrRange, n)
	}
	if n > b.wpos-b.rpos {
		return nil, rangeErr(n, b.wpos-b.rpos)
	}
	p := b.data[b.rpos : b.rpos+n]
	b.rpos += n
	return p, nil
}

// replace swaps the content for p, leaving the read cursor at 0 and the write
// cursor at len(p).
func (b *ByteArray) replace(p []byte) {
	b.wpos = 0
	b.rpos = 0
	copy(b.extend(len(p)), p)
}

func (b *ByteArray) String() string {
	return fmt.Sprintf("ByteArray{len=%d cap=%d read=%d endian=%s encoding=%d}",
		b.wpos, len(b.data), b.rpos, b.endian, b.objectEncoding)
}
