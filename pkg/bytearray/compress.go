package bytearray

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"
)

// Compression algorithm names accepted by Compress and Uncompress.
const (
	Zlib    = "zlib"
	Deflate = "deflate"
	LZ4     = "lz4"
)

// Compressor transforms a whole buffer. Implementations must be safe for
// concurrent use.
type Compressor interface {
	Compress(data []byte, level int) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

var (
	compressorsMu sync.RWMutex
	compressors   = map[string]Compressor{
		Zlib:    zlibCompressor{},
		Deflate: deflateCompressor{},
		LZ4:     lz4Compressor{},
	}
)

// RegisterCompressor makes c available under name for Compress/Uncompress.
func RegisterCompressor(name string, c Compressor) {
	compressorsMu.Lock()
	defer compressorsMu.Unlock()
	compressors[strings.ToLower(name)] = c
}

func compressor(name string) (Compressor, error) {
	compressorsMu.RLock()
	defer compressorsMu.RUnlock()
	c, ok := compressors[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCompression, name)
	}
	return c, nil
}

// Compress replaces the whole content with its compressed form. Afterwards
// the read cursor is 0 and the write cursor is the compressed length.
func (b *ByteArray) Compress(algorithm string) error {
	c, err := compressor(algorithm)
	if err != nil {
		return err
	}
	out, err := c.Compress(b.Bytes(), b.compressionLevel)
	if err != nil {
		return fmt.Errorf("%s compress: %w", algorithm, err)
	}
	b.replace(out)
	return nil
}

// Uncompress replaces the whole content with its decompressed form.
// Afterwards the read cursor is 0 and the write cursor is the decompressed
// length.
func (b *ByteArray) Uncompress(algorithm string) error {
	c, err := compressor(algorithm)
	if err != nil {
		return err
	}
	out, err := c.Decompress(b.Bytes())
	if err != nil {
		return fmt.Errorf("%s uncompress: %w", algorithm, err)
	}
	b.replace(out)
	return nil
}

// Deflate compresses the content with raw deflate.
func (b *ByteArray) Deflate() error { return b.Compress(Deflate) }

// Inflate decompresses raw deflate content.
func (b *ByteArray) Inflate() error { return b.Uncompress(Deflate) }

type zlibCompressor struct{}

func (zlibCompressor) Compress(data []byte, level int) ([]byte, error) {
	if level < -1 || level > 9 {
		return nil, fmt.Errorf("%w: compression level %d", ErrRange, level)
	}
	var out bytes.Buffer
	w, err := zlib.NewWriterLevel(&out, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (zlibCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

type deflateCompressor struct{}

// Raw deflate always runs at the default level.
func (deflateCompressor) Compress(data []byte, _ int) ([]byte, error) {
	var out bytes.Buffer
	w, err := flate.NewWriter(&out, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (deflateCompressor) Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	return io.ReadAll(r)
}

// lz4Compressor uses the LZ4 frame format so the uncompressed size does not
// need to travel out of band.
type lz4Compressor struct{}

func (lz4Compressor) Compress(data []byte, _ int) ([]byte, error) {
	var out bytes.Buffer
	w := lz4.NewWriter(&out)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (lz4Compressor) Decompress(data []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
}
