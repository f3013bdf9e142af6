package bytearray

import (
	"bytes"
	"fmt"
	"io"
)

// ReadBytes moves length bytes from the read cursor into dst starting at
// offset. dst is zero-extended when offset+length runs past its content.
// A length of 0 reads everything available.
func (b *ByteArray) ReadBytes(dst *ByteArray, offset, length int) error {
	if dst == nil {
		return fmt.Errorf("%w: nil destination", ErrRange)
	}
	if offset < 0 || length < 0 {
		return fmt.Errorf("%w: negative offset %d or length %d", ErrRange, offset, length)
	}
	if length == 0 {
		length = b.BytesAvailable()
	}
	p, err := b.next(length)
	if err != nil {
		return err
	}
	if dst == b {
		p = bytes.Clone(p)
	}
	end := offset + length
	if end > dst.wpos {
		if err := dst.SetLength(end); err != nil {
			return err
		}
	}
	copy(dst.data[offset:end], p)
	return nil
}

// WriteBytes appends length bytes of src's content, starting at offset, at
// the write cursor. src's cursors are not moved. A length of 0 writes from
// offset to the end of src.
func (b *ByteArray) WriteBytes(src *ByteArray, offset, length int) error {
	if src == nil {
		return fmt.Errorf("%w: nil source", ErrRange)
	}
	if offset < 0 || length < 0 {
		return fmt.Errorf("%w: negative offset %d or length %d", ErrRange, offset, length)
	}
	if offset > src.wpos {
		return fmt.Errorf("%w: offset %d past source length %d", ErrRange, offset, src.wpos)
	}
	if length == 0 {
		length = src.wpos - offset
	}
	if offset+length > src.wpos {
		return fmt.Errorf("%w: %d bytes at offset %d exceed source length %d", ErrRange, length, offset, src.wpos)
	}
	p := src.data[offset : offset+length]
	if src == b {
		p = bytes.Clone(p)
	}
	copy(b.extend(length), p)
	return nil
}

// Read implements io.Reader over the unread content.
func (b *ByteArray) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if b.rpos >= b.wpos {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.rpos:b.wpos])
	b.rpos += n
	return n, nil
}

// ReadByte implements io.ByteReader.
func (b *ByteArray) ReadByte() (byte, error) {
	if b.rpos >= b.wpos {
		return 0, io.EOF
	}
	return b.ReadUint8()
}

// Write implements io.Writer; it appends p at the write cursor.
func (b *ByteArray) Write(p []byte) (int, error) {
	copy(b.extend(len(p)), p)
	return len(p), nil
}

// WriteByte implements io.ByteWriter.
func (b *ByteArray) WriteByte(c byte) error {
	b.WriteUint8(c)
	return nil
}

// ReadFrom implements io.ReaderFrom, appending until r returns io.EOF.
func (b *ByteArray) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for {
		b.reserve(b.chunk)
		n, err := r.Read(b.data[b.wpos:])
		b.wpos += n
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// WriteTo implements io.WriterTo, draining the unread content into w.
func (b *ByteArray) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.data[b.rpos:b.wpos])
	b.rpos += n
	return int64(n), err
}
