package bytearray

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// MaxUTFLength is the largest byte length a 16-bit UTF prefix can carry.
const MaxUTFLength = 0xFFFF

// ReadUTF reads a big-endian uint16 length followed by that many UTF-8 bytes.
func (b *ByteArray) ReadUTF() (string, error) {
	p, err := b.next(2)
	if err != nil {
		return "", err
	}
	n := int(binary.BigEndian.Uint16(p))
	if n > b.BytesAvailable() {
		b.rpos -= 2
		return "", fmt.Errorf("%w: UTF string of %d bytes with %d available", ErrRange, n, b.BytesAvailable())
	}
	return b.ReadUTFBytes(n)
}

// WriteUTF writes s with a big-endian uint16 length prefix.
func (b *ByteArray) WriteUTF(s string) error {
	if len(s) > MaxUTFLength {
		return fmt.Errorf("%w: UTF string of %d bytes exceeds %d", ErrRange, len(s), MaxUTFLength)
	}
	binary.BigEndian.PutUint16(b.extend(2), uint16(len(s)))
	b.WriteUTFBytes(s)
	return nil
}

// ReadUTFBytes reads n raw UTF-8 bytes.
func (b *ByteArray) ReadUTFBytes(n int) (string, error) {
	p, err := b.next(n)
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// WriteUTFBytes writes s without a length prefix.
func (b *ByteArray) WriteUTFBytes(s string) {
	copy(b.extend(len(s)), s)
}

// ReadMultiByte reads n bytes encoded in charset and returns them as UTF-8.
func (b *ByteArray) ReadMultiByte(n int, charset string) (string, error) {
	enc, err := lookupCharset(charset)
	if err != nil {
		return "", err
	}
	p, err := b.next(n)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return string(p), nil
	}
	out, err := enc.NewDecoder().Bytes(p)
	if err != nil {
		return "", fmt.Errorf("%w: decode %s: %v", ErrCharset, charset, err)
	}
	return string(out), nil
}

// WriteMultiByte writes s encoded in charset, without a length prefix.
func (b *ByteArray) WriteMultiByte(s, charset string) error {
	enc, err := lookupCharset(charset)
	if err != nil {
		return err
	}
	if enc == nil {
		b.WriteUTFBytes(s)
		return nil
	}
	out, err := enc.NewEncoder().String(s)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrCharset, charset, err)
	}
	b.WriteUTFBytes(out)
	return nil
}

// lookupCharset resolves an IANA charset name. A nil encoding means UTF-8,
// which needs no transcoding.
func lookupCharset(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrCharset, name)
	}
	return enc, nil
}
