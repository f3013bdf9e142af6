package amf

import (
	"fmt"
	"io"

	"github.com/ssungk/eamf/pkg/bytearray"
)

// WriteObject encodes v onto ba using the format selected by
// ba.ObjectEncoding(). Reference tables are fresh for the call.
func WriteObject(ba *bytearray.ByteArray, v Value) error {
	return WriteObjectConfig(ba, v, DefaultConfig())
}

// WriteObjectConfig is WriteObject with an explicit codec configuration.
func WriteObjectConfig(ba *bytearray.ByteArray, v Value, cfg Config) error {
	switch ba.ObjectEncoding() {
	case bytearray.AMF0:
		return NewAMF0Context(cfg).Encode(ba, v)
	case bytearray.AMF3:
		return NewAMF3Context(cfg).Encode(ba, v)
	default:
		return fmt.Errorf("%w: unknown object encoding %d", ErrFormat, ba.ObjectEncoding())
	}
}

// ReadObject decodes one value from ba using the format selected by
// ba.ObjectEncoding().
func ReadObject(ba *bytearray.ByteArray) (Value, error) {
	return ReadObjectConfig(ba, DefaultConfig())
}

// ReadObjectConfig is ReadObject with an explicit codec configuration.
func ReadObjectConfig(ba *bytearray.ByteArray, cfg Config) (Value, error) {
	switch ba.ObjectEncoding() {
	case bytearray.AMF0:
		return NewAMF0Context(cfg).Decode(ba)
	case bytearray.AMF3:
		return NewAMF3Context(cfg).Decode(ba)
	default:
		return nil, fmt.Errorf("%w: unknown object encoding %d", ErrFormat, ba.ObjectEncoding())
	}
}

// EncodeAMF0 encodes a single value to AMF0 bytes.
func EncodeAMF0(v Value) ([]byte, error) {
	ba := bytearray.NewDefault()
	if err := NewAMF0Context(DefaultConfig()).Encode(ba, v); err != nil {
		return nil, err
	}
	return ba.Bytes(), nil
}

// DecodeAMF0 decodes the first AMF0 value in data.
func DecodeAMF0(data []byte) (Value, error) {
	return NewAMF0Context(DefaultConfig()).Decode(bytearray.NewFromBytes(data))
}

// EncodeAMF3 encodes a single value to AMF3 bytes.
func EncodeAMF3(v Value) ([]byte, error) {
	ba := bytearray.NewDefault()
	if err := NewAMF3Context(DefaultConfig()).Encode(ba, v); err != nil {
		return nil, err
	}
	return ba.Bytes(), nil
}

// DecodeAMF3 decodes the first AMF3 value in data.
func DecodeAMF3(data []byte) (Value, error) {
	return NewAMF3Context(DefaultConfig()).Decode(bytearray.NewFromBytes(data))
}

// encoder and decoder are satisfied by both contexts.
type encoder interface {
	Encode(ba *bytearray.ByteArray, v Value) error
}

type decoder interface {
	Decode(ba *bytearray.ByteArray) (Value, error)
}

// EncodeAMF0Sequence converts Go values with FromNative and encodes them
// back to back, sharing one reference table. A map or slice passed more
// than once is written as a reference.
func EncodeAMF0Sequence(values ...any) ([]byte, error) {
	return encodeSequence(NewAMF0Context(DefaultConfig()), values)
}

// EncodeAMF3Sequence converts Go values with FromNative and encodes them
// back to back, sharing one set of reference tables.
func EncodeAMF3Sequence(values ...any) ([]byte, error) {
	return encodeSequence(NewAMF3Context(DefaultConfig()), values)
}

func encodeSequence(enc encoder, values []any) ([]byte, error) {
	ba := bytearray.NewDefault()
	conv := newNativeConverter()
	for i, nv := range values {
		v, err := conv.convert(nv)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		if err := enc.Encode(ba, v); err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
	}
	return ba.Bytes(), nil
}

// DecodeAMF0Sequence reads r to the end and decodes AMF0 values until no
// bytes remain.
func DecodeAMF0Sequence(r io.Reader) ([]Value, error) {
	return decodeSequence(r, NewAMF0Context(DefaultConfig()))
}

// DecodeAMF3Sequence reads r to the end and decodes AMF3 values until no
// bytes remain.
func DecodeAMF3Sequence(r io.Reader) ([]Value, error) {
	return decodeSequence(r, NewAMF3Context(DefaultConfig()))
}

func decodeSequence(r io.Reader, dec decoder) ([]Value, error) {
	ba := bytearray.NewDefault()
	defer ba.Release()
	if _, err := ba.ReadFrom(r); err != nil {
		return nil, err
	}

	var values []Value
	for ba.BytesAvailable() > 0 {
		v, err := dec.Decode(ba)
		if err != nil {
			return values, fmt.Errorf("value %d at offset %d: %w", len(values), ba.ReadPosition(), err)
		}
		values = append(values, v)
	}
	return values, nil
}
