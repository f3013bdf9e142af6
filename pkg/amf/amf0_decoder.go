package amf

import (
	"fmt"
	"strconv"

	"github.com/ssungk/eamf/pkg/bytearray"
)

// Decode reads one value from ba, resolving references against earlier
// calls on ctx.
func (ctx *AMF0Context) Decode(ba *bytearray.ByteArray) (Value, error) {
	defer bigEndian(ba)()
	return ctx.decodeValue(ba)
}

// decodeValue decodes a single AMF0 value.
func (ctx *AMF0Context) decodeValue(ba *bytearray.ByteArray) (Value, error) {
	pos := ba.ReadPosition()
	marker, err := ba.ReadUint8()
	if err != nil {
		return nil, err
	}

	switch marker {
	case numberMarker:
		f, err := ba.ReadFloat64()
		return Number(f), err
	case booleanMarker:
		b, err := ba.ReadBoolean()
		return Boolean(b), err
	case stringMarker:
		s, err := ba.ReadUTF()
		return String(s), err
	case longStringMarker, xmlDocumentMarker:
		return ctx.decodeLongString(ba)
	case objectMarker:
		return ctx.decodeObject(ba)
	case typedObjectMarker:
		return ctx.decodeTypedObject(ba)
	case nullMarker:
		return Null{}, nil
	case undefinedMarker, unsupportedMarker:
		return Undefined{}, nil
	case referenceMarker:
		return ctx.decodeReference(ba)
	case ecmaArrayMarker:
		return ctx.decodeECMAArray(ba)
	case strictArrayMarker:
		return ctx.decodeStrictArray(ba)
	case dateMarker:
		return ctx.decodeDate(ba)
	case avmPlusMarker:
		return ctx.amf3Context().decodeValue(ba)
	default:
		// leave the cursor on the offending marker
		ba.SetReadPosition(pos)
		return nil, fmt.Errorf("%w: unsupported AMF0 marker: 0x%02x", ErrFormat, marker)
	}
}

func (ctx *AMF0Context) decodeLongString(ba *bytearray.ByteArray) (Value, error) {
	n, err := ba.ReadUint32()
	if err != nil {
		return nil, err
	}
	if int64(n) > int64(ba.BytesAvailable()) {
		return nil, fmt.Errorf("%w: long string of %d bytes with %d available", ErrRange, n, ba.BytesAvailable())
	}
	s, err := ba.ReadUTFBytes(int(n))
	return String(s), err
}

func (ctx *AMF0Context) decodeDate(ba *bytearray.ByteArray) (Value, error) {
	ms, err := ba.ReadFloat64()
	if err != nil {
		return nil, err
	}
	// timezone offset, ignored
	if _, err := ba.ReadInt16(); err != nil {
		return nil, err
	}
	return dateFromMillis(ms), nil
}

func (ctx *AMF0Context) decodeReference(ba *bytearray.ByteArray) (Value, error) {
	idx, err := ba.ReadUint16()
	if err != nil {
		return nil, err
	}
	if int(idx) >= len(ctx.objectTable) {
		return nil, fmt.Errorf("%w: object reference %d out of bounds (%d known)", ErrFormat, idx, len(ctx.objectTable))
	}
	return ctx.objectTable[idx], nil
}

// register appends v to the reference table. Containers are registered
// before their members are decoded so that self references resolve.
func (ctx *AMF0Context) register(v Value) {
	ctx.objectTable = append(ctx.objectTable, v)
}

func (ctx *AMF0Context) decodeStrictArray(ba *bytearray.ByteArray) (Value, error) {
	n, err := ba.ReadUint32()
	if err != nil {
		return nil, err
	}
	// every element takes at least one byte
	if int64(n) > int64(ba.BytesAvailable()) {
		return nil, fmt.Errorf("%w: strict array of %d elements with %d bytes available", ErrRange, n, ba.BytesAvailable())
	}

	arr := &Array{Dense: make([]Value, 0, n)}
	ctx.register(arr)

	for i := uint32(0); i < n; i++ {
		v, err := ctx.decodeValue(ba)
		if err != nil {
			return nil, err
		}
		arr.Dense = append(arr.Dense, v)
	}
	return arr, nil
}

// decodeECMAArray reads until the end marker. Keys continuing the 0..n-1
// sequence go to the dense part while fewer than the nominal length have
// been read, so named entries that look like indices stay associative.
func (ctx *AMF0Context) decodeECMAArray(ba *bytearray.ByteArray) (Value, error) {
	length, err := ba.ReadUint32()
	if err != nil {
		return nil, err
	}

	arr := &Array{}
	ctx.register(arr)

	err = ctx.decodeProperties(ba, func(key string, v Value) error {
		if uint32(len(arr.Dense)) < length && key == strconv.Itoa(len(arr.Dense)) {
			arr.Dense = append(arr.Dense, v)
		} else {
			arr.Set(key, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return arr, nil
}

func (ctx *AMF0Context) decodeObject(ba *bytearray.ByteArray) (Value, error) {
	obj := NewObject()
	ctx.register(obj)

	err := ctx.decodeProperties(ba, func(key string, v Value) error {
		obj.Set(key, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (ctx *AMF0Context) decodeTypedObject(ba *bytearray.ByteArray) (Value, error) {
	className, err := ba.ReadUTF()
	if err != nil {
		return nil, err
	}

	factory, ok := ctx.cfg.registry().Lookup(className)
	if !ok {
		if !ctx.cfg.AllowUnregistered {
			return nil, fmt.Errorf("%w: unregistered class alias %q", ErrFormat, className)
		}
		obj := &Object{Traits: &Traits{ClassName: className, Dynamic: true}}
		ctx.register(obj)
		err := ctx.decodeProperties(ba, func(key string, v Value) error {
			obj.Set(key, v)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return obj, nil
	}

	inst := factory()
	if inst == nil {
		return nil, fmt.Errorf("%w: factory for %q returned nil", ErrFormat, className)
	}
	ctx.register(inst)

	err = ctx.decodeProperties(ba, func(key string, v Value) error {
		if err := inst.SetProperty(key, v); err != nil {
			return fmt.Errorf("%s.%s: %w", className, key, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// decodeProperties reads key/value pairs up to the empty key and end marker.
func (ctx *AMF0Context) decodeProperties(ba *bytearray.ByteArray, set func(string, Value) error) error {
	for {
		key, err := ba.ReadUTF()
		if err != nil {
			return err
		}
		if key == "" {
			break
		}
		v, err := ctx.decodeValue(ba)
		if err != nil {
			return err
		}
		if err := set(key, v); err != nil {
			return err
		}
	}

	end, err := ba.ReadUint8()
	if err != nil {
		return err
	}
	if end != objectEndMarker {
		return fmt.Errorf("%w: expected object end marker, got 0x%02x", ErrFormat, end)
	}
	return nil
}
