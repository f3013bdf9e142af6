package amf

import (
	"fmt"

	"github.com/ssungk/eamf/pkg/bytearray"
)

// readU29 decodes a variable-length U29 integer.
func readU29(ba *bytearray.ByteArray) (uint32, error) {
	var result uint32
	for i := 0; i < 3; i++ {
		b, err := ba.ReadUint8()
		if err != nil {
			return 0, err
		}
		if b < 0x80 {
			return result<<7 | uint32(b), nil
		}
		result = result<<7 | uint32(b&0x7F)
	}
	// the fourth byte contributes all 8 bits
	b, err := ba.ReadUint8()
	if err != nil {
		return 0, err
	}
	return result<<8 | uint32(b), nil
}

// decodeValue decodes a single AMF3 value.
func (ctx *AMF3Context) decodeValue(ba *bytearray.ByteArray) (Value, error) {
	pos := ba.ReadPosition()
	marker, err := ba.ReadUint8()
	if err != nil {
		return nil, err
	}

	switch marker {
	case amf3UndefinedMarker:
		return Undefined{}, nil
	case amf3NullMarker:
		return Null{}, nil
	case amf3FalseMarker:
		return Boolean(false), nil
	case amf3TrueMarker:
		return Boolean(true), nil
	case amf3IntegerMarker:
		return ctx.decodeInteger(ba)
	case amf3DoubleMarker:
		f, err := ba.ReadFloat64()
		return Number(f), err
	case amf3StringMarker:
		s, err := ctx.decodeStringValue(ba)
		return String(s), err
	case amf3XMLDocMarker, amf3XMLMarker:
		return ctx.decodeXML(ba)
	case amf3DateMarker:
		return ctx.decodeDate(ba)
	case amf3ArrayMarker:
		return ctx.decodeArray(ba)
	case amf3ObjectMarker:
		return ctx.decodeObject(ba)
	default:
		// leave the cursor on the offending marker
		ba.SetReadPosition(pos)
		return nil, fmt.Errorf("%w: unsupported AMF3 marker: 0x%02x", ErrFormat, marker)
	}
}

// decodeInteger decodes a 29-bit signed integer.
func (ctx *AMF3Context) decodeInteger(ba *bytearray.ByteArray) (Value, error) {
	val, err := readU29(ba)
	if err != nil {
		return nil, err
	}
	// Sign-extend if the 29th bit is set
	if val&0x10000000 != 0 {
		return Number(int32(val | 0xE0000000)), nil
	}
	return Number(int32(val)), nil
}

// decodeStringValue decodes the string payload.
func (ctx *AMF3Context) decodeStringValue(ba *bytearray.ByteArray) (string, error) {
	u29, err := readU29(ba)
	if err != nil {
		return "", err
	}

	if u29&1 == 0 { // It's a reference
		idx := int(u29 >> 1)
		if idx >= len(ctx.stringTable) {
			return "", fmt.Errorf("%w: string reference %d out of bounds (%d known)", ErrFormat, idx, len(ctx.stringTable))
		}
		return ctx.stringTable[idx], nil
	}

	length := int(u29 >> 1)
	if length == 0 {
		return "", nil
	}

	str, err := ba.ReadUTFBytes(length)
	if err != nil {
		return "", err
	}
	ctx.stringTable = append(ctx.stringTable, str)
	return str, nil
}

// objectReference resolves an index into the object table.
func (ctx *AMF3Context) objectReference(u29 uint32) (Value, error) {
	idx := int(u29 >> 1)
	if idx >= len(ctx.objectTable) {
		return nil, fmt.Errorf("%w: object reference %d out of bounds (%d known)", ErrFormat, idx, len(ctx.objectTable))
	}
	v := ctx.objectTable[idx]
	if v == nil {
		return nil, fmt.Errorf("%w: reference %d to an object under construction", ErrFormat, idx)
	}
	return v, nil
}

// decodeXML reads an XML document as a string. XML travels through the
// object table, not the string table.
func (ctx *AMF3Context) decodeXML(ba *bytearray.ByteArray) (Value, error) {
	u29, err := readU29(ba)
	if err != nil {
		return nil, err
	}
	if u29&1 == 0 {
		v, err := ctx.objectReference(u29)
		if err != nil {
			return nil, err
		}
		if _, ok := v.(String); !ok {
			return nil, fmt.Errorf("%w: referenced %s is not XML", ErrFormat, v.Kind())
		}
		return v, nil
	}
	s, err := ba.ReadUTFBytes(int(u29 >> 1))
	if err != nil {
		return nil, err
	}
	ctx.objectTable = append(ctx.objectTable, String(s))
	return String(s), nil
}

// decodeDate decodes an AMF3 date.
func (ctx *AMF3Context) decodeDate(ba *bytearray.ByteArray) (Value, error) {
	u29, err := readU29(ba)
	if err != nil {
		return nil, err
	}

	if u29&1 == 0 { // Reference
		v, err := ctx.objectReference(u29)
		if err != nil {
			return nil, err
		}
		d, ok := v.(*Date)
		if !ok {
			return nil, fmt.Errorf("%w: referenced %s is not a date", ErrFormat, v.Kind())
		}
		return d, nil
	}

	millis, err := ba.ReadFloat64()
	if err != nil {
		return nil, err
	}
	d := dateFromMillis(millis)
	ctx.objectTable = append(ctx.objectTable, d)
	return d, nil
}

// decodeArray decodes an AMF3 array.
func (ctx *AMF3Context) decodeArray(ba *bytearray.ByteArray) (Value, error) {
	u29, err := readU29(ba)
	if err != nil {
		return nil, err
	}

	if u29&1 == 0 { // Reference
		v, err := ctx.objectReference(u29)
		if err != nil {
			return nil, err
		}
		arr, ok := v.(*Array)
		if !ok {
			return nil, fmt.Errorf("%w: referenced %s is not an array", ErrFormat, v.Kind())
		}
		return arr, nil
	}

	length := int(u29 >> 1)
	// every element takes at least one byte
	if length > ba.BytesAvailable() {
		return nil, fmt.Errorf("%w: array of %d elements with %d bytes available", ErrRange, length, ba.BytesAvailable())
	}
	arr := &Array{Dense: make([]Value, 0, length)}
	ctx.objectTable = append(ctx.objectTable, arr)

	// Associative portion, terminated by an empty key
	for {
		key, err := ctx.decodeStringValue(ba)
		if err != nil {
			return nil, err
		}
		if key == "" {
			break
		}
		val, err := ctx.decodeValue(ba)
		if err != nil {
			return nil, err
		}
		arr.Set(key, val)
	}

	// Dense portion
	for i := 0; i < length; i++ {
		val, err := ctx.decodeValue(ba)
		if err != nil {
			return nil, err
		}
		arr.Dense = append(arr.Dense, val)
	}
	return arr, nil
}

// decodeTraits reads an inline trait definition or resolves a trait
// reference. u29 is the object header with the object-reference bit already
// known to be set.
func (ctx *AMF3Context) decodeTraits(ba *bytearray.ByteArray, u29 uint32) (*Traits, error) {
	if u29&0x02 == 0 { // Trait reference
		idx := int(u29 >> 2)
		if idx >= len(ctx.traitTable) {
			return nil, fmt.Errorf("%w: trait reference %d out of bounds (%d known)", ErrFormat, idx, len(ctx.traitTable))
		}
		return ctx.traitTable[idx], nil
	}

	traits := &Traits{
		Externalizable: u29&0x04 != 0,
		Dynamic:        u29&0x08 != 0,
	}
	count := int(u29 >> 4)

	className, err := ctx.decodeStringValue(ba)
	if err != nil {
		return nil, err
	}
	traits.ClassName = className

	if count > ba.BytesAvailable() {
		return nil, fmt.Errorf("%w: %d sealed members with %d bytes available", ErrRange, count, ba.BytesAvailable())
	}
	if count > 0 {
		traits.Sealed = make([]string, count)
	}
	for i := 0; i < count; i++ {
		name, err := ctx.decodeStringValue(ba)
		if err != nil {
			return nil, err
		}
		traits.Sealed[i] = name
	}

	ctx.traitTable = append(ctx.traitTable, traits)
	return traits, nil
}

// decodeObject decodes an AMF3 object.
//
// The object's slot in the reference table is reserved before its traits and
// members are read, so members referring back to it resolve to the same
// instance. A reference to a slot that is still empty is a format error.
func (ctx *AMF3Context) decodeObject(ba *bytearray.ByteArray) (Value, error) {
	u29, err := readU29(ba)
	if err != nil {
		return nil, err
	}

	if u29&1 == 0 { // Reference
		return ctx.objectReference(u29)
	}

	slot := len(ctx.objectTable)
	ctx.objectTable = append(ctx.objectTable, nil)

	traits, err := ctx.decodeTraits(ba, u29)
	if err != nil {
		return nil, err
	}

	if traits.Externalizable {
		return ctx.decodeExternalizable(ba, slot, traits)
	}

	if traits.ClassName != "" {
		factory, ok := ctx.cfg.registry().Lookup(traits.ClassName)
		if ok {
			return ctx.decodeTyped(ba, slot, traits, factory)
		}
		if !ctx.cfg.AllowUnregistered {
			return nil, fmt.Errorf("%w: unregistered class alias %q", ErrFormat, traits.ClassName)
		}
	}

	obj := &Object{}
	if !traits.anonymous() {
		obj.Traits = traits
	}
	ctx.objectTable[slot] = obj

	err = ctx.decodeMembers(ba, traits, func(name string, v Value) error {
		obj.Set(name, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (ctx *AMF3Context) decodeExternalizable(ba *bytearray.ByteArray, slot int, traits *Traits) (Value, error) {
	if traits.ClassName != ArrayCollectionClass {
		return nil, fmt.Errorf("%w: unsupported externalizable class %q", ErrFormat, traits.ClassName)
	}
	obj := &Object{Traits: traits}
	ctx.objectTable[slot] = obj

	source, err := ctx.decodeValue(ba)
	if err != nil {
		return nil, err
	}
	obj.Set("source", source)
	return obj, nil
}

func (ctx *AMF3Context) decodeTyped(ba *bytearray.ByteArray, slot int, traits *Traits, factory Factory) (Value, error) {
	inst := factory()
	if inst == nil {
		return nil, fmt.Errorf("%w: factory for %q returned nil", ErrFormat, traits.ClassName)
	}
	ctx.objectTable[slot] = inst

	err := ctx.decodeMembers(ba, traits, func(name string, v Value) error {
		if err := inst.SetProperty(name, v); err != nil {
			return fmt.Errorf("%s.%s: %w", traits.ClassName, name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// decodeMembers reads the sealed members positionally, then dynamic
// name/value pairs up to the empty name if the trait is dynamic.
func (ctx *AMF3Context) decodeMembers(ba *bytearray.ByteArray, traits *Traits, set func(string, Value) error) error {
	for _, name := range traits.Sealed {
		v, err := ctx.decodeValue(ba)
		if err != nil {
			return err
		}
		if err := set(name, v); err != nil {
			return err
		}
	}

	if !traits.Dynamic {
		return nil
	}
	for {
		name, err := ctx.decodeStringValue(ba)
		if err != nil {
			return err
		}
		if name == "" {
			return nil
		}
		v, err := ctx.decodeValue(ba)
		if err != nil {
			return err
		}
		if err := set(name, v); err != nil {
			return err
		}
	}
}
