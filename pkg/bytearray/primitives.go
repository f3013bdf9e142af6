package bytearray

import "math"

// ReadBoolean reads one byte; any non-zero value is true.
func (b *ByteArray) ReadBoolean() (bool, error) {
	v, err := b.ReadUint8()
	return v != 0, err
}

// WriteBoolean writes 1 for true and 0 for false.
func (b *ByteArray) WriteBoolean(v bool) {
	if v {
		b.WriteUint8(1)
	} else {
		b.WriteUint8(0)
	}
}

func (b *ByteArray) ReadInt8() (int8, error) {
	v, err := b.ReadUint8()
	return int8(v), err
}

func (b *ByteArray) ReadUint8() (uint8, error) {
	if b.rpos >= b.wpos {
		return 0, rangeErr(1, 0)
	}
	v := b.data[b.rpos]
	b.rpos++
	return v, nil
}

func (b *ByteArray) ReadInt16() (int16, error) {
	v, err := b.ReadUint16()
	return int16(v), err
}

func (b *ByteArray) ReadUint16() (uint16, error) {
	p, err := b.next(2)
	if err != nil {
		return 0, err
	}
	return b.order.Uint16(p), nil
}

func (b *ByteArray) ReadInt32() (int32, error) {
	v, err := b.ReadUint32()
	return int32(v), err
}

func (b *ByteArray) ReadUint32() (uint32, error) {
	p, err := b.next(4)
	if err != nil {
		return 0, err
	}
	return b.order.Uint32(p), nil
}

func (b *ByteArray) ReadFloat32() (float32, error) {
	v, err := b.ReadUint32()
	return math.Float32frombits(v), err
}

func (b *ByteArray) ReadFloat64() (float64, error) {
	p, err := b.next(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(b.order.Uint64(p)), nil
}

func (b *ByteArray) WriteInt8(v int8) { b.WriteUint8(uint8(v)) }

func (b *ByteArray) WriteUint8(v uint8) {
	b.extend(1)[0] = v
}

func (b *ByteArray) WriteInt16(v int16) { b.WriteUint16(uint16(v)) }

func (b *ByteArray) WriteUint16(v uint16) {
	b.order.PutUint16(b.extend(2), v)
}

func (b *ByteArray) WriteInt32(v int32) { b.WriteUint32(uint32(v)) }

func (b *ByteArray) WriteUint32(v uint32) {
	b.order.PutUint32(b.extend(4), v)
}

func (b *ByteArray) WriteFloat32(v float32) {
	b.WriteUint32(math.Float32bits(v))
}

func (b *ByteArray) WriteFloat64(v float64) {
	b.order.PutUint64(b.extend(8), math.Float64bits(v))
}
