package amf

import (
	"github.com/ssungk/eamf/pkg/bytearray"
)

// AMF0 Type Markers
const (
	numberMarker      = 0x00
	booleanMarker     = 0x01
	stringMarker      = 0x02
	objectMarker      = 0x03
	movieClipMarker   = 0x04 // Not supported
	nullMarker        = 0x05
	undefinedMarker   = 0x06
	referenceMarker   = 0x07
	ecmaArrayMarker   = 0x08
	objectEndMarker   = 0x09
	strictArrayMarker = 0x0A
	dateMarker        = 0x0B
	longStringMarker  = 0x0C
	unsupportedMarker = 0x0D
	recordSetMarker   = 0x0E // Not supported
	xmlDocumentMarker = 0x0F
	typedObjectMarker = 0x10
	avmPlusMarker     = 0x11 // AMF3
)

// AMF3 Type Markers
const (
	amf3UndefinedMarker = 0x00
	amf3NullMarker      = 0x01
	amf3FalseMarker     = 0x02
	amf3TrueMarker      = 0x03
	amf3IntegerMarker   = 0x04
	amf3DoubleMarker    = 0x05
	amf3StringMarker    = 0x06
	amf3XMLDocMarker    = 0x07
	amf3DateMarker      = 0x08
	amf3ArrayMarker     = 0x09
	amf3ObjectMarker    = 0x0A
	amf3XMLMarker       = 0x0B
	amf3ByteArrayMarker = 0x0C // Not supported
)

// AMF3 integer range and U29 limits
const (
	amf3IntMin = -1 << 28
	amf3IntMax = 1<<28 - 1

	// the 4-byte form carries 7+7+7+8 bits, so headers built from counts
	// and indices must stay at or below u29Max
	u29Max = 1<<29 - 1

	// largest cache index that still fits a U29 reference (index<<1)
	maxReference = u29Max >> 1
)

// AMF0 references are 16-bit.
const maxAMF0Reference = 0xFFFF

// ArrayCollectionClass is the only externalizable class the AMF3 codec
// understands. Its body is a single value, the backing array, exposed as the
// "source" property.
const ArrayCollectionClass = "flex.messaging.io.ArrayCollection"

// bigEndian forces network byte order for the duration of a codec call and
// returns a func restoring the caller's setting.
func bigEndian(ba *bytearray.ByteArray) func() {
	prev := ba.Endian()
	ba.SetEndian(bytearray.BigEndian)
	return func() { ba.SetEndian(prev) }
}
