package bytearray

// Defaults used by DefaultConfig.
const (
	DefaultChunkSize        = 2048
	DefaultCompressionLevel = 9
)

// Endian selects the byte order of multi-byte primitives.
type Endian uint8

const (
	BigEndian Endian = iota
	LittleEndian
)

func (e Endian) String() string {
	if e == LittleEndian {
		return "littleEndian"
	}
	return "bigEndian"
}

// ObjectEncoding selects the codec used for object (de)serialisation.
type ObjectEncoding uint8

const (
	AMF0 ObjectEncoding = 0
	AMF3 ObjectEncoding = 3
)

// Config holds ByteArray construction settings
type Config struct {
	// InitialSize is the storage reserved up front.
	InitialSize int
	// ChunkSize is added on top of the requested size whenever storage grows.
	ChunkSize int
	Endian    Endian
	// ObjectEncoding picks the codec for amf.ReadObject / amf.WriteObject.
	ObjectEncoding ObjectEncoding
	// CompressionLevel applies to the zlib algorithm, -1 (default) to 9.
	CompressionLevel int
}

// DefaultConfig returns default ByteArray configuration
func DefaultConfig() Config {
	return Config{
		InitialSize:      0,
		ChunkSize:        DefaultChunkSize,
		Endian:           BigEndian,
		ObjectEncoding:   AMF3,
		CompressionLevel: DefaultCompressionLevel,
	}
}
