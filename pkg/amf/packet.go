package amf

import (
	"fmt"

	"github.com/ssungk/eamf/pkg/bytearray"
)

// Packet versions. Version 3 bodies are AMF0 streams that switch to AMF3
// through the avmplus marker.
const (
	PacketVersionAMF0 uint16 = 0
	PacketVersionAMF3 uint16 = 3
)

const maxPacketEntries = 0xFFFF

// Header is a packet-level header, e.g. credentials or a session id.
type Header struct {
	Name           string
	MustUnderstand bool
	Value          Value
}

// Message is one remoting call or response.
type Message struct {
	TargetURI   string
	ResponseURI string
	Value       Value
}

// Packet is the remoting envelope: a version, headers and messages.
type Packet struct {
	Version  uint16
	Headers  []Header
	Messages []Message
}

// NewPacket returns an empty packet for version.
func NewPacket(version uint16) (*Packet, error) {
	if err := checkPacketVersion(version); err != nil {
		return nil, err
	}
	return &Packet{Version: version}, nil
}

// AddHeader appends a header.
func (p *Packet) AddHeader(name string, mustUnderstand bool, v Value) {
	p.Headers = append(p.Headers, Header{Name: name, MustUnderstand: mustUnderstand, Value: v})
}

// AddMessage appends a message.
func (p *Packet) AddMessage(targetURI, responseURI string, v Value) {
	p.Messages = append(p.Messages, Message{TargetURI: targetURI, ResponseURI: responseURI, Value: v})
}

func checkPacketVersion(version uint16) error {
	if version != PacketVersionAMF0 && version != PacketVersionAMF3 {
		return fmt.Errorf("%w: packet version %d", ErrFormat, version)
	}
	return nil
}

// WritePacket serialises p onto ba. Each header and message body is encoded
// with fresh reference tables and prefixed with its byte length.
func WritePacket(ba *bytearray.ByteArray, p *Packet, cfg Config) error {
	defer bigEndian(ba)()

	if err := checkPacketVersion(p.Version); err != nil {
		return err
	}
	if len(p.Headers) > maxPacketEntries {
		return fmt.Errorf("%w: %d packet headers", ErrRange, len(p.Headers))
	}
	if len(p.Messages) > maxPacketEntries {
		return fmt.Errorf("%w: %d packet messages", ErrRange, len(p.Messages))
	}

	ba.WriteUint16(p.Version)

	ba.WriteUint16(uint16(len(p.Headers)))
	for i, h := range p.Headers {
		if err := ba.WriteUTF(h.Name); err != nil {
			return fmt.Errorf("header %d name: %w", i, err)
		}
		ba.WriteBoolean(h.MustUnderstand)
		if err := writeBody(ba, p.Version, h.Value, cfg); err != nil {
			return fmt.Errorf("header %q: %w", h.Name, err)
		}
	}

	ba.WriteUint16(uint16(len(p.Messages)))
	for i, m := range p.Messages {
		if err := ba.WriteUTF(m.TargetURI); err != nil {
			return fmt.Errorf("message %d target: %w", i, err)
		}
		if err := ba.WriteUTF(m.ResponseURI); err != nil {
			return fmt.Errorf("message %d response: %w", i, err)
		}
		if err := writeBody(ba, p.Version, m.Value, cfg); err != nil {
			return fmt.Errorf("message %q: %w", m.TargetURI, err)
		}
	}
	return nil
}

// writeBody writes the int32 body length followed by the encoded value.
func writeBody(ba *bytearray.ByteArray, version uint16, v Value, cfg Config) error {
	body := bytearray.NewDefault()
	defer body.Release()

	ctx := NewAMF0Context(cfg)
	var err error
	if version == PacketVersionAMF3 {
		err = ctx.EncodeAVMPlus(body, v)
	} else {
		err = ctx.Encode(body, v)
	}
	if err != nil {
		return err
	}

	ba.WriteInt32(int32(body.Len()))
	_, err = ba.Write(body.Bytes())
	return err
}

// ReadPacket parses a packet from ba. Body lengths are read and ignored;
// bodies are decoded in place with fresh reference tables.
func ReadPacket(ba *bytearray.ByteArray, cfg Config) (*Packet, error) {
	defer bigEndian(ba)()

	version, err := ba.ReadUint16()
	if err != nil {
		return nil, err
	}
	p, err := NewPacket(version)
	if err != nil {
		return nil, err
	}

	headerCount, err := ba.ReadUint16()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(headerCount); i++ {
		name, err := ba.ReadUTF()
		if err != nil {
			return nil, fmt.Errorf("header %d name: %w", i, err)
		}
		mustUnderstand, err := ba.ReadBoolean()
		if err != nil {
			return nil, fmt.Errorf("header %q: %w", name, err)
		}
		v, err := readBody(ba, cfg)
		if err != nil {
			return nil, fmt.Errorf("header %q: %w", name, err)
		}
		p.AddHeader(name, mustUnderstand, v)
	}

	messageCount, err := ba.ReadUint16()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(messageCount); i++ {
		target, err := ba.ReadUTF()
		if err != nil {
			return nil, fmt.Errorf("message %d target: %w", i, err)
		}
		response, err := ba.ReadUTF()
		if err != nil {
			return nil, fmt.Errorf("message %d response: %w", i, err)
		}
		v, err := readBody(ba, cfg)
		if err != nil {
			return nil, fmt.Errorf("message %q: %w", target, err)
		}
		p.AddMessage(target, response, v)
	}
	return p, nil
}

func readBody(ba *bytearray.ByteArray, cfg Config) (Value, error) {
	// length, unreliable in practice (-1 is common)
	if _, err := ba.ReadInt32(); err != nil {
		return nil, err
	}
	return NewAMF0Context(cfg).Decode(ba)
}

// MarshalBinary implements encoding.BinaryMarshaler with DefaultConfig.
func (p *Packet) MarshalBinary() ([]byte, error) {
	ba := bytearray.NewDefault()
	if err := WritePacket(ba, p, DefaultConfig()); err != nil {
		return nil, err
	}
	return ba.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler with DefaultConfig.
func (p *Packet) UnmarshalBinary(data []byte) error {
	decoded, err := ReadPacket(bytearray.NewFromBytes(data), DefaultConfig())
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}
