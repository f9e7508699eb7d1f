package protocol

import (
	"encoding/hex"
	"fmt"
)

// Opcodes
const (
	OpControl      byte = 0x5A
	OpAutoSettings byte = 0xA5
)

// Modes for OpControl
const (
	ModeAuto    byte = 0x05 // payload selects reset or auto mode
	ModeManual  byte = 0x07 // payload is [channel, brightness]
	ModeSetTime byte = 0x09
)

// Modes for OpAutoSettings
const (
	ModeSetting byte = 0x19
)

const (
	// ProtocolVersion is always the second byte of a frame.
	ProtocolVersion byte = 0x01

	// ReservedByte may only appear as the control opcode.
	ReservedByte byte = 0x5A

	// headerSize counts opcode, version, length, id (2) and mode.
	headerSize = 6

	// MinFrameSize is a frame with an empty payload.
	MinFrameSize = headerSize + 1
)

// Frame is one encoded command, ready to be written as-is.
type Frame struct {
	Opcode   byte
	Mode     byte
	ID       MessageID
	Payload  []byte
	Checksum byte
}

// BuildFrame lays out a frame and computes its checksum. Payload bytes equal
// to ReservedByte are written as ReservedByte-1. The caller is responsible
// for the payload length and for avoiding a reserved checksum.
func BuildFrame(opcode, mode byte, id MessageID, payload []byte) Frame {
	sanitized := make([]byte, len(payload))
	for i, b := range payload {
		if b == ReservedByte {
			b = ReservedByte - 1
		}
		sanitized[i] = b
	}

	f := Frame{
		Opcode:  opcode,
		Mode:    mode,
		ID:      id,
		Payload: sanitized,
	}
	raw := f.header()
	raw = append(raw, sanitized...)
	f.Checksum = Checksum(raw)
	return f
}

func (f Frame) header() []byte {
	return []byte{
		f.Opcode,
		ProtocolVersion,
		byte(len(f.Payload) + 5),
		f.ID.High(),
		f.ID.Low(),
		f.Mode,
	}
}

// Bytes returns the wire encoding of the frame.
func (f Frame) Bytes() []byte {
	raw := f.header()
	raw = append(raw, f.Payload...)
	return append(raw, f.Checksum)
}

// Len returns the encoded length in bytes.
func (f Frame) Len() int {
	return headerSize + len(f.Payload) + 1
}

func (f Frame) String() string {
	return fmt.Sprintf("Frame{op=0x%02X, mode=0x%02X, id=%s, payload=%s}",
		f.Opcode, f.Mode, f.ID, hex.EncodeToString(f.Payload))
}

// Checksum XORs every byte after the opcode. data is a frame without its
// trailing checksum byte.
func Checksum(data []byte) byte {
	if len(data) < 2 {
		return 0
	}
	sum := data[1]
	for _, b := range data[2:] {
		sum ^= b
	}
	return sum
}

// VerifyChecksum reports whether the last byte of a complete frame matches
// the checksum of the bytes before it.
func VerifyChecksum(frame []byte) bool {
	if len(frame) < MinFrameSize {
		return false
	}
	return Checksum(frame[:len(frame)-1]) == frame[len(frame)-1]
}

// ParseFrame decodes a complete frame and validates its structure. It is used
// by the encode debug command and by tests; the device never sends these
// frames back.
func ParseFrame(data []byte) (Frame, error) {
	if len(data) < MinFrameSize {
		return Frame{}, fmt.Errorf("frame too short: %d bytes (minimum %d)", len(data), MinFrameSize)
	}
	if data[1] != ProtocolVersion {
		return Frame{}, fmt.Errorf("invalid version: 0x%02x (expected 0x%02x)", data[1], ProtocolVersion)
	}
	payloadLen := int(data[2]) - 5
	if payloadLen < 0 || headerSize+payloadLen+1 != len(data) {
		return Frame{}, fmt.Errorf("length field %d does not match frame size %d", data[2], len(data))
	}
	if !VerifyChecksum(data) {
		return Frame{}, fmt.Errorf("checksum mismatch: got 0x%02x, want 0x%02x",
			data[len(data)-1], Checksum(data[:len(data)-1]))
	}

	payload := make([]byte, payloadLen)
	copy(payload, data[headerSize:headerSize+payloadLen])
	return Frame{
		Opcode:   data[0],
		Mode:     data[5],
		ID:       MessageID(uint16(data[3])<<8 | uint16(data[4])),
		Payload:  payload,
		Checksum: data[len(data)-1],
	}, nil
}
