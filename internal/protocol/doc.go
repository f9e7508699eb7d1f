// Package protocol implements the Chihiros LED command protocol.
//
// Every command the light understands is a single write of one frame:
//
//	[0]     opcode         0x5A (control) or 0xA5 (auto settings)
//	[1]     0x01           Protocol version
//	[2]     len(payload)+5 Length field
//	[3]     id high        Message ID (big-endian)
//	[4]     id low
//	[5]     mode           Sub-command within the opcode
//	[6..N]  payload        Command parameters
//	[N+1]   checksum       XOR of bytes 1..N
//
// The byte 0x5A doubles as the control opcode and the firmware refuses frames
// that carry it anywhere else. Payload bytes of 0x5A are lowered to 0x59,
// message IDs containing a 0x5A byte are never issued, and a frame whose
// checksum would come out as 0x5A is rebuilt with the next message ID.
//
// # Usage
//
//	enc := protocol.NewEncoder(protocol.NewSequencer(0))
//	frame, err := enc.Brightness(80)
//	if err != nil {
//	    return err
//	}
//	_, err = char.WriteWithoutResponse(frame.Bytes())
//
// Encoder methods validate their inputs before any message ID is drawn, so a
// rejected command never advances the sequence.
package protocol
