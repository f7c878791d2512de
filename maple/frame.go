package maple

import "github.com/washgo/washcore/coreerr"

// Command is a Maple packet's command byte.
type Command uint8

const (
	CmdDeviceInfo    Command = 0x01
	CmdAllInfo       Command = 0x02
	CmdGetCondition  Command = 0x09
	CmdMemInfo       Command = 0x0b
	CmdBlockRead     Command = 0x0c
	CmdBlockWrite    Command = 0x0d
	CmdSetCondition  Command = 0x0e
	CmdNop           Command = 0x00

	RespDeviceStatus  Command = 0x05
	RespDataTransfer  Command = 0x08
	RespAck           Command = 0x07
	RespNone          Command = 0xff // port/unit not populated: spec.md §4.9
	RespUnknownCmd    Command = 0xfe
)

// Packet is one Maple request or response: a command byte, the address
// byte identifying sender or recipient, and a variable-length payload
// whose length is always a whole number of 32-bit words on real hardware.
// Packet itself does not check len(Data)%4; Encode writes whatever Data
// holds.
type Packet struct {
	Command Command
	Addr    uint8
	Data    []byte
}

// Frame is one DMA-transfer frame: the header Maple's host controller
// prepends to a Packet when streaming it over the bus, per spec.md §4.9's
// "length/port/pattern/last, recv_addr, command/maple_addr/packet_len,
// packet_data" layout.
type Frame struct {
	Port    int
	Pattern uint8
	Last    bool
	RecvAddr uint8
	Packet  Packet
}

// Encode renders a Frame to its wire byte sequence: a four-byte DMA
// header (pattern, recv_addr, and a length-in-words byte, plus one
// reserved/port byte) followed by the packet itself (command, sender
// address, length-in-words, payload).
func (f *Frame) Encode() []byte {
	lenWords := uint8(len(f.Packet.Data) / 4)
	lastBit := uint8(0)
	if f.Last {
		lastBit = 0x80
	}
	out := make([]byte, 0, 8+len(f.Packet.Data))
	out = append(out,
		f.Pattern|lastBit,
		uint8(f.Port),
		f.RecvAddr,
		lenWords,
		byte(f.Packet.Command),
		f.Packet.Addr,
		f.RecvAddr, // sender-visible recv address echoed into the packet header
		lenWords,
	)
	out = append(out, f.Packet.Data...)
	return out
}

// DecodeFrame parses a Frame previously produced by Encode.
func DecodeFrame(b []byte) (Frame, error) {
	if len(b) < 8 {
		return Frame{}, coreerr.Protocolf("maple", "frame shorter than the 8-byte header (%d bytes)", len(b))
	}
	lenWords := int(b[3])
	if len(b) != 8+lenWords*4 {
		return Frame{}, coreerr.Protocolf("maple", "frame length byte says %d words but buffer holds %d bytes", lenWords, len(b)-8)
	}
	f := Frame{
		Pattern:  b[0] &^ 0x80,
		Last:     b[0]&0x80 != 0,
		Port:     int(b[1]),
		RecvAddr: b[2],
		Packet: Packet{
			Command: Command(b[4]),
			Addr:    b[5],
			Data:    append([]byte(nil), b[8:]...),
		},
	}
	return f, nil
}
