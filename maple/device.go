package maple

// FunctionCode identifies a Maple peripheral function, per the real
// hardware's function-code bitmask (a device may implement several).
type FunctionCode uint32

const (
	FuncController FunctionCode = 1 << 24
	FuncStorage    FunctionCode = 1 << 25
	FuncLCD        FunctionCode = 1 << 26
	FuncClock      FunctionCode = 1 << 27
	FuncMicrophone FunctionCode = 1 << 28
	FuncVibration  FunctionCode = 1 << 16
	FuncMouse      FunctionCode = 1 << 17
	FuncKeyboard   FunctionCode = 1 << 30
)

// DeviceInfo is the fixed-size payload a DEVINFO response carries.
type DeviceInfo struct {
	FunctionCodes FunctionCode
	FunctionData  [3]uint32
	AreaCode      uint8
	ConnectorDir  uint8
	ProductName   [30]byte
	License       [60]byte
	StandbyPower  uint16
	MaxPower      uint16
}

func (d DeviceInfo) encode() []byte {
	out := make([]byte, 112) // matches real hardware's 0x70-byte DEVINFO payload
	putU32(out[0:4], uint32(d.FunctionCodes))
	for i, f := range d.FunctionData {
		putU32(out[4+i*4:8+i*4], f)
	}
	out[16] = d.AreaCode
	out[17] = d.ConnectorDir
	copy(out[18:48], d.ProductName[:])
	copy(out[48:108], d.License[:])
	putU16(out[108:110], d.StandbyPower)
	putU16(out[110:112], d.MaxPower)
	return out
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putU16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// Device is one peripheral plugged into a Maple port/unit slot.
type Device interface {
	// Info returns the DEVINFO payload this device reports.
	Info() DeviceInfo
	// Handle answers a command other than DEVINFO/ALLINFO, returning the
	// response command and payload. ok is false if the command is not
	// supported by this device (the bus replies RespUnknownCmd).
	Handle(cmd Command, data []byte) (resp Command, respData []byte, ok bool)
}

// Controller is a standard Dreamcast controller: digital buttons plus two
// analogue triggers and one analogue stick, reporting condition data in
// the fixed 8-byte format GETCOND expects.
type Controller struct {
	Buttons  uint16 // active-low bitmask, matching real hardware
	LTrigger uint8
	RTrigger uint8
	StickX   uint8
	StickY   uint8
}

// NewController returns a Controller with no buttons pressed and sticks
// centred.
func NewController() *Controller {
	return &Controller{Buttons: 0xffff, StickX: 0x80, StickY: 0x80}
}

func (c *Controller) Info() DeviceInfo {
	var name [30]byte
	copy(name[:], "Dreamcast Controller")
	return DeviceInfo{FunctionCodes: FuncController, AreaCode: 0xff, StandbyPower: 0x01ae, MaxPower: 0x01f4, ProductName: name}
}

func (c *Controller) Handle(cmd Command, data []byte) (Command, []byte, bool) {
	switch cmd {
	case CmdGetCondition:
		buf := make([]byte, 8)
		putU32(buf[0:4], uint32(FuncController))
		putU16(buf[4:6], c.Buttons)
		buf[6] = c.RTrigger
		buf[7] = c.LTrigger
		return RespDataTransfer, buf, true
	case CmdNop:
		return RespAck, nil, true
	}
	return 0, nil, false
}

// VMU is a minimal stub for the Visual Memory storage/LCD peripheral:
// enough to answer DEVINFO and acknowledge block I/O without persisting
// any data, since spec.md's Non-goals exclude a full flash/filesystem
// simulation.
type VMU struct{}

func (VMU) Info() DeviceInfo {
	var name [30]byte
	copy(name[:], "Visual Memory")
	return DeviceInfo{FunctionCodes: FuncStorage | FuncLCD | FuncClock, AreaCode: 0xff, StandbyPower: 0x007d, MaxPower: 0x0082, ProductName: name}
}

func (VMU) Handle(cmd Command, data []byte) (Command, []byte, bool) {
	switch cmd {
	case CmdMemInfo, CmdBlockRead:
		return RespDataTransfer, make([]byte, 4), true
	case CmdBlockWrite, CmdNop:
		return RespAck, nil, true
	}
	return 0, nil, false
}

// PuruPuru is a minimal stub for the vibration-pack peripheral.
type PuruPuru struct{}

func (PuruPuru) Info() DeviceInfo {
	var name [30]byte
	copy(name[:], "Puru Puru Pack")
	return DeviceInfo{FunctionCodes: FuncVibration, AreaCode: 0xff, StandbyPower: 0x00c8, MaxPower: 0x00c8, ProductName: name}
}

func (PuruPuru) Handle(cmd Command, data []byte) (Command, []byte, bool) {
	if cmd == CmdSetCondition || cmd == CmdNop {
		return RespAck, nil, true
	}
	return 0, nil, false
}
