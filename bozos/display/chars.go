package display

// Custom character codes loaded at boot and by ResetCustomChars.
const (
	CharBack    byte = 1
	CharPlay    byte = 2
	CharHBar    byte = 3
	CharReset   byte = 4
	CharWheelAC byte = 5
	CharWheelC  byte = 6
)

// NumCustomChars is the number of user-definable character codes.
const NumCustomChars = 8

// DefaultGlyphs holds eight rows of five pixels for each custom code.
var DefaultGlyphs = [NumCustomChars][8]byte{
	{},
	CharBack:    {0x04, 0x08, 0x1E, 0x09, 0x05, 0x01, 0x0E, 0x00},
	CharPlay:    {0x08, 0x0C, 0x0E, 0x0F, 0x0E, 0x0C, 0x08, 0x00},
	CharHBar:    {0x00, 0x00, 0x00, 0x1F, 0x00, 0x00, 0x00, 0x00},
	CharReset:   {0x00, 0x1F, 0x1F, 0x1F, 0x1F, 0x1F, 0x00, 0x00},
	CharWheelAC: {0x0E, 0x11, 0x01, 0x05, 0x0D, 0x1E, 0x0C, 0x04},
	CharWheelC:  {0x0E, 0x11, 0x10, 0x14, 0x16, 0x0F, 0x06, 0x04},
}
