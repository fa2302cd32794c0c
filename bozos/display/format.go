package display

import "strconv"

// NumFlags modify WriteLong.
type NumFlags uint8

const (
	// ForceSign writes '+' before non-negative numbers.
	ForceSign NumFlags = 1 << iota
	// ZeroPad pads with zeroes instead of spaces.
	ZeroPad
	// Arrows draws markers either side of the number.
	Arrows
	// Spaces leaves room for the markers without drawing them.
	Spaces
	// Hex formats in base 16.
	Hex
)

const (
	maxNumWidth = 20

	// Characters from the controller's ROM.
	ArrowRight byte = 0x7E
	ArrowLeft  byte = 0x7F
)

// FormatLong renders n the way WriteLong puts it on the display. minWidth
// counts the number and its padding but not the markers.
func FormatLong(n int64, minWidth int, flags NumFlags) []byte {
	if minWidth > maxNumWidth {
		minWidth = maxNumWidth
	}

	base := 10
	if flags&Hex != 0 {
		base = 16
	}
	neg := n < 0
	var mag uint64
	if neg {
		mag = uint64(-(n + 1)) + 1
	} else {
		mag = uint64(n)
	}
	digits := []byte(strconv.FormatUint(mag, base))
	for i, d := range digits {
		if d >= 'a' && d <= 'f' {
			digits[i] = d - 'a' + 'A'
		}
	}

	var sign []byte
	switch {
	case neg:
		sign = []byte{'-'}
	case flags&ForceSign != 0:
		sign = []byte{'+'}
	}

	left, right := byte(0), byte(0)
	switch {
	case flags&Arrows != 0:
		left, right = ArrowRight, ArrowLeft
	case flags&Spaces != 0:
		left, right = ' ', ' '
	}

	pad := minWidth - len(sign) - len(digits)
	if pad < 0 {
		pad = 0
	}

	out := make([]byte, 0, minWidth+len(sign)+len(digits)+2)
	if flags&ZeroPad != 0 {
		if left != 0 {
			out = append(out, left)
		}
		out = append(out, sign...)
		for i := 0; i < pad; i++ {
			out = append(out, '0')
		}
		out = append(out, digits...)
	} else {
		for i := 0; i < pad; i++ {
			out = append(out, ' ')
		}
		if left != 0 {
			out = append(out, left)
		}
		out = append(out, sign...)
		out = append(out, digits...)
	}
	if right != 0 {
		out = append(out, right)
	}
	return out
}

// WriteLong formats n and queues it at the cursor. It returns the number of
// characters queued; on ErrQueueFull nothing is queued.
func (c *Controller) WriteLong(n int64, minWidth int, flags NumFlags) (int, error) {
	b := FormatLong(n, minWidth, flags)
	if len(b) > c.q.Free() {
		return 0, ErrQueueFull
	}
	for _, ch := range b {
		c.q.Push(Data | uint16(ch))
	}
	return len(b), nil
}

// FormatClock renders ms as [-][h:]mm:ss, or m:ss.t below ten minutes when
// tenths is set.
func FormatClock(ms int32, tenths bool) string {
	var buf []byte
	if ms < 0 {
		buf = append(buf, '-')
		ms = -ms
	}
	total := ms / 1000
	h, m, s := total/3600, (total/60)%60, total%60
	switch {
	case h > 0:
		buf = strconv.AppendInt(buf, int64(h), 10)
		buf = append(buf, ':')
		buf = append2(buf, m)
		buf = append(buf, ':')
		buf = append2(buf, s)
	case tenths && m < 10:
		buf = strconv.AppendInt(buf, int64(m), 10)
		buf = append(buf, ':')
		buf = append2(buf, s)
		buf = append(buf, '.', byte('0'+(ms/100)%10))
	default:
		buf = append2(buf, m)
		buf = append(buf, ':')
		buf = append2(buf, s)
	}
	return string(buf)
}

func append2(buf []byte, v int32) []byte {
	return append(buf, byte('0'+v/10), byte('0'+v%10))
}
