package options

import (
	"fmt"
	"strconv"

	"bozzard/bozos/display"
)

// clockFields lists the units a clock page offers, largest first.
func clockFields(t PageType) []PageType {
	var fs []PageType
	for _, f := range []PageType{ClockHr, ClockMin, ClockSec} {
		if t&f != 0 {
			fs = append(fs, f)
		}
	}
	return fs
}

func unitSeconds(f PageType) int32 {
	switch f {
	case ClockHr:
		return 3600
	case ClockMin:
		return 60
	default:
		return 1
	}
}

// valueText renders v for page p. editing marks the value, or for clock
// pages the field being edited, with arrows.
func valueText(p *Page, v int32, editing bool, field int) string {
	if p.Type.IsClock() {
		return clockText(p.Type, v, editing, field)
	}
	var s string
	switch p.Type {
	case YesNo:
		s = "No"
		if v != 0 {
			s = "Yes"
		}
	case List:
		if v >= 0 && int(v) < len(p.Choices) {
			s = p.Choices[v]
		} else {
			s = "?"
		}
	case Number:
		if p.NullValue != "" && v == p.Null() {
			s = p.NullValue
		} else {
			s = strconv.FormatInt(int64(v), 10)
		}
	default:
		s = fmt.Sprintf("%d", v)
	}
	if editing {
		return string(display.ArrowRight) + s + string(display.ArrowLeft)
	}
	return s
}

func clockText(t PageType, v int32, editing bool, field int) string {
	if v < 0 {
		v = 0
	}
	parts := map[PageType]int32{
		ClockHr:  v / 3600,
		ClockMin: v / 60,
		ClockSec: v,
	}
	fs := clockFields(t)
	// A field that isn't the largest shown wraps within its unit.
	if t&ClockHr != 0 {
		parts[ClockMin] %= 60
	}
	if t&(ClockHr|ClockMin) != 0 {
		parts[ClockSec] %= 60
	}

	var out []byte
	for i, f := range fs {
		if i > 0 {
			out = append(out, ':')
		}
		if editing && i == field {
			out = append(out, display.ArrowRight)
		}
		n := parts[f]
		if i > 0 && n < 10 {
			out = append(out, '0')
		}
		out = strconv.AppendInt(out, int64(n), 10)
		if editing && i == field {
			out = append(out, display.ArrowLeft)
		}
	}
	return string(out)
}
