// Package options is the settings editor other apps call to let the quiz
// master change a list of values, one per page.
package options

// PageType selects how a page's value is shown and edited. Clock pages
// combine the unit bits they offer.
type PageType uint8

const (
	ClockSec PageType = 1 << iota
	ClockMin
	ClockHr
	Number
	YesNo
	List

	ClockMinSec   = ClockMin | ClockSec
	ClockHrMin    = ClockHr | ClockMin
	ClockHrMinSec = ClockHr | ClockMin | ClockSec

	clockMask = ClockHr | ClockMin | ClockSec
)

// IsClock reports whether t is a clock page.
func (t PageType) IsClock() bool { return t&clockMask != 0 && t&^clockMask == 0 }

// Page is one setting. The value is held in Menu.Results:
//
//	YesNo   1 for yes, 0 for no
//	Clock   seconds
//	Number  between Min and Max, or Min-Step for NullValue
//	List    index into Choices
type Page struct {
	Name string
	Type PageType

	// Min and Max bound Number and Clock pages. A clock page with Max <= Min
	// is bounded only by what fits on the display.
	Min, Max int32
	// Step is how far a Number moves per detent. Zero means 1.
	Step int32
	// NullValue, when set, is offered between Max and Min.
	NullValue string

	Choices []string
}

func (p *Page) step() int32 {
	if p.Step <= 0 {
		return 1
	}
	return p.Step
}

// Null is the value a Number page holds when NullValue is chosen.
func (p *Page) Null() int32 { return p.Min - p.step() }

// Menu is the parameter passed when calling the options app.
type Menu struct {
	Pages []Page
	// Disabled hides page i when bit i is set. Hidden pages keep their value.
	Disabled uint32
	// Results holds one value per page: the initial values on entry and the
	// chosen values after an accepted exit.
	Results []int32
	// OneShot opens the first page for editing and accepts as soon as
	// editing finishes.
	OneShot bool
}

func (m *Menu) enabled(i int) bool {
	return i >= 32 || m.Disabled&(1<<uint(i)) == 0
}

// Exit statuses.
const (
	StatusAccept  = 0
	StatusDiscard = 1
	StatusInvalid = 2
)

const maxClockSeconds = 9*3600 + 59*60 + 59

// adjust moves v one detent for page p.
func adjust(p *Page, v int32, clockwise bool, unit int32) int32 {
	dir := int32(1)
	if !clockwise {
		dir = -1
	}
	switch {
	case p.Type == YesNo:
		if v != 0 {
			return 0
		}
		return 1
	case p.Type == List:
		n := int32(len(p.Choices))
		if n == 0 {
			return 0
		}
		return ((v+dir)%n + n) % n
	case p.Type == Number:
		return adjustNumber(p, v, dir)
	case p.Type.IsClock():
		lo, hi := p.Min, p.Max
		if lo < 0 {
			lo = 0
		}
		if hi <= lo || hi > maxClockSeconds {
			hi = maxClockSeconds
		}
		v += dir * unit
		if v < lo {
			v = lo
		}
		if v > hi {
			v = hi
		}
		return v
	}
	return v
}

// adjustNumber cycles Min..Max, passing through the null value when there
// is one.
func adjustNumber(p *Page, v, dir int32) int32 {
	step := p.step()
	hasNull := p.NullValue != ""
	if hasNull && v == p.Null() {
		if dir > 0 {
			return p.Min
		}
		return p.Max
	}
	v += dir * step
	switch {
	case v > p.Max:
		if hasNull {
			return p.Null()
		}
		return p.Min
	case v < p.Min:
		if hasNull {
			return p.Null()
		}
		return p.Max
	}
	return v
}
