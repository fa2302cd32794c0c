// Package input turns raw button levels into debounced press events.
package input

// Edge is a change in the debounced state of a button.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgePress
	EdgeRelease
)

func (e Edge) String() string {
	switch e {
	case EdgeNone:
		return "none"
	case EdgePress:
		return "press"
	case EdgeRelease:
		return "release"
	default:
		return "unknown"
	}
}

// Filter is a hysteresis debouncer. A button reads pressed once its raw
// level has been active for Threshold ms without a change, and reads
// released once it has been inactive for the same time.
type Filter struct {
	Threshold uint32

	pressed bool
	since   uint32
}

// Update feeds one raw sample. changedAt is when the raw level last changed.
func (f *Filter) Update(now uint32, active bool, changedAt uint32) Edge {
	if active == f.pressed {
		return EdgeNone
	}
	if now-changedAt < f.Threshold {
		return EdgeNone
	}
	f.pressed = active
	f.since = changedAt
	if active {
		return EdgePress
	}
	return EdgeRelease
}

// Pressed reports the debounced state and when it began.
func (f *Filter) Pressed() (bool, uint32) {
	return f.pressed, f.since
}
