package input

// Button identifies one physical input line.
type Button uint8

const (
	Buzzer0 Button = iota
	Buzzer1
	Buzzer2
	Buzzer3
	Play
	Yellow
	Reset
	RotaryKey
	RotaryClock
	RotaryData

	NumButtons
)

// NumBuzzers is the number of contestant buzzers.
const NumBuzzers = 4

var buttonNames = [NumButtons]string{
	"buzzer0", "buzzer1", "buzzer2", "buzzer3",
	"play", "yellow", "reset", "rotary-key", "rotary-clock", "rotary-data",
}

func (b Button) String() string {
	if b < NumButtons {
		return buttonNames[b]
	}
	return "unknown"
}

// Buzzer returns the button for contestant i.
func Buzzer(i int) Button { return Buzzer0 + Button(i) }

// IsBuzzer reports whether b is a contestant buzzer.
func (b Button) IsBuzzer() bool { return b <= Buzzer3 }

// Source reports raw levels. changedAt is the millisecond time of the last
// level change on that line.
type Source interface {
	Level(b Button) (active bool, changedAt uint32)
}

// EventKind distinguishes button presses from knob steps.
type EventKind uint8

const (
	EventPress EventKind = iota
	EventRotary
)

// Event is one debounced input occurrence.
type Event struct {
	Kind      EventKind
	Button    Button
	Clockwise bool
}

// Panel debounces every line of the console.
type Panel struct {
	filters [NumButtons]Filter
	events  [NumButtons]Event
}

// NewPanel uses debounceMs for buttons and rotaryMs for the encoder lines.
func NewPanel(debounceMs, rotaryMs uint32) *Panel {
	p := &Panel{}
	for i := range p.filters {
		p.filters[i].Threshold = debounceMs
	}
	p.filters[RotaryClock].Threshold = rotaryMs
	p.filters[RotaryData].Threshold = rotaryMs
	return p
}

// Poll samples every line and returns the events produced, in button order.
// The returned slice is reused by the next call.
func (p *Panel) Poll(now uint32, src Source) []Event {
	evs := p.events[:0]
	if src == nil {
		return evs
	}
	for b := Button(0); b < NumButtons; b++ {
		active, changedAt := src.Level(b)
		edge := p.filters[b].Update(now, active, changedAt)
		if edge != EdgePress {
			continue
		}
		switch b {
		case RotaryData:
		case RotaryClock:
			// The data line leads the clock line by a quarter step when
			// turning anticlockwise.
			data, _ := src.Level(RotaryData)
			evs = append(evs, Event{Kind: EventRotary, Button: b, Clockwise: !data})
		default:
			evs = append(evs, Event{Kind: EventPress, Button: b})
		}
	}
	return evs
}

// Pressed is the debounced state of b and when that state began.
func (p *Panel) Pressed(b Button) (bool, uint32) {
	if b >= NumButtons {
		return false, 0
	}
	return p.filters[b].Pressed()
}
