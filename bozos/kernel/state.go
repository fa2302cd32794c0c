package kernel

// State is where the kernel is in its tick.
type State uint8

const (
	StateIdle State = iota
	StateDispatching
	StateCalling
	StateExiting
	StateCrashed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	case StateCalling:
		return "calling"
	case StateExiting:
		return "exiting"
	case StateCrashed:
		return "crashed"
	default:
		return "unknown"
	}
}

// DispatchKind names the source of a handler invocation.
type DispatchKind uint8

const (
	DispatchInit DispatchKind = iota
	DispatchReturn
	DispatchClock
	DispatchAlarm
	DispatchBuzz
	DispatchPlay
	DispatchYellow
	DispatchReset
	DispatchRotary
	DispatchRotaryPress
	DispatchSoundNotFull
	DispatchSerial

	numDispatchKinds
)

var dispatchNames = [numDispatchKinds]string{
	"init", "return", "clock", "alarm", "buzz", "play", "yellow", "reset",
	"rotary", "rotary-press", "sound-not-full", "serial",
}

func (k DispatchKind) String() string {
	if k < numDispatchKinds {
		return dispatchNames[k]
	}
	return "unknown"
}

// Observer is told about every scheduling step. Implementations must not call
// back into the kernel.
type Observer interface {
	OnTick(now uint32)
	OnDispatch(kind DispatchKind)
	OnCall(id AppID, depth int)
	OnExit(id AppID, status int)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) OnTick(uint32)           {}
func (NopObserver) OnDispatch(DispatchKind) {}
func (NopObserver) OnCall(AppID, int)       {}
func (NopObserver) OnExit(AppID, int)       {}
