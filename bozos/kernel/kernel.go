// Package kernel runs the console: a cooperative tick loop dispatching input,
// clock and alarm events to the app on top of a fixed-depth call stack.
//
// Everything happens on the goroutine that calls Step. Handlers run to
// completion; a call or exit requested by a handler is applied once the
// handler returns, before the tick continues.
package kernel

import (
	"errors"
	"fmt"
	"sync"

	"bozzard/bozos/clock"
	"bozzard/bozos/display"
	"bozzard/bozos/input"
	"bozzard/bozos/mm"
	"bozzard/bozos/sound"
)

// MaxDepth is the deepest the app stack can grow, bootstrap app included.
const MaxDepth = 8

var (
	ErrStackFull  = errors.New("kernel: app stack full")
	ErrNoApp      = errors.New("kernel: no such app")
	ErrBusy       = errors.New("kernel: transition already pending")
	ErrNoCaller   = errors.New("kernel: bootstrap app cannot exit")
	ErrNotActive  = errors.New("kernel: context is not on top")
	ErrNoClock    = errors.New("kernel: no free clock")
	ErrStarted    = errors.New("kernel: already started")
	ErrNoTime     = errors.New("kernel: no time source")
	ErrNoRegion   = errors.New("kernel: app has no eeprom region")
	ErrNoEEPROM   = errors.New("kernel: no eeprom")
	errBadAppName = errors.New("kernel: app name too long")
)

type transitionKind uint8

const (
	transitionNone transitionKind = iota
	transitionCall
	transitionExit
)

type transition struct {
	kind   transitionKind
	app    *App
	param  any
	status int
}

// Kernel owns the app stack and every shared resource.
type Kernel struct {
	cfg    Config
	apps   []App
	clocks *clock.Pool
	arena  *mm.Arena
	panel  *input.Panel

	stack [MaxDepth]*Context
	depth int
	trail mm.Ptr // app ids of the stack, on the arena's main list

	state    State
	pending  transition
	settling bool
	started  bool
	now      uint32
	leds     uint8

	crashOnce sync.Once
	crash     CrashInfo
}

// New checks cfg and builds a kernel. Call Start before the first Step.
func New(cfg Config) (*Kernel, error) {
	if cfg.Time == nil {
		return nil, ErrNoTime
	}
	seen := make(map[AppID]bool, len(cfg.Apps))
	for i := range cfg.Apps {
		a := &cfg.Apps[i]
		if seen[a.ID] {
			return nil, fmt.Errorf("kernel: duplicate app id %d", a.ID)
		}
		seen[a.ID] = true
		if len(a.Name) > MaxAppName {
			return nil, fmt.Errorf("%w: %q", errBadAppName, a.Name)
		}
		if a.Init == nil {
			return nil, fmt.Errorf("kernel: app %q has no init", a.Name)
		}
	}
	if !seen[AppMainMenu] {
		return nil, fmt.Errorf("kernel: app table has no id %d: %w", AppMainMenu, ErrNoApp)
	}
	if cfg.ArenaBytes <= 0 {
		cfg.ArenaBytes = DefaultArenaBytes
	}
	if cfg.DebounceMs == 0 {
		cfg.DebounceMs = DefaultDebounceMs
	}
	if cfg.RotaryDebounceMs == 0 {
		cfg.RotaryDebounceMs = DefaultRotaryDebounceMs
	}
	if cfg.Observer == nil {
		cfg.Observer = NopObserver{}
	}
	// Apps may always draw and play; without hardware it goes nowhere.
	if cfg.Display == nil {
		cfg.Display = display.NewController(nil)
	}
	if cfg.Sound == nil {
		cfg.Sound = sound.NewPlayer(nil)
	}

	k := &Kernel{
		cfg:    cfg,
		apps:   append([]App(nil), cfg.Apps...),
		clocks: clock.NewPool(),
		arena:  mm.New(cfg.ArenaBytes, MaxDepth),
		panel:  input.NewPanel(cfg.DebounceMs, cfg.RotaryDebounceMs),
	}
	k.clocks.SetReleaseHook(k.clockReleased)
	return k, nil
}

// Start initialises the display and runs the bootstrap app's init.
func (k *Kernel) Start() error {
	if k.started {
		return ErrStarted
	}
	k.started = true
	k.now = k.cfg.Time.Millis()
	k.clocks.SetNow(k.now)
	if k.cfg.Display != nil {
		k.cfg.Display.Init()
	}
	k.logf("kernel: start version=%#08x apps=%d arena=%d", k.cfg.Version, len(k.apps), k.arena.TotalSize())
	if k.trail = k.arena.MainAlloc(MaxDepth); k.trail == mm.Nil {
		k.logf("kernel: no room for call trail")
	}

	app := k.lookup(AppMainMenu)
	k.pending = transition{kind: transitionCall, app: app}
	k.settleNow()
	return nil
}

// Step runs one tick.
func (k *Kernel) Step() {
	if !k.started {
		return
	}
	k.now = k.cfg.Time.Millis()
	if k.state == StateCrashed {
		if k.cfg.Display != nil {
			k.cfg.Display.Poll(k.now)
		}
		return
	}
	k.clocks.SetNow(k.now)
	k.cfg.Observer.OnTick(k.now)

	k.clocks.Evaluate(k.routeClockEvent)
	k.deliverDeferred()
	k.checkAlarm()
	k.dispatchInput()

	if top := k.top(); top != nil && top.onSoundNotFull != nil && k.cfg.Sound != nil && !k.cfg.Sound.Full() {
		fn := top.onSoundNotFull
		top.onSoundNotFull = nil
		k.dispatch(DispatchSoundNotFull, fn)
	}
	if top := k.top(); top != nil && top.onSerial != nil && k.cfg.Serial != nil && k.cfg.Serial.Buffered() > 0 {
		k.dispatch(DispatchSerial, top.onSerial)
	}

	if k.cfg.Display != nil {
		k.cfg.Display.Poll(k.now)
	}
	if k.cfg.Sound != nil && k.state != StateCrashed {
		k.cfg.Sound.Poll(k.now)
	}
	if k.cfg.Power != nil && k.state != StateCrashed {
		k.cfg.Power.Idle(k.sleepAllowed())
	}
}

func (k *Kernel) State() State { return k.state }
func (k *Kernel) Depth() int   { return k.depth }
func (k *Kernel) Now() uint32  { return k.now }

// Top is the id of the running app.
func (k *Kernel) Top() AppID {
	if top := k.top(); top != nil {
		return top.app.ID
	}
	return AppMainMenu
}

func (k *Kernel) Clocks() *clock.Pool { return k.clocks }
func (k *Kernel) Arena() *mm.Arena    { return k.arena }
func (k *Kernel) Panel() *input.Panel { return k.panel }
func (k *Kernel) LEDs() uint8         { return k.leds }
func (k *Kernel) Apps() []App         { return k.apps }

func (k *Kernel) top() *Context {
	if k.depth == 0 {
		return nil
	}
	return k.stack[k.depth-1]
}

func (k *Kernel) lookup(id AppID) *App {
	for i := range k.apps {
		if k.apps[i].ID == id {
			return &k.apps[i]
		}
	}
	return nil
}

// owner is the context holding clock id.
func (k *Kernel) owner(id int) *Context {
	for i := 0; i < k.depth; i++ {
		if k.stack[i].clocks&(1<<id) != 0 {
			return k.stack[i]
		}
	}
	return nil
}

func (k *Kernel) clockReleased(id int) {
	for i := 0; i < k.depth; i++ {
		k.stack[i].clocks &^= 1 << id
	}
}

// Trail lists the app ids on the stack, bottom first.
func (k *Kernel) Trail() []AppID {
	if k.trail == mm.Nil {
		return nil
	}
	ids := make([]AppID, k.depth)
	for i, b := range k.arena.Bytes(k.trail)[:k.depth] {
		ids[i] = AppID(b)
	}
	return ids
}

// routeClockEvent fires ev if its owner is on top and parks it with the
// owner otherwise. An earlier event of the same pass may have released the
// clock, or released and recycled its slot; such events are dropped.
func (k *Kernel) routeClockEvent(ev clock.Event) {
	if !ev.Clock.Valid() {
		return
	}
	o := k.owner(ev.Clock.ID())
	if o == nil || k.state == StateCrashed {
		return
	}
	if o != k.top() {
		o.deferEvent(ev)
		return
	}
	k.dispatch(DispatchClock, func() { ev.Callback(ev.Clock) })
}

func (k *Kernel) deliverDeferred() {
	for k.state != StateCrashed {
		top := k.top()
		if top == nil {
			return
		}
		ev, ok := top.nextDeferred()
		if !ok {
			return
		}
		if !ev.Clock.Valid() {
			continue
		}
		k.dispatch(DispatchClock, func() { ev.Callback(ev.Clock) })
	}
}

func (k *Kernel) checkAlarm() {
	top := k.top()
	if top == nil || !top.alarmOn || int32(k.now-top.alarmAt) < 0 {
		return
	}
	fn := top.onAlarm
	top.alarmOn, top.onAlarm = false, nil
	if fn != nil {
		k.dispatch(DispatchAlarm, fn)
	}
}

func (k *Kernel) dispatchInput() {
	for _, ev := range k.panel.Poll(k.now, k.cfg.Input) {
		if k.state == StateCrashed {
			return
		}
		top := k.top()
		if top == nil {
			return
		}
		if ev.Kind == input.EventRotary {
			if fn := top.onRotary; fn != nil {
				cw := ev.Clockwise
				k.dispatch(DispatchRotary, func() { fn(cw) })
			}
			continue
		}
		switch b := ev.Button; {
		case b.IsBuzzer():
			if fn := top.onBuzz; fn != nil {
				k.dispatch(DispatchBuzz, func() { fn(int(b - input.Buzzer0)) })
			}
		case b == input.Play:
			k.dispatchIf(DispatchPlay, top.onPlay)
		case b == input.Yellow:
			k.dispatchIf(DispatchYellow, top.onYellow)
		case b == input.Reset:
			k.dispatchIf(DispatchReset, top.onReset)
		case b == input.RotaryKey:
			k.dispatchIf(DispatchRotaryPress, top.onRotaryPress)
		}
	}
}

func (k *Kernel) dispatchIf(kind DispatchKind, fn func()) {
	if fn != nil {
		k.dispatch(kind, fn)
	}
}

// dispatch runs one handler and then applies whatever transition it asked
// for. Inside a transition the outer settle loop does the applying.
func (k *Kernel) dispatch(kind DispatchKind, fn func()) {
	if k.state == StateCrashed {
		return
	}
	k.cfg.Observer.OnDispatch(kind)
	k.state = StateDispatching
	k.invoke(fn)
	if k.state == StateCrashed || k.settling {
		return
	}
	k.settleNow()
}

func (k *Kernel) settleNow() {
	k.settling = true
	for k.pending.kind != transitionNone && k.state != StateCrashed {
		t := k.pending
		k.pending = transition{}
		switch t.kind {
		case transitionCall:
			k.state = StateCalling
			k.push(t.app, t.param)
		case transitionExit:
			k.state = StateExiting
			k.pop(t.status)
		}
	}
	k.settling = false
	if k.state != StateCrashed {
		k.state = StateIdle
	}
}

func (k *Kernel) push(app *App, param any) {
	ctx := &Context{k: k, level: k.depth, app: app, live: true}
	if ctx.level > 0 {
		scope, err := k.arena.PushScope()
		if err != nil {
			k.logf("kernel: call app=%d: %v", app.ID, err)
			return
		}
		ctx.scope = scope
	}
	if app.EEPROMLength > 0 && k.cfg.NVRAM != nil {
		r, err := k.cfg.NVRAM.Region(app.EEPROMStart, app.EEPROMLength)
		if err != nil {
			k.logf("kernel: app=%d eeprom: %v", app.ID, err)
		} else {
			ctx.region, ctx.hasRegion = r, true
		}
	}
	k.stack[k.depth] = ctx
	if k.trail != mm.Nil {
		k.arena.Bytes(k.trail)[k.depth] = byte(app.ID)
	}
	k.depth++
	k.logf("kernel: call app=%d name=%q depth=%d", app.ID, app.Name, k.depth)
	k.cfg.Observer.OnCall(app.ID, k.depth)

	k.dispatch(DispatchInit, func() { app.Init(ctx, param) })
}

func (k *Kernel) pop(status int) {
	ctx := k.top()
	for id := 0; id < clock.NumClocks; id++ {
		if ctx.clocks&(1<<id) == 0 {
			continue
		}
		if c, ok := k.clocks.Handle(id); ok {
			c.Release()
		}
	}
	ctx.clocks = 0
	ctx.dropDeferred()
	if ctx.scope != nil {
		ctx.scope.Release()
	}
	ctx.detach()

	k.stack[k.depth-1] = nil
	k.depth--
	k.logf("kernel: exit app=%d status=%d depth=%d", ctx.app.ID, status, k.depth)
	k.cfg.Observer.OnExit(ctx.app.ID, status)

	caller := k.top()
	if fn := caller.onReturn; fn != nil {
		caller.onReturn = nil
		k.dispatch(DispatchReturn, func() { fn(status) })
	}
}

// request records a transition. From outside any handler it is applied
// straight away.
func (k *Kernel) request(t transition) error {
	if k.pending.kind != transitionNone {
		return ErrBusy
	}
	k.pending = t
	if k.state == StateIdle && !k.settling {
		k.settleNow()
	}
	return nil
}

func (k *Kernel) sleepAllowed() bool {
	for i := 0; i < k.depth; i++ {
		if k.stack[i].forbidSleep {
			return false
		}
	}
	if top := k.top(); top != nil && top.app.Flags&FlagNoSleep != 0 {
		return false
	}
	return true
}

func (k *Kernel) setLEDs(mask uint8) {
	k.leds = mask & 0x0F
	if k.cfg.LEDs != nil {
		k.cfg.LEDs.SetLEDs(k.leds)
	}
}

func (k *Kernel) logf(format string, args ...any) {
	if k.cfg.Logger == nil {
		return
	}
	k.cfg.Logger.WriteLineString(fmt.Sprintf(format, args...))
}
