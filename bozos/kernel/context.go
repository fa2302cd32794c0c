package kernel

import (
	"bozzard/bozos/clock"
	"bozzard/bozos/display"
	"bozzard/bozos/fault"
	"bozzard/bozos/input"
	"bozzard/bozos/mm"
	"bozzard/bozos/nvram"
	"bozzard/bozos/sound"
)

// LED bits, in panel order.
const (
	LEDRed uint8 = 1 << iota
	LEDGreen
	LEDYellow
	LEDBlue
)

// Context is one entry of the app stack. It is handed to the app's Init and
// stays valid until the app exits.
type Context struct {
	k     *Kernel
	level int
	app   *App
	live  bool

	clocks   uint8
	deferred [clock.NumClocks * 3]clock.Event
	nDefer   int

	alarmOn bool
	alarmAt uint32
	onAlarm func()

	forbidSleep bool

	onBuzz         func(buzzer int)
	onPlay         func()
	onYellow       func()
	onReset        func()
	onRotary       func(clockwise bool)
	onRotaryPress  func()
	onSoundNotFull func()
	onSerial       func()
	onReturn       func(status int)

	scope     *mm.Scope
	region    nvram.Region
	hasRegion bool
}

func (c *Context) check(op string) {
	if !c.live {
		fault.Raise("kernel", op, "app %d has exited", c.app.ID)
	}
}

// OnBuzz is called with the buzzer number 0-3 when a contestant buzzes.
// Passing nil detaches the handler, as for every other setter.
func (c *Context) OnBuzz(fn func(buzzer int)) {
	c.check("on buzz")
	c.onBuzz = fn
}

func (c *Context) OnPlay(fn func()) {
	c.check("on play")
	c.onPlay = fn
}

func (c *Context) OnYellow(fn func()) {
	c.check("on yellow")
	c.onYellow = fn
}

func (c *Context) OnReset(fn func()) {
	c.check("on reset")
	c.onReset = fn
}

// OnRotary is called once per detent of the knob.
func (c *Context) OnRotary(fn func(clockwise bool)) {
	c.check("on rotary")
	c.onRotary = fn
}

func (c *Context) OnRotaryPress(fn func()) {
	c.check("on rotary press")
	c.onRotaryPress = fn
}

// OnSoundQueueNotFull fires once, the first tick the sound queue has room.
func (c *Context) OnSoundQueueNotFull(fn func()) {
	c.check("on sound queue not full")
	c.onSoundNotFull = fn
}

// OnSerialData fires every tick while serial input is waiting.
func (c *Context) OnSerialData(fn func()) {
	c.check("on serial data")
	c.onSerial = fn
}

// SetAlarm arms the context's alarm ms from now, replacing any previous one.
func (c *Context) SetAlarm(ms uint32, fn func()) {
	c.check("set alarm")
	c.alarmOn, c.alarmAt, c.onAlarm = true, c.k.now+ms, fn
}

func (c *Context) CancelAlarm() {
	c.check("cancel alarm")
	c.alarmOn, c.onAlarm = false, nil
}

// NewClock takes a stopped clock from the pool. It is released when the app
// exits, if the app doesn't release it first.
func (c *Context) NewClock(initialMs int32, forwards bool) (clock.Clock, error) {
	c.check("new clock")
	dir := clock.Backwards
	if forwards {
		dir = clock.Forwards
	}
	h, ok := c.k.clocks.Create(initialMs, dir)
	if !ok {
		return clock.Clock{}, ErrNoClock
	}
	c.clocks |= 1 << h.ID()
	return h, nil
}

// Alloc reserves n bytes that live until Free or until the app exits.
func (c *Context) Alloc(n int) mm.Ptr {
	c.check("alloc")
	return c.k.arena.Alloc(n)
}

func (c *Context) Free(p mm.Ptr) {
	c.check("free")
	c.k.arena.Free(p)
}

func (c *Context) Bytes(p mm.Ptr) []byte {
	c.check("bytes")
	return c.k.arena.Bytes(p)
}

// MemoryFree is the number of arena bytes not in use.
func (c *Context) MemoryFree() int { return c.k.arena.FreeBytes() }

// MemoryCheck walks the arena and reports the first inconsistency found.
func (c *Context) MemoryCheck() error { return c.k.arena.Check() }

// Call suspends this app and starts app id with param. When the callee
// exits, onReturn runs here with its status.
func (c *Context) Call(id AppID, param any, onReturn func(status int)) error {
	c.check("call")
	if c.k.top() != c {
		return ErrNotActive
	}
	if c.k.pending.kind != transitionNone {
		return ErrBusy
	}
	if c.k.depth >= MaxDepth {
		return ErrStackFull
	}
	app := c.k.lookup(id)
	if app == nil {
		return ErrNoApp
	}
	c.onReturn = onReturn
	return c.k.request(transition{kind: transitionCall, app: app, param: param})
}

// Exit ends this app and returns status to the caller.
func (c *Context) Exit(status int) error {
	c.check("exit")
	if c.level == 0 {
		return ErrNoCaller
	}
	if c.k.top() != c {
		return ErrNotActive
	}
	return c.k.request(transition{kind: transitionExit, status: status})
}

// IsButtonPressed is the debounced state of b and the time it began.
func (c *Context) IsButtonPressed(b input.Button) (bool, uint32) {
	return c.k.panel.Pressed(b)
}

// EEPROMRegionSize is the length of the app's persistent region.
func (c *Context) EEPROMRegionSize() int {
	if !c.hasRegion {
		return 0
	}
	return c.region.Len()
}

func (c *Context) EEPROMRead(p []byte, off int) error {
	if !c.hasRegion {
		return ErrNoRegion
	}
	return c.region.ReadAt(p, off)
}

func (c *Context) EEPROMWrite(p []byte, off int) error {
	if !c.hasRegion {
		return ErrNoRegion
	}
	return c.region.WriteAt(p, off)
}

// ResetEEPROM erases every app's persistent data.
func (c *Context) ResetEEPROM() error {
	if c.k.cfg.NVRAM == nil {
		return ErrNoEEPROM
	}
	return c.k.cfg.NVRAM.Format()
}

func (c *Context) Display() *display.Controller { return c.k.cfg.Display }
func (c *Context) Sound() *sound.Player         { return c.k.cfg.Sound }
func (c *Context) Serial() Serial               { return c.k.cfg.Serial }

// SetLEDs switches the LEDs to the low four bits of mask.
func (c *Context) SetLEDs(mask uint8) { c.k.setLEDs(mask) }

// LED switches one LED, 0 red to 3 blue.
func (c *Context) LED(which int, on bool) {
	if which < 0 || which > 3 {
		return
	}
	m := c.k.leds
	if on {
		m |= 1 << which
	} else {
		m &^= 1 << which
	}
	c.k.setLEDs(m)
}

func (c *Context) LEDs() uint8 { return c.k.leds }

// Battery is the supply voltage in millivolts, 0 when unknown.
func (c *Context) Battery() uint16 {
	if c.k.cfg.Battery == nil {
		return 0
	}
	return c.k.cfg.Battery.Millivolts()
}

func (c *Context) Apps() []App     { return c.k.apps }
func (c *Context) App() *App       { return c.app }
func (c *Context) Level() int      { return c.level }
func (c *Context) Version() uint32 { return c.k.cfg.Version }
func (c *Context) Now() uint32     { return c.k.now }

// ForbidSleep keeps the console awake while set, whichever app is on top.
func (c *Context) ForbidSleep(on bool) {
	c.check("forbid sleep")
	c.forbidSleep = on
}

// Crash stops the console. The LEDs show the low four bits of pattern.
func (c *Context) Crash(pattern uint8) {
	c.k.setLEDs(pattern)
	panic(crashRequest{pattern: pattern})
}

func (c *Context) deferEvent(ev clock.Event) {
	if c.nDefer == len(c.deferred) {
		copy(c.deferred[:], c.deferred[1:])
		c.nDefer--
	}
	c.deferred[c.nDefer] = ev
	c.nDefer++
}

func (c *Context) nextDeferred() (clock.Event, bool) {
	if c.nDefer == 0 {
		return clock.Event{}, false
	}
	ev := c.deferred[0]
	copy(c.deferred[:], c.deferred[1:c.nDefer])
	c.nDefer--
	c.deferred[c.nDefer] = clock.Event{}
	return ev, true
}

func (c *Context) dropDeferred() {
	for i := range c.deferred {
		c.deferred[i] = clock.Event{}
	}
	c.nDefer = 0
}

func (c *Context) detach() {
	c.live = false
	c.alarmOn, c.onAlarm = false, nil
	c.onBuzz, c.onPlay, c.onYellow, c.onReset = nil, nil, nil, nil
	c.onRotary, c.onRotaryPress = nil, nil
	c.onSoundNotFull, c.onSerial, c.onReturn = nil, nil, nil
	c.scope = nil
}
