// Package clock is the fixed pool of stopwatches shared by all apps.
//
// A clock never counts ticks. It keeps a (value, sample time) snapshot and
// derives its current value from the pool's notion of now, which the kernel
// sets once per tick.
package clock

import (
	"math"

	"bozzard/bozos/fault"
)

// NumClocks is the size of the pool.
const NumClocks = 4

// Infinite is returned by MsUntilAlarm when no alarm is set.
const Infinite uint32 = math.MaxUint32

// Direction is the sign applied to elapsed time while running.
type Direction int8

const (
	Forwards  Direction = 1
	Backwards Direction = -1
)

// Kind names the condition that produced an Event.
type Kind uint8

const (
	KindMin Kind = iota
	KindMax
	KindAlarm
)

func (k Kind) String() string {
	switch k {
	case KindMin:
		return "min"
	case KindMax:
		return "max"
	case KindAlarm:
		return "alarm"
	default:
		return "unknown"
	}
}

// Callback runs when a bound is reached or an alarm passes. A nil Callback
// is a detached slot.
type Callback func(Clock)

// Event is a detached callback ready to be delivered.
type Event struct {
	Clock    Clock
	Kind     Kind
	Callback Callback
}

type slot struct {
	inUse bool
	gen   uint16

	initial   int32
	last      int32
	sampledAt uint32
	dir       Direction
	running   bool

	minOn, maxOn, alarmOn bool
	min, max, alarm       int32
	onMin, onMax, onAlarm Callback
}

// Clock is a handle to one pool slot. A handle goes stale when its clock is
// released; using a stale handle panics.
type Clock struct {
	p   *Pool
	id  uint8
	gen uint16
}

// ID is the slot index, stable for the lifetime of the handle.
func (c Clock) ID() int { return int(c.id) }

// Valid reports whether the handle still refers to a live clock.
func (c Clock) Valid() bool {
	if c.p == nil || int(c.id) >= NumClocks {
		return false
	}
	s := &c.p.slots[c.id]
	return s.inUse && s.gen == c.gen
}

func (c Clock) slot(op string) *slot {
	if !c.Valid() {
		fault.Raise("clock", op, "stale or released clock %d", c.id)
	}
	return &c.p.slots[c.id]
}

func (s *slot) raw(now uint32) int32 {
	if !s.running {
		return s.last
	}
	return s.last + int32(s.dir)*int32(now-s.sampledAt)
}

func (s *slot) clamped(now uint32) int32 {
	v := s.raw(now)
	if s.minOn && v < s.min {
		v = s.min
	}
	if s.maxOn && v > s.max {
		v = s.max
	}
	return v
}

// rebase folds elapsed time into the snapshot.
func (s *slot) rebase(now uint32) {
	s.last = s.raw(now)
	s.sampledAt = now
}

func (s *slot) passed(v, at int32) bool {
	if s.dir == Forwards {
		return v >= at
	}
	return v <= at
}

// Run starts the clock. Running an already running clock does nothing.
func (c Clock) Run() {
	s := c.slot("run")
	if s.running {
		return
	}
	s.sampledAt = c.p.now
	s.running = true
}

// Stop freezes the clock at its current value.
func (c Clock) Stop() {
	s := c.slot("stop")
	if !s.running {
		return
	}
	s.last = s.raw(c.p.now)
	s.running = false
}

func (c Clock) Running() bool { return c.slot("running").running }

// Reset restores the initial value without changing the running state.
func (c Clock) Reset() {
	s := c.slot("reset")
	s.last = s.initial
	s.sampledAt = c.p.now
}

// SetDirection changes direction, keeping the current value.
func (c Clock) SetDirection(d Direction) {
	s := c.slot("set direction")
	s.rebase(c.p.now)
	s.dir = normalize(d)
}

func (c Clock) Direction() Direction { return c.slot("direction").dir }
func (c Clock) IsForwards() bool     { return c.slot("direction").dir == Forwards }

// Value is the current reading, clamped to any enabled bound. The snapshot
// itself is left alone.
func (c Clock) Value() int32 {
	return c.slot("value").clamped(c.p.now)
}

// Add shifts the current value by ms.
func (c Clock) Add(ms int32) {
	s := c.slot("add")
	s.rebase(c.p.now)
	s.last += ms
}

// SetInitialValue changes the value Reset restores.
func (c Clock) SetInitialValue(ms int32) {
	c.slot("set initial value").initial = ms
}

// SetAlarm arms the one-shot alarm, replacing any previous one.
func (c Clock) SetAlarm(atMs int32, cb Callback) {
	s := c.slot("set alarm")
	s.alarmOn, s.alarm, s.onAlarm = true, atMs, cb
}

func (c Clock) CancelAlarm() {
	s := c.slot("cancel alarm")
	s.alarmOn, s.onAlarm = false, nil
}

// SetExpiryMin enables the lower bound. cb may be nil.
func (c Clock) SetExpiryMin(minMs int32, cb Callback) {
	s := c.slot("set expiry min")
	s.minOn, s.min, s.onMin = true, minMs, cb
}

// SetExpiryMax enables the upper bound. cb may be nil.
func (c Clock) SetExpiryMax(maxMs int32, cb Callback) {
	s := c.slot("set expiry max")
	s.maxOn, s.max, s.onMax = true, maxMs, cb
}

func (c Clock) CancelExpiryMin() {
	s := c.slot("cancel expiry min")
	s.minOn, s.onMin = false, nil
}

func (c Clock) CancelExpiryMax() {
	s := c.slot("cancel expiry max")
	s.maxOn, s.onMax = false, nil
}

// MsUntilAlarm is the running distance to the alarm: Infinite when none is
// set, 0 once it has been reached.
func (c Clock) MsUntilAlarm() uint32 {
	s := c.slot("ms until alarm")
	if !s.alarmOn {
		return Infinite
	}
	v := s.clamped(c.p.now)
	if s.passed(v, s.alarm) {
		return 0
	}
	if s.dir == Forwards {
		return uint32(int64(s.alarm) - int64(v))
	}
	return uint32(int64(v) - int64(s.alarm))
}

// Release stops the clock and returns it to the pool.
func (c Clock) Release() {
	c.slot("release")
	c.p.release(int(c.id))
}

func normalize(d Direction) Direction {
	if d < 0 {
		return Backwards
	}
	return Forwards
}
