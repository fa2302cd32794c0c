package clock

// Pool owns the clock slots.
type Pool struct {
	now       uint32
	slots     [NumClocks]slot
	onRelease func(id int)

	pending [NumClocks * 3]Event
}

func NewPool() *Pool { return &Pool{} }

// SetNow fixes the time used by every computation until the next call.
func (p *Pool) SetNow(ms uint32) { p.now = ms }

func (p *Pool) Now() uint32 { return p.now }

// SetReleaseHook registers fn to learn about every release.
func (p *Pool) SetReleaseHook(fn func(id int)) { p.onRelease = fn }

// Create hands out a stopped clock with no bounds or alarm.
func (p *Pool) Create(initialMs int32, dir Direction) (Clock, bool) {
	for i := range p.slots {
		s := &p.slots[i]
		if s.inUse {
			continue
		}
		*s = slot{
			inUse:     true,
			gen:       s.gen,
			initial:   initialMs,
			last:      initialMs,
			sampledAt: p.now,
			dir:       normalize(dir),
		}
		return Clock{p: p, id: uint8(i), gen: s.gen}, true
	}
	return Clock{}, false
}

// Free is the number of clocks available to Create.
func (p *Pool) Free() int {
	n := 0
	for i := range p.slots {
		if !p.slots[i].inUse {
			n++
		}
	}
	return n
}

// InUse reports whether slot id is allocated.
func (p *Pool) InUse(id int) bool {
	return id >= 0 && id < NumClocks && p.slots[id].inUse
}

// Handle returns the live handle for slot id.
func (p *Pool) Handle(id int) (Clock, bool) {
	if !p.InUse(id) {
		return Clock{}, false
	}
	return Clock{p: p, id: uint8(id), gen: p.slots[id].gen}, true
}

func (p *Pool) release(id int) {
	s := &p.slots[id]
	*s = slot{gen: s.gen + 1}
	if p.onRelease != nil {
		p.onRelease(id)
	}
}

// Evaluate checks every running clock at the current time, in slot order:
// min bound, max bound, then alarm. A reached bound stops the clock and
// detaches its callback but stays enabled. A passed alarm is disarmed.
// Detached callbacks are handed to fire after the whole pass, so fire may
// freely create or release clocks.
func (p *Pool) Evaluate(fire func(Event)) {
	n := 0
	for i := range p.slots {
		s := &p.slots[i]
		if !s.inUse || !s.running {
			continue
		}
		h := Clock{p: p, id: uint8(i), gen: s.gen}

		v := s.clamped(p.now)
		if s.minOn && s.dir == Backwards && v <= s.min {
			s.last = s.raw(p.now)
			s.running = false
			if cb := s.onMin; cb != nil {
				s.onMin = nil
				p.pending[n] = Event{Clock: h, Kind: KindMin, Callback: cb}
				n++
			}
		}
		if s.maxOn && s.dir == Forwards && v >= s.max {
			if s.running {
				s.last = s.raw(p.now)
				s.running = false
			}
			if cb := s.onMax; cb != nil {
				s.onMax = nil
				p.pending[n] = Event{Clock: h, Kind: KindMax, Callback: cb}
				n++
			}
		}
		if s.alarmOn && s.passed(v, s.alarm) {
			s.alarmOn = false
			if cb := s.onAlarm; cb != nil {
				s.onAlarm = nil
				p.pending[n] = Event{Clock: h, Kind: KindAlarm, Callback: cb}
				n++
			}
		}
	}

	for i := 0; i < n; i++ {
		ev := p.pending[i]
		p.pending[i] = Event{}
		if fire != nil {
			fire(ev)
		}
	}
}
