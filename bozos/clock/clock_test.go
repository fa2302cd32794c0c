package clock

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bozzard/bozos/fault"
)

func newClock(t *testing.T, p *Pool, initial int32, dir Direction) Clock {
	t.Helper()
	c, ok := p.Create(initial, dir)
	require.True(t, ok)
	return c
}

func collect(p *Pool) []Event {
	var evs []Event
	p.Evaluate(func(ev Event) { evs = append(evs, ev) })
	return evs
}

func TestCreateAndReset(t *testing.T) {
	p := NewPool()
	p.SetNow(100)
	c := newClock(t, p, 2500, Forwards)
	require.Equal(t, int32(2500), c.Value())
	require.False(t, c.Running())

	c.Run()
	p.SetNow(1100)
	require.Equal(t, int32(3500), c.Value())

	c.Reset()
	require.True(t, c.Running())
	require.Equal(t, int32(2500), c.Value())
	p.SetNow(1150)
	require.Equal(t, int32(2550), c.Value())
}

func TestStoppedClockIsConstant(t *testing.T) {
	p := NewPool()
	c := newClock(t, p, 0, Forwards)
	c.Run()
	p.SetNow(400)
	c.Stop()
	c.Stop()
	p.SetNow(9000)
	require.Equal(t, int32(400), c.Value())

	c.Run()
	p.SetNow(9100)
	c.Run()
	p.SetNow(9200)
	require.Equal(t, int32(600), c.Value())
}

func TestValueSurvivesTimeWraparound(t *testing.T) {
	p := NewPool()
	p.SetNow(0xFFFFFF00)
	c := newClock(t, p, 0, Forwards)
	c.Run()
	p.SetNow(0x100)
	require.Equal(t, int32(0x200), c.Value())
}

func TestBoundsClampReads(t *testing.T) {
	p := NewPool()
	c := newClock(t, p, 0, Forwards)
	c.SetExpiryMax(1000, nil)
	c.Run()
	p.SetNow(1500)
	require.Equal(t, int32(1000), c.Value())

	c.CancelExpiryMax()
	require.Equal(t, int32(1500), c.Value())

	c.SetExpiryMin(2000, nil)
	require.Equal(t, int32(2000), c.Value())
}

func TestAlarmFiresOnceAndClockKeepsRunning(t *testing.T) {
	p := NewPool()
	c := newClock(t, p, 0, Forwards)
	fired := 0
	var got Clock
	c.SetAlarm(5000, func(h Clock) {
		fired++
		got = h
	})
	c.Run()

	p.SetNow(4999)
	for _, ev := range collect(p) {
		ev.Callback(ev.Clock)
	}
	require.Equal(t, 0, fired)

	p.SetNow(5000)
	for _, ev := range collect(p) {
		require.Equal(t, KindAlarm, ev.Kind)
		ev.Callback(ev.Clock)
	}
	require.Equal(t, 1, fired)
	require.Equal(t, c, got)
	require.True(t, c.Running())

	p.SetNow(7000)
	require.Empty(t, collect(p))
	require.Equal(t, int32(7000), c.Value())
}

func TestCountdownStopsAtMinAndDetaches(t *testing.T) {
	p := NewPool()
	c := newClock(t, p, 3000, Backwards)
	hits := 0
	c.SetExpiryMin(0, func(Clock) { hits++ })
	c.Run()

	p.SetNow(3040)
	evs := collect(p)
	require.Len(t, evs, 1)
	require.Equal(t, KindMin, evs[0].Kind)
	evs[0].Callback(evs[0].Clock)
	require.Equal(t, 1, hits)

	require.False(t, c.Running())
	require.Equal(t, int32(0), c.Value())

	// The bound stays enabled: running on keeps the reading pinned and
	// stops again, but nothing fires.
	c.Run()
	p.SetNow(5000)
	require.Equal(t, int32(0), c.Value())
	require.Empty(t, collect(p))
	require.False(t, c.Running())
}

func TestBoundsFireBeforeAlarm(t *testing.T) {
	p := NewPool()
	c := newClock(t, p, 0, Forwards)
	c.SetAlarm(1000, func(Clock) {})
	c.SetExpiryMax(1000, func(Clock) {})
	c.Run()
	p.SetNow(1000)

	evs := collect(p)
	require.Len(t, evs, 2)
	require.Equal(t, KindMax, evs[0].Kind)
	require.Equal(t, KindAlarm, evs[1].Kind)
	require.False(t, c.Running())
}

func TestDirectionChangePassesAlarm(t *testing.T) {
	p := NewPool()
	c := newClock(t, p, 1000, Forwards)
	c.SetAlarm(2000, func(Clock) {})
	c.Run()
	p.SetNow(200)
	require.Empty(t, collect(p))

	c.SetDirection(Backwards)
	require.False(t, c.IsForwards())
	require.Equal(t, int32(1200), c.Value())
	require.Len(t, collect(p), 1)
}

func TestMsUntilAlarm(t *testing.T) {
	p := NewPool()
	up := newClock(t, p, 0, Forwards)
	require.Equal(t, Infinite, up.MsUntilAlarm())

	up.SetAlarm(5000, nil)
	up.Run()
	p.SetNow(1000)
	require.Equal(t, uint32(4000), up.MsUntilAlarm())

	down := newClock(t, p, 10000, Backwards)
	down.SetAlarm(4000, nil)
	down.Run()
	p.SetNow(2000)
	require.Equal(t, uint32(5000), down.MsUntilAlarm())

	p.SetNow(9000)
	require.Equal(t, uint32(0), down.MsUntilAlarm())
	require.Equal(t, uint32(0), up.MsUntilAlarm())

	up.CancelAlarm()
	require.Equal(t, Infinite, up.MsUntilAlarm())
}

func TestAddAndInitialValue(t *testing.T) {
	p := NewPool()
	c := newClock(t, p, 100, Backwards)
	c.Run()
	p.SetNow(50)
	c.Add(1000)
	require.Equal(t, int32(1050), c.Value())
	p.SetNow(100)
	require.Equal(t, int32(1000), c.Value())

	c.SetInitialValue(7)
	require.Equal(t, int32(1000), c.Value())
	c.Reset()
	require.Equal(t, int32(7), c.Value())
}

func TestPoolExhaustionAndStaleHandles(t *testing.T) {
	p := NewPool()
	var released []int
	p.SetReleaseHook(func(id int) { released = append(released, id) })

	var cs []Clock
	for i := 0; i < NumClocks; i++ {
		cs = append(cs, newClock(t, p, int32(i), Forwards))
	}
	_, ok := p.Create(0, Forwards)
	require.False(t, ok)
	require.Equal(t, 0, p.Free())

	old := cs[2]
	old.SetAlarm(10, func(Clock) {})
	old.Run()
	old.Release()
	require.Equal(t, []int{2}, released)
	require.Equal(t, 1, p.Free())
	require.False(t, old.Valid())

	fresh := newClock(t, p, 42, Forwards)
	require.Equal(t, 2, fresh.ID())
	require.Equal(t, int32(42), fresh.Value())
	require.False(t, fresh.Running())
	require.Equal(t, Infinite, fresh.MsUntilAlarm())

	defer func() {
		r := recover()
		_, ok := fault.As(r)
		require.True(t, ok, "expected violation, got %v", r)
	}()
	old.Release()
}

func TestZeroHandleIsInvalid(t *testing.T) {
	var c Clock
	require.False(t, c.Valid())
	require.Panics(t, func() { c.Run() })
}
