package kernel

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"bozzard/bozos/clock"
	"bozzard/bozos/fault"
	"bozzard/bozos/input"
	"bozzard/bozos/nvram"
	"bozzard/bozos/sound"
)

type fakeTime struct{ ms uint32 }

func (f *fakeTime) Millis() uint32 { return f.ms }

type fakeLines struct {
	active  [input.NumButtons]bool
	changed [input.NumButtons]uint32
}

func (f *fakeLines) Level(b input.Button) (bool, uint32) { return f.active[b], f.changed[b] }

type logSink struct{ lines []string }

func (l *logSink) WriteLineString(s string) { l.lines = append(l.lines, s) }

type fakeSerial struct{ buffered int }

func (s *fakeSerial) Buffered() int               { return s.buffered }
func (s *fakeSerial) Read(p []byte) (int, error)  { return 0, nil }
func (s *fakeSerial) Write(p []byte) (int, error) { return len(p), nil }

type fakePower struct{ calls []bool }

func (p *fakePower) Idle(allowSleep bool) { p.calls = append(p.calls, allowSleep) }

type countingObserver struct {
	ticks    int
	dispatch map[DispatchKind]int
	calls    []AppID
	exits    []int
}

func (o *countingObserver) OnTick(uint32) { o.ticks++ }

func (o *countingObserver) OnDispatch(k DispatchKind) {
	if o.dispatch == nil {
		o.dispatch = map[DispatchKind]int{}
	}
	o.dispatch[k]++
}

func (o *countingObserver) OnCall(id AppID, _ int)     { o.calls = append(o.calls, id) }
func (o *countingObserver) OnExit(_ AppID, status int) { o.exits = append(o.exits, status) }

type harness struct {
	t     *testing.T
	time  *fakeTime
	lines *fakeLines
	log   *logSink
	k     *Kernel
}

func newHarness(t *testing.T, apps []App, tweak func(*Config)) *harness {
	t.Helper()
	h := &harness{t: t, time: &fakeTime{}, lines: &fakeLines{}, log: &logSink{}}
	cfg := Config{Apps: apps, Time: h.time, Input: h.lines, Logger: h.log}
	if tweak != nil {
		tweak(&cfg)
	}
	k, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, k.Start())
	h.k = k
	return h
}

func (h *harness) advance(ms uint32) {
	h.time.ms += ms
	h.k.Step()
}

func (h *harness) press(b input.Button) {
	h.lines.active[b], h.lines.changed[b] = true, h.time.ms
	h.advance(DefaultDebounceMs)
	h.lines.active[b], h.lines.changed[b] = false, h.time.ms
	h.advance(DefaultDebounceMs)
}

func (h *harness) turn(clockwise bool) {
	h.lines.active[input.RotaryData] = !clockwise
	h.lines.active[input.RotaryClock], h.lines.changed[input.RotaryClock] = true, h.time.ms
	h.advance(DefaultRotaryDebounceMs)
	h.lines.active[input.RotaryClock], h.lines.changed[input.RotaryClock] = false, h.time.ms
	h.advance(DefaultRotaryDebounceMs)
}

func app(id AppID, init func(*Context, any)) App {
	return App{ID: id, Name: "app", Init: init}
}

func TestNewValidatesConfig(t *testing.T) {
	noop := func(*Context, any) {}

	_, err := New(Config{Apps: []App{app(0, noop)}})
	require.ErrorIs(t, err, ErrNoTime)

	_, err = New(Config{Apps: []App{app(1, noop)}, Time: &fakeTime{}})
	require.ErrorIs(t, err, ErrNoApp)

	_, err = New(Config{Apps: []App{app(0, noop), app(0, noop)}, Time: &fakeTime{}})
	require.Error(t, err)

	_, err = New(Config{Apps: []App{{ID: 0, Name: strings.Repeat("x", 17), Init: noop}}, Time: &fakeTime{}})
	require.Error(t, err)

	_, err = New(Config{Apps: []App{{ID: 0, Name: "nil init"}}, Time: &fakeTime{}})
	require.Error(t, err)
}

func TestStartRunsBootstrap(t *testing.T) {
	var got any = "unset"
	h := newHarness(t, []App{app(AppMainMenu, func(ctx *Context, param any) {
		got = param
		require.Equal(t, 0, ctx.Level())
	})}, nil)

	require.Nil(t, got)
	require.Equal(t, 1, h.k.Depth())
	require.Equal(t, AppMainMenu, h.k.Top())
	require.Equal(t, StateIdle, h.k.State())
	require.ErrorIs(t, h.k.Start(), ErrStarted)
}

func TestCallIsAppliedAfterHandlerReturns(t *testing.T) {
	var order []string
	apps := []App{
		app(0, func(ctx *Context, _ any) {
			ctx.OnPlay(func() {
				order = append(order, "play")
				require.NoError(t, ctx.Call(1, 42, nil))
				order = append(order, "play done")
			})
		}),
		app(1, func(ctx *Context, param any) {
			order = append(order, "init")
			require.Equal(t, 42, param)
			require.Equal(t, StateDispatching, ctx.k.State())
		}),
	}
	h := newHarness(t, apps, nil)
	h.press(input.Play)

	require.Equal(t, []string{"play", "play done", "init"}, order)
	require.Equal(t, 2, h.k.Depth())
	require.Equal(t, AppID(1), h.k.Top())
	require.Equal(t, StateIdle, h.k.State())
}

func TestExitReleasesResourcesAndReturnsStatus(t *testing.T) {
	var status []int
	apps := []App{
		app(0, func(ctx *Context, _ any) {
			ctx.OnPlay(func() {
				require.NoError(t, ctx.Call(1, nil, func(s int) { status = append(status, s) }))
			})
		}),
		app(1, func(ctx *Context, _ any) {
			c, err := ctx.NewClock(0, true)
			require.NoError(t, err)
			c.Run()
			_, err = ctx.NewClock(0, false)
			require.NoError(t, err)
			require.NotZero(t, ctx.Alloc(40))
			require.NotZero(t, ctx.Alloc(12))
			ctx.OnPlay(func() { require.NoError(t, ctx.Exit(7)) })
		}),
	}
	h := newHarness(t, apps, nil)
	before := h.k.Arena().FreeBytes()

	h.press(input.Play)
	require.Equal(t, 2, h.k.Depth())
	require.Equal(t, 2, h.k.Clocks().Free())
	require.Less(t, h.k.Arena().FreeBytes(), before)

	h.press(input.Play)
	require.Equal(t, []int{7}, status)
	require.Equal(t, 1, h.k.Depth())
	require.Equal(t, 4, h.k.Clocks().Free())
	require.Equal(t, before, h.k.Arena().FreeBytes())
	// The call trail stays on the main list.
	require.Equal(t, 1, h.k.Arena().Outstanding())
	require.NoError(t, h.k.Arena().Check())
}

func TestReturnCallbackMayCallAgain(t *testing.T) {
	apps := []App{
		app(0, func(ctx *Context, _ any) {
			require.NoError(t, ctx.Call(1, nil, func(int) {
				require.NoError(t, ctx.Call(2, nil, nil))
			}))
		}),
		app(1, func(ctx *Context, _ any) { require.NoError(t, ctx.Exit(0)) }),
		app(2, func(ctx *Context, _ any) {}),
	}
	h := newHarness(t, apps, nil)
	require.Equal(t, 2, h.k.Depth())
	require.Equal(t, AppID(2), h.k.Top())
}

func TestStackDepthIsBounded(t *testing.T) {
	var errs []error
	apps := []App{
		app(0, func(ctx *Context, _ any) { errs = append(errs, ctx.Call(1, nil, nil)) }),
		app(1, func(ctx *Context, _ any) { errs = append(errs, ctx.Call(1, nil, nil)) }),
	}
	h := newHarness(t, apps, nil)
	require.Equal(t, MaxDepth, h.k.Depth())
	require.Len(t, errs, MaxDepth)
	require.ErrorIs(t, errs[MaxDepth-1], ErrStackFull)
	for _, err := range errs[:MaxDepth-1] {
		require.NoError(t, err)
	}
}

func TestTransitionErrors(t *testing.T) {
	var exitErr, noApp, busy error
	apps := []App{
		app(0, func(ctx *Context, _ any) {
			exitErr = ctx.Exit(0)
			noApp = ctx.Call(9, nil, nil)
			ctx.OnPlay(func() {
				require.NoError(t, ctx.Call(1, nil, nil))
				busy = ctx.Call(1, nil, nil)
			})
		}),
		app(1, func(ctx *Context, _ any) {
			ctx.OnPlay(func() {
				require.NoError(t, ctx.Exit(1))
				require.ErrorIs(t, ctx.Exit(2), ErrBusy)
			})
		}),
	}
	h := newHarness(t, apps, nil)
	require.ErrorIs(t, exitErr, ErrNoCaller)
	require.ErrorIs(t, noApp, ErrNoApp)

	h.press(input.Play)
	require.ErrorIs(t, busy, ErrBusy)
	require.Equal(t, 2, h.k.Depth())

	h.press(input.Play)
	require.Equal(t, 1, h.k.Depth())
}

func TestCallOutsideHandlerAppliesImmediately(t *testing.T) {
	var main *Context
	apps := []App{
		app(0, func(ctx *Context, _ any) { main = ctx }),
		app(1, func(ctx *Context, _ any) {}),
	}
	h := newHarness(t, apps, nil)
	require.NoError(t, main.Call(1, nil, nil))
	require.Equal(t, 2, h.k.Depth())
	require.ErrorIs(t, main.Call(1, nil, nil), ErrNotActive)
}

func TestSuspendedClockEventsWaitForOwner(t *testing.T) {
	fired := 0
	apps := []App{
		app(0, func(ctx *Context, _ any) {
			c, err := ctx.NewClock(0, true)
			require.NoError(t, err)
			c.SetAlarm(100, func(clock.Clock) { fired++ })
			c.Run()
			ctx.OnPlay(func() { require.NoError(t, ctx.Call(1, nil, nil)) })
		}),
		app(1, func(ctx *Context, _ any) {
			ctx.SetAlarm(200, func() { require.NoError(t, ctx.Exit(0)) })
		}),
	}
	h := newHarness(t, apps, nil)
	h.press(input.Play) // t=40, app 1 on top, its alarm at 220
	require.Equal(t, AppID(1), h.k.Top())

	h.advance(110) // t=150: main's alarm passes while suspended
	require.Equal(t, 0, fired)

	h.advance(100) // t=250: app 1 exits through its alarm
	require.Equal(t, AppMainMenu, h.k.Top())
	require.Equal(t, 0, fired)

	h.advance(10)
	require.Equal(t, 1, fired)
	h.advance(10)
	require.Equal(t, 1, fired)
}

func TestDeferredEventDroppedWhenClockReleased(t *testing.T) {
	fired := 0
	apps := []App{
		app(0, func(ctx *Context, _ any) {
			c, err := ctx.NewClock(0, true)
			require.NoError(t, err)
			c.SetAlarm(50, func(clock.Clock) { fired++ })
			c.Run()
			require.NoError(t, ctx.Call(1, nil, func(int) { c.Release() }))
		}),
		app(1, func(ctx *Context, _ any) {
			ctx.SetAlarm(100, func() { require.NoError(t, ctx.Exit(0)) })
		}),
	}
	h := newHarness(t, apps, nil)
	h.advance(60)
	h.advance(60)
	require.Equal(t, AppMainMenu, h.k.Top())
	h.advance(10)
	require.Equal(t, 0, fired)
	require.Equal(t, 4, h.k.Clocks().Free())
}

func TestSamePassEventDroppedWhenSlotRecycledByCaller(t *testing.T) {
	lateFired := 0
	var reused []int
	apps := []App{
		app(0, func(ctx *Context, _ any) {
			require.NoError(t, ctx.Call(1, nil, func(status int) {
				require.Equal(t, 7, status)
				for i := 0; i < 2; i++ {
					c, err := ctx.NewClock(0, true)
					require.NoError(t, err)
					reused = append(reused, c.ID())
				}
			}))
		}),
		app(1, func(ctx *Context, _ any) {
			first, err := ctx.NewClock(0, true)
			require.NoError(t, err)
			second, err := ctx.NewClock(0, true)
			require.NoError(t, err)
			first.SetAlarm(100, func(clock.Clock) { require.NoError(t, ctx.Exit(7)) })
			second.SetAlarm(100, func(clock.Clock) { lateFired++ })
			first.Run()
			second.Run()
		}),
	}
	h := newHarness(t, apps, nil)
	h.advance(150)

	require.Equal(t, []int{0, 1}, reused)
	require.Equal(t, 0, lateFired)
	require.NotEqual(t, StateCrashed, h.k.State())
	require.Equal(t, 1, h.k.Depth())
}

func TestSamePassEventDroppedWhenSlotRecycledBySameApp(t *testing.T) {
	lateFired := 0
	var fresh clock.Clock
	apps := []App{
		app(0, func(ctx *Context, _ any) {
			first, err := ctx.NewClock(0, true)
			require.NoError(t, err)
			second, err := ctx.NewClock(0, true)
			require.NoError(t, err)
			first.SetAlarm(100, func(clock.Clock) {
				second.Release()
				fresh, err = ctx.NewClock(0, true)
				require.NoError(t, err)
			})
			second.SetAlarm(100, func(clock.Clock) { lateFired++ })
			first.Run()
			second.Run()
		}),
	}
	h := newHarness(t, apps, nil)
	h.advance(150)

	require.Equal(t, 1, fresh.ID())
	require.True(t, fresh.Valid())
	require.Equal(t, 0, lateFired)
	require.NotEqual(t, StateCrashed, h.k.State())
}

func TestAlarmAcrossTimeWrap(t *testing.T) {
	fired := 0
	h := &harness{t: t, time: &fakeTime{ms: 0xFFFFFF00}, lines: &fakeLines{}}
	k, err := New(Config{Time: h.time, Input: h.lines, Apps: []App{app(0, func(ctx *Context, _ any) {
		ctx.SetAlarm(0x200, func() { fired++ })
	})}})
	require.NoError(t, err)
	require.NoError(t, k.Start())
	h.k = k

	h.advance(0x100)
	require.Equal(t, 0, fired)
	h.advance(0xFF)
	require.Equal(t, 0, fired)
	h.advance(1)
	require.Equal(t, 1, fired)
	h.advance(0x1000)
	require.Equal(t, 1, fired)
}

func TestInputGoesToTopApp(t *testing.T) {
	var buzzes []int
	var turns []bool
	presses := 0
	apps := []App{
		app(0, func(ctx *Context, _ any) {
			ctx.OnBuzz(func(b int) { buzzes = append(buzzes, b) })
			ctx.OnRotary(func(cw bool) { turns = append(turns, cw) })
			ctx.OnRotaryPress(func() {
				presses++
				ctx.OnBuzz(nil)
			})
		}),
	}
	h := newHarness(t, apps, nil)
	h.press(input.Buzzer2)
	h.press(input.Buzzer0)
	h.turn(true)
	h.turn(false)
	h.press(input.RotaryKey)
	h.press(input.Buzzer3)

	require.Equal(t, []int{2, 0}, buzzes)
	require.Equal(t, []bool{true, false}, turns)
	require.Equal(t, 1, presses)
}

func TestSoundQueueNotFullIsOneShot(t *testing.T) {
	player := sound.NewPlayer(nil)
	n := 0
	h := newHarness(t, []App{app(0, func(ctx *Context, _ any) {
		for !ctx.Sound().Full() {
			require.NoError(t, ctx.Sound().Silence(10))
		}
		ctx.OnSoundQueueNotFull(func() { n++ })
	})}, func(c *Config) { c.Sound = player })

	// The player takes the first command off the queue at the end of the
	// tick, so room appears on the next one.
	h.advance(0)
	require.Equal(t, 0, n)
	h.advance(5)
	require.Equal(t, 1, n)
	h.advance(10)
	require.Equal(t, 1, n)
}

func TestSerialDataIsSticky(t *testing.T) {
	ser := &fakeSerial{}
	n := 0
	h := newHarness(t, []App{app(0, func(ctx *Context, _ any) {
		ctx.OnSerialData(func() { n++ })
	})}, func(c *Config) { c.Serial = ser })

	h.advance(1)
	require.Equal(t, 0, n)
	ser.buffered = 3
	h.advance(1)
	h.advance(1)
	require.Equal(t, 2, n)
}

func TestHandlerPanicEntersCrashMode(t *testing.T) {
	var crashes []CrashInfo
	plays := 0
	h := newHarness(t, []App{app(0, func(ctx *Context, _ any) {
		ctx.OnPlay(func() {
			plays++
			panic("boom")
		})
	})}, func(c *Config) { c.OnCrash = func(i CrashInfo) { crashes = append(crashes, i) } })

	h.press(input.Play)
	h.press(input.Play)

	info, crashed := h.k.Crashed()
	require.True(t, crashed)
	require.Equal(t, StateCrashed, h.k.State())
	require.Equal(t, 1, plays)
	require.Len(t, crashes, 1)
	require.Equal(t, "boom", info.Value)
	require.NotEmpty(t, info.Stack)
	require.Equal(t, uint8(0x0F), h.k.LEDs())
}

func TestTrailFollowsTheStackAndSurvivesCrash(t *testing.T) {
	var crashes []CrashInfo
	apps := []App{
		app(0, func(ctx *Context, _ any) {
			ctx.OnPlay(func() { require.NoError(t, ctx.Call(4, nil, nil)) })
		}),
		app(4, func(ctx *Context, _ any) {
			ctx.OnPlay(func() { require.NoError(t, ctx.Call(2, nil, nil)) })
			ctx.OnYellow(func() { require.NoError(t, ctx.Exit(0)) })
		}),
		app(2, func(ctx *Context, _ any) {
			ctx.OnYellow(func() { ctx.Crash(0x11) })
		}),
	}
	h := newHarness(t, apps, func(c *Config) { c.OnCrash = func(i CrashInfo) { crashes = append(crashes, i) } })
	require.Equal(t, []AppID{0}, h.k.Trail())
	require.Equal(t, 1, h.k.Arena().Outstanding())

	h.press(input.Play)
	require.Equal(t, []AppID{0, 4}, h.k.Trail())
	h.press(input.Yellow)
	require.Equal(t, []AppID{0}, h.k.Trail())

	h.press(input.Play)
	h.press(input.Play)
	require.Equal(t, []AppID{0, 4, 2}, h.k.Trail())
	require.NoError(t, h.k.Arena().Check())

	h.press(input.Yellow)
	require.Len(t, crashes, 1)
	require.Equal(t, []AppID{0, 4, 2}, crashes[0].Trail)
}

func TestCrashShowsPattern(t *testing.T) {
	h := newHarness(t, []App{app(0, func(ctx *Context, _ any) {
		ctx.OnYellow(func() { ctx.Crash(0x35) })
	})}, nil)
	h.press(input.Yellow)

	info, crashed := h.k.Crashed()
	require.True(t, crashed)
	require.Equal(t, uint8(0x35), info.Pattern)
	require.Nil(t, info.Value)
	require.Equal(t, uint8(0x05), h.k.LEDs())
	require.Contains(t, h.log.lines[len(h.log.lines)-1], "pattern=0x35")
}

func TestProtocolViolationInHandlerCrashes(t *testing.T) {
	h := newHarness(t, []App{app(0, func(ctx *Context, _ any) {
		c, err := ctx.NewClock(0, true)
		require.NoError(t, err)
		ctx.OnPlay(func() {
			c.Release()
			c.Run()
		})
	})}, nil)
	h.press(input.Play)

	info, crashed := h.k.Crashed()
	require.True(t, crashed)
	_, ok := fault.As(info.Value)
	require.True(t, ok)
}

func TestExitedContextIsStale(t *testing.T) {
	var callee *Context
	apps := []App{
		app(0, func(ctx *Context, _ any) { require.NoError(t, ctx.Call(1, nil, nil)) }),
		app(1, func(ctx *Context, _ any) {
			callee = ctx
			ctx.OnPlay(func() { require.NoError(t, ctx.Exit(0)) })
		}),
	}
	h := newHarness(t, apps, nil)
	h.press(input.Play)
	require.Equal(t, 1, h.k.Depth())

	defer func() {
		_, ok := fault.As(recover())
		require.True(t, ok)
	}()
	callee.SetAlarm(10, func() {})
}

func TestEEPROMRegions(t *testing.T) {
	store, _, err := nvram.Open(nvram.NewMem(64))
	require.NoError(t, err)

	var withRegion, without *Context
	apps := []App{
		app(0, func(ctx *Context, _ any) { without = ctx }),
		{ID: 1, Name: "saved", Init: func(ctx *Context, _ any) { withRegion = ctx }, EEPROMStart: 8, EEPROMLength: 4},
	}
	h := newHarness(t, apps, func(c *Config) { c.NVRAM = store })

	require.Equal(t, 0, without.EEPROMRegionSize())
	require.ErrorIs(t, without.EEPROMRead(make([]byte, 1), 0), ErrNoRegion)

	require.NoError(t, without.Call(1, nil, nil))
	require.Equal(t, 2, h.k.Depth())
	require.Equal(t, 4, withRegion.EEPROMRegionSize())
	require.NoError(t, withRegion.EEPROMWrite([]byte{1, 2}, 2))
	require.ErrorIs(t, withRegion.EEPROMWrite([]byte{1, 2}, 3), nvram.ErrOutOfRange)

	got := make([]byte, 4)
	require.NoError(t, withRegion.EEPROMRead(got, 0))
	require.Equal(t, []byte{0xFF, 0xFF, 1, 2}, got)

	require.NoError(t, withRegion.ResetEEPROM())
	require.NoError(t, withRegion.EEPROMRead(got, 0))
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, got)
}

func TestSleepPolicy(t *testing.T) {
	pw := &fakePower{}
	var main *Context
	h := newHarness(t, []App{app(0, func(ctx *Context, _ any) { main = ctx })}, func(c *Config) { c.Power = pw })

	h.advance(1)
	main.ForbidSleep(true)
	h.advance(1)
	main.ForbidSleep(false)
	h.advance(1)
	require.Equal(t, []bool{true, false, true}, pw.calls)
}

func TestObserverAndLog(t *testing.T) {
	obs := &countingObserver{}
	apps := []App{
		app(0, func(ctx *Context, _ any) {
			ctx.OnPlay(func() { require.NoError(t, ctx.Call(1, nil, nil)) })
		}),
		app(1, func(ctx *Context, _ any) {
			ctx.OnReset(func() { require.NoError(t, ctx.Exit(3)) })
		}),
	}
	h := newHarness(t, apps, func(c *Config) { c.Observer = obs })
	h.press(input.Play)
	h.press(input.Reset)

	require.Equal(t, []AppID{0, 1}, obs.calls)
	require.Equal(t, []int{3}, obs.exits)
	require.Equal(t, 4, obs.ticks)
	require.Equal(t, 2, obs.dispatch[DispatchInit])
	require.Equal(t, 1, obs.dispatch[DispatchPlay])
	require.Equal(t, 1, obs.dispatch[DispatchReset])

	var exits int
	for _, l := range h.log.lines {
		if strings.HasPrefix(l, "kernel: exit app=1 status=3") {
			exits++
		}
	}
	require.Equal(t, 1, exits)
}

func TestLEDs(t *testing.T) {
	var main *Context
	h := newHarness(t, []App{app(0, func(ctx *Context, _ any) { main = ctx })}, nil)
	main.LED(1, true)
	main.LED(3, true)
	require.Equal(t, LEDGreen|LEDBlue, h.k.LEDs())
	main.LED(1, false)
	require.Equal(t, LEDBlue, main.LEDs())
	main.SetLEDs(0xFF)
	require.Equal(t, uint8(0x0F), main.LEDs())
}

func TestNoClockWhenPoolExhausted(t *testing.T) {
	var last error
	newHarness(t, []App{app(0, func(ctx *Context, _ any) {
		for i := 0; i < 5; i++ {
			_, last = ctx.NewClock(0, true)
		}
	})}, nil)
	require.True(t, errors.Is(last, ErrNoClock))
}
