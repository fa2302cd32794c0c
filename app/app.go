// Package app wires the console runtime to a HAL: it opens the EEPROM,
// builds the display and sound services, starts the kernel on the built-in
// app table and hands back the tick function the platform loop calls.
package app

import (
	"fmt"

	"bozzard/bozos/apps"
	"bozzard/bozos/display"
	"bozzard/bozos/kernel"
	"bozzard/bozos/nvram"
	"bozzard/bozos/sound"
	"bozzard/hal"
	"bozzard/internal/buildinfo"
	"bozzard/internal/config"
)

// System is a running console.
type System struct {
	Kernel  *kernel.Kernel
	Display *display.Controller
	Sound   *sound.Player
	NVRAM   *nvram.Store

	h       hal.HAL
	closers []func()
}

// Options adds optional observers to a system.
type Options struct {
	Config   *config.Config
	Observer kernel.Observer
	Apps     []kernel.App
}

// New initializes and starts the console with default config. The returned
// function runs one tick.
func New(h hal.HAL) func() error {
	s, err := NewSystem(h, Options{})
	if err != nil {
		return func() error { return err }
	}
	return s.Step
}

// Run starts the console and ticks it forever (TinyGo/native entrypoint).
func Run(h hal.HAL) {
	step := New(h)
	for {
		if err := step(); err != nil {
			if l := h.Logger(); l != nil {
				l.WriteLineString("app: " + err.Error())
			}
			select {}
		}
	}
}

// NewSystem builds and starts a console on h.
func NewSystem(h hal.HAL, opts Options) (*System, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
		config.Normalize(cfg)
	}
	table := opts.Apps
	if table == nil {
		table = apps.Table()
	}
	logger := h.Logger()
	bootDiagStart(h)

	s := &System{h: h}

	bootScreen(h, "nvram")
	if dev := h.EEPROM(); dev != nil {
		store, formatted, err := nvram.Open(dev)
		if err != nil {
			logf(logger, "app: nvram unavailable: %v", err)
		} else {
			if formatted {
				logf(logger, "app: nvram formatted (%d bytes)", store.Size())
			}
			s.NVRAM = store
		}
	}

	bootScreen(h, "kernel")
	s.Display = display.NewController(h.LCD())
	s.Sound = sound.NewPlayer(h.Speaker())

	observers := observerList{}
	if opts.Observer != nil {
		observers = append(observers, opts.Observer)
	}
	m := newMetrics(cfg, logger)
	if m != nil {
		observers = append(observers, m)
		s.closers = append(s.closers, m.Close)
	}
	if sb, err := newScoreboard(cfg, s, h.LCD(), logger); err != nil {
		logf(logger, "app: scoreboard disabled: %v", err)
	} else if sb != nil {
		observers = append(observers, sb)
		s.closers = append(s.closers, sb.Close)
	}
	onCrash := func(info kernel.CrashInfo) {
		if m != nil {
			m.OnCrash(info)
		}
		showCrash(h, s.Display, info)
	}

	k, err := kernel.New(kernel.Config{
		Apps:             table,
		Time:             h.Time(),
		Input:            h.Buttons(),
		Display:          s.Display,
		Sound:            s.Sound,
		NVRAM:            s.NVRAM,
		LEDs:             h.LEDs(),
		Serial:           h.Serial(),
		Battery:          h.Battery(),
		Power:            h.Power(),
		Logger:           logger,
		Observer:         observers.observer(),
		OnCrash:          onCrash,
		ArenaBytes:       cfg.Memory.ArenaBytes,
		DebounceMs:       cfg.Input.DebounceMs,
		RotaryDebounceMs: cfg.Input.RotaryDebounceMs,
		Version:          buildinfo.Packed(),
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("app: kernel: %w", err)
	}
	s.Kernel = k

	if err := k.Start(); err != nil {
		s.Close()
		return nil, fmt.Errorf("app: start: %w", err)
	}
	bootDiagSetStep(bootDone)
	return s, nil
}

// Step runs one kernel tick. Crash mode is not an error: the console stays
// on the crash screen until it is reset.
func (s *System) Step() error {
	s.Kernel.Step()
	return nil
}

// Close stops background helpers.
func (s *System) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

func logf(l hal.Logger, format string, args ...any) {
	if l != nil {
		l.WriteLineString(fmt.Sprintf(format, args...))
	}
}

// observerList fans kernel notifications out.
type observerList []kernel.Observer

func (o observerList) observer() kernel.Observer {
	switch len(o) {
	case 0:
		return nil
	case 1:
		return o[0]
	}
	return o
}

func (o observerList) OnTick(now uint32) {
	for _, x := range o {
		x.OnTick(now)
	}
}

func (o observerList) OnDispatch(kind kernel.DispatchKind) {
	for _, x := range o {
		x.OnDispatch(kind)
	}
}

func (o observerList) OnCall(id kernel.AppID, depth int) {
	for _, x := range o {
		x.OnCall(id, depth)
	}
}

func (o observerList) OnExit(id kernel.AppID, status int) {
	for _, x := range o {
		x.OnExit(id, status)
	}
}
