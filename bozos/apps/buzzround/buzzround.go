// Package buzzround runs a classic buzzer round: the first contestant to
// buzz wins the right to answer, and the quiz master rules on the answer.
package buzzround

import (
	"fmt"

	"bozzard/bozos/apps/appid"
	"bozzard/bozos/apps/options"
	"bozzard/bozos/apps/ui"
	"bozzard/bozos/clock"
	"bozzard/bozos/display"
	"bozzard/bozos/input"
	"bozzard/bozos/kernel"
	"bozzard/bozos/sound"
)

// EEPROM layout of the settings.
const (
	offLockout = iota
	offAnswerSecs
	offSound

	// RegionBytes is the persistent storage the app asks for.
	RegionBytes = 4
)

const refreshMs = 100

type phase uint8

const (
	phaseArmed phase = iota
	phaseAnswering
	phaseTimeUp
)

// Settings are the quiz master's choices, kept in EEPROM.
type Settings struct {
	// Lockout stops a contestant who answered wrongly buzzing again until
	// the round is reset.
	Lockout    bool
	AnswerSecs int32
	Sound      bool
}

// DefaultSettings apply when nothing has been saved.
var DefaultSettings = Settings{Lockout: true, Sound: true}

var settingPages = []options.Page{
	{Name: "Lockout", Type: options.YesNo},
	{Name: "Answer time", Type: options.Number, Min: 1, Max: 60, NullValue: "None"},
	{Name: "Buzz sound", Type: options.YesNo},
}

type round struct {
	ctx   *kernel.Context
	set   Settings
	timer clock.Clock

	phase  phase
	winner int
	locked [input.NumBuzzers]bool

	menu    options.Menu
	results [3]int32
}

// Init is the app entry point.
func Init(ctx *kernel.Context, _ any) {
	r := &round{ctx: ctx, set: Load(ctx)}
	t, err := ctx.NewClock(0, false)
	if err != nil {
		_ = ui.Screen(ctx.Display(), "Buzzer round", "No clock free")
		ctx.OnRotaryPress(func() { _ = ctx.Exit(1) })
		return
	}
	r.timer = t

	ctx.OnBuzz(r.buzz)
	ctx.OnPlay(r.wrong)
	ctx.OnReset(r.reset)
	ctx.OnYellow(r.configure)
	ctx.OnRotaryPress(func() { _ = ctx.Exit(0) })
	r.reset()
}

// Load reads the saved settings, falling back to DefaultSettings for bytes
// never written.
func Load(ctx *kernel.Context) Settings {
	s := DefaultSettings
	var b [RegionBytes]byte
	if err := ctx.EEPROMRead(b[:], 0); err != nil {
		return s
	}
	if b[offLockout] != 0xFF {
		s.Lockout = b[offLockout] != 0
	}
	if b[offAnswerSecs] != 0xFF {
		s.AnswerSecs = int32(b[offAnswerSecs])
	}
	if b[offSound] != 0xFF {
		s.Sound = b[offSound] != 0
	}
	return s
}

func save(ctx *kernel.Context, s Settings) error {
	b := []byte{boolByte(s.Lockout), byte(s.AnswerSecs), boolByte(s.Sound)}
	return ctx.EEPROMWrite(b, 0)
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

func (r *round) buzz(b int) {
	if r.phase != phaseArmed || r.locked[b] {
		return
	}
	r.phase, r.winner = phaseAnswering, b
	r.ctx.LED(b, true)
	if r.set.Sound {
		_ = r.ctx.Sound().SquareBell(b)
	}
	if r.set.AnswerSecs > 0 {
		r.timer.SetInitialValue(r.set.AnswerSecs * 1000)
		r.timer.Reset()
		r.timer.SetExpiryMin(0, r.timeUp)
		r.timer.Run()
		r.ctx.SetAlarm(refreshMs, r.refresh)
	}
	r.draw()
}

func (r *round) timeUp(clock.Clock) {
	r.phase = phaseTimeUp
	r.ctx.CancelAlarm()
	if r.set.Sound {
		_ = r.ctx.Sound().Varying(sound.NoteA4, sound.NoteA3, 600, 1)
	}
	r.draw()
}

func (r *round) refresh() {
	if r.phase == phaseAnswering && r.timer.Running() {
		r.ctx.SetAlarm(refreshMs, r.refresh)
	}
	r.draw()
}

// wrong rules the current answer incorrect and reopens the buzzers.
func (r *round) wrong() {
	if r.phase == phaseArmed {
		return
	}
	if r.set.Lockout {
		r.locked[r.winner] = true
	}
	r.rearm()
}

func (r *round) reset() {
	r.locked = [input.NumBuzzers]bool{}
	r.rearm()
}

func (r *round) rearm() {
	r.phase = phaseArmed
	r.timer.Stop()
	r.timer.CancelExpiryMin()
	r.ctx.CancelAlarm()
	r.ctx.SetLEDs(0)
	r.ctx.Sound().StopAll()
	r.draw()
}

func (r *round) configure() {
	if r.phase != phaseArmed {
		return
	}
	r.results = [3]int32{int32(boolByte(r.set.Lockout)), r.set.AnswerSecs, int32(boolByte(r.set.Sound))}
	r.menu = options.Menu{Pages: settingPages, Results: r.results[:]}
	err := r.ctx.Call(appid.Options, &r.menu, func(status int) {
		if status == options.StatusAccept {
			r.set = Settings{
				Lockout:    r.results[0] != 0,
				AnswerSecs: r.results[1],
				Sound:      r.results[2] != 0,
			}
			_ = save(r.ctx, r.set)
		}
		r.draw()
	})
	if err != nil {
		r.draw()
	}
}

func (r *round) draw() {
	d := r.ctx.Display()
	switch r.phase {
	case phaseArmed:
		_ = ui.Screen(d, "Buzzer round", r.readyLine())
	case phaseAnswering:
		bottom := ""
		if r.set.AnswerSecs > 0 {
			bottom = display.FormatClock(r.timer.Value(), true)
		}
		_ = ui.Screen(d, fmt.Sprintf("Buzzer %d", r.winner+1), ui.Centre(bottom))
	case phaseTimeUp:
		_ = ui.Screen(d, fmt.Sprintf("Buzzer %d", r.winner+1), ui.Centre("Time up"))
	}
}

// readyLine shows which buzzers are still live, locked ones as dashes.
func (r *round) readyLine() string {
	b := []byte("Ready ")
	for i, l := range r.locked {
		if l {
			b = append(b, '-')
		} else {
			b = append(b, byte('1'+i))
		}
	}
	return string(b)
}
