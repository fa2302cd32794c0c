// Package sound queues tone commands and plays them on the speaker from the
// tick loop.
package sound

import (
	"errors"

	"bozzard/bozos/queue"
)

// QueueLen is the number of commands the queue holds.
const QueueLen = 8

// MaxArpNotes is the longest arpeggio a command can carry.
const MaxArpNotes = 4

// arpStepMs is how long each arpeggio note sounds.
const arpStepMs = 30

var (
	ErrQueueFull       = errors.New("sound: queue full")
	ErrInvalidArgument = errors.New("sound: invalid argument")
)

// Speaker produces a square wave. Zero hz is silence.
type Speaker interface {
	SetFrequency(hz uint16)
}

// Command is one queued sound. With NumArp > 0 the arpeggio notes cycle,
// otherwise the tone sweeps linearly from FreqStart to FreqEnd. FreqStart 0
// and no arpeggio is a rest. The whole command repeats Times times.
type Command struct {
	FreqStart  uint16
	FreqEnd    uint16
	Arp        [MaxArpNotes]Note
	NumArp     uint8
	DurationMs uint16
	Times      uint8
}

// Player owns the sound queue and the command currently sounding.
type Player struct {
	q   *queue.Ring[Command]
	spk Speaker

	cur       Command
	active    bool
	startedAt uint32
	rep       uint8
	lastHz    uint16
}

func NewPlayer(spk Speaker) *Player {
	return &Player{q: queue.New[Command](QueueLen), spk: spk}
}

func (p *Player) Full() bool    { return p.q.Full() }
func (p *Player) Pending() int  { return p.q.Len() }
func (p *Player) Playing() bool { return p.active }

// Enqueue adds a raw command.
func (p *Player) Enqueue(c Command) error {
	if c.DurationMs == 0 {
		return ErrInvalidArgument
	}
	if c.NumArp > MaxArpNotes {
		return ErrInvalidArgument
	}
	if !p.q.Push(c) {
		return ErrQueueFull
	}
	return nil
}

// Silence queues a rest.
func (p *Player) Silence(ms uint16) error {
	return p.Enqueue(Command{DurationMs: ms, Times: 1})
}

// Note queues a single steady note.
func (p *Player) Note(n Note, ms uint16) error {
	f := Freq(n)
	return p.Enqueue(Command{FreqStart: f, FreqEnd: f, DurationMs: ms, Times: 1})
}

// Varying sweeps from start to end over ms, times times.
func (p *Player) Varying(start, end Note, ms uint16, times uint8) error {
	return p.Enqueue(Command{FreqStart: Freq(start), FreqEnd: Freq(end), DurationMs: ms, Times: times})
}

// Arpeggio cycles through 1 to 4 notes for ms, times times.
func (p *Player) Arpeggio(notes []Note, ms uint16, times uint8) error {
	if len(notes) == 0 || len(notes) > MaxArpNotes {
		return ErrInvalidArgument
	}
	c := Command{NumArp: uint8(len(notes)), DurationMs: ms, Times: times}
	copy(c.Arp[:], notes)
	return p.Enqueue(c)
}

// SquareBell queues the buzz noise for contestant which. Each buzzer gets a
// slightly different pitch.
func (p *Player) SquareBell(which int) error {
	if which < 0 || which > 3 {
		return ErrInvalidArgument
	}
	base := NoteA5 + Note(2*which)
	bell := []Command{
		{FreqStart: Freq(base), FreqEnd: Freq(base), DurationMs: 120, Times: 1},
		{FreqStart: Freq(base + 12), FreqEnd: Freq(base), DurationMs: 280, Times: 1},
	}
	if !p.q.PushAll(bell...) {
		return ErrQueueFull
	}
	return nil
}

// Stop cuts the sounding command short and moves on to the next one.
func (p *Player) Stop() {
	p.active = false
	p.setHz(0)
}

// StopAll is Stop plus dropping everything queued.
func (p *Player) StopAll() {
	p.q.Clear()
	p.Stop()
}

// Poll advances playback to now.
func (p *Player) Poll(now uint32) {
	for {
		if !p.active {
			c, ok := p.q.Pop()
			if !ok {
				p.setHz(0)
				return
			}
			p.cur, p.active, p.startedAt, p.rep = c, true, now, 0
		}

		elapsed := now - p.startedAt
		dur := uint32(p.cur.DurationMs)
		if elapsed < dur {
			p.setHz(p.cur.freqAt(elapsed))
			return
		}

		p.rep++
		times := p.cur.Times
		if times == 0 {
			times = 1
		}
		if p.rep < times {
			p.startedAt += dur
			continue
		}
		p.active = false
	}
}

func (c *Command) freqAt(elapsed uint32) uint16 {
	if c.NumArp > 0 {
		i := (elapsed / arpStepMs) % uint32(c.NumArp)
		return Freq(c.Arp[i])
	}
	if c.FreqStart == 0 {
		return 0
	}
	start, end := int32(c.FreqStart), int32(c.FreqEnd)
	return uint16(start + (end-start)*int32(elapsed)/int32(c.DurationMs))
}

func (p *Player) setHz(hz uint16) {
	if hz == p.lastHz {
		return
	}
	p.lastHz = hz
	if p.spk != nil {
		p.spk.SetFrequency(hz)
	}
}
