//go:build !tinygo && cgo

package hal

import (
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	hostSampleRate = 44100
	hostAmplitude  = 6000
)

// hostSpeaker renders the piezo as a square wave through Ebiten's audio
// package.
type hostSpeaker struct {
	hz     atomic.Uint32
	player *audio.Player
}

func newHostSpeaker(enabled bool) *hostSpeaker {
	s := &hostSpeaker{}
	if !enabled {
		return s
	}
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(hostSampleRate)
	}
	p, err := ctx.NewPlayer(&squareWave{s: s, rate: uint32(ctx.SampleRate())})
	if err != nil {
		return s
	}
	p.SetBufferSize(50 * time.Millisecond)
	p.Play()
	s.player = p
	return s
}

func (s *hostSpeaker) SetFrequency(hz uint16) { s.hz.Store(uint32(hz)) }
func (s *hostSpeaker) Frequency() uint16      { return uint16(s.hz.Load()) }

func (s *hostSpeaker) Close() {
	if s.player != nil {
		_ = s.player.Close()
		s.player = nil
	}
}

type squareWave struct {
	s     *hostSpeaker
	rate  uint32
	phase uint32
}

// Read produces 16-bit little-endian stereo, as Ebiten expects.
func (w *squareWave) Read(p []byte) (int, error) {
	n := len(p) &^ 3
	for i := 0; i < n; i += 4 {
		var v int16
		if hz := w.s.hz.Load(); hz != 0 {
			w.phase = (w.phase + hz) % w.rate
			v = hostAmplitude
			if w.phase >= w.rate/2 {
				v = -hostAmplitude
			}
		}
		p[i+0] = byte(v)
		p[i+1] = byte(v >> 8)
		p[i+2] = byte(v)
		p[i+3] = byte(v >> 8)
	}
	return n, nil
}
