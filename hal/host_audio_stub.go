//go:build !tinygo && !cgo

package hal

import "sync/atomic"

// hostSpeaker only remembers the tone when no audio backend is available.
type hostSpeaker struct {
	hz atomic.Uint32
}

func newHostSpeaker(bool) *hostSpeaker { return &hostSpeaker{} }

func (s *hostSpeaker) SetFrequency(hz uint16) { s.hz.Store(uint32(hz)) }
func (s *hostSpeaker) Frequency() uint16      { return uint16(s.hz.Load()) }
func (s *hostSpeaker) Close()                 {}
