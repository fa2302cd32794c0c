// Package nvram lays the persistent EEPROM out as a header followed by the
// per-app regions declared in the app table.
package nvram

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// LayoutVersion is bumped whenever the region layout changes incompatibly.
const LayoutVersion = 1

// HeaderBytes is the size of the header at offset 0. Regions start after it.
const HeaderBytes = 12

var magic = [8]byte{'B', 'O', 'Z', 'Z', 'A', 'R', 'D', 0}

var (
	ErrOutOfRange = errors.New("nvram: out of range")
	ErrNoDevice   = errors.New("nvram: no device")
)

// Device is the raw EEPROM.
type Device interface {
	Size() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
}

// Store is an opened, formatted device.
type Store struct {
	dev Device
}

// Open validates the header on dev, formatting it when the header is missing
// or from another layout version. formatted reports whether that happened.
func Open(dev Device) (s *Store, formatted bool, err error) {
	if dev == nil {
		return nil, false, ErrNoDevice
	}
	if dev.Size() < HeaderBytes {
		return nil, false, fmt.Errorf("nvram: device of %d bytes has no room for header: %w", dev.Size(), ErrOutOfRange)
	}
	s = &Store{dev: dev}

	var hdr [HeaderBytes]byte
	if _, err := dev.ReadAt(hdr[:], 0); err != nil {
		return nil, false, fmt.Errorf("nvram: read header: %w", err)
	}
	if bytes.Equal(hdr[:8], magic[:]) && binary.LittleEndian.Uint16(hdr[8:10]) == LayoutVersion {
		return s, false, nil
	}
	if err := s.Format(); err != nil {
		return nil, false, err
	}
	return s, true, nil
}

// Size is the number of bytes available to regions.
func (s *Store) Size() uint32 { return s.dev.Size() - HeaderBytes }

// Format is the global reset: every region byte becomes 0xFF and a fresh
// header is written.
func (s *Store) Format() error {
	blank := bytes.Repeat([]byte{0xFF}, 64)
	for off := uint32(HeaderBytes); off < s.dev.Size(); off += uint32(len(blank)) {
		n := s.dev.Size() - off
		if n > uint32(len(blank)) {
			n = uint32(len(blank))
		}
		if _, err := s.dev.WriteAt(blank[:n], off); err != nil {
			return fmt.Errorf("nvram: erase at %d: %w", off, err)
		}
	}

	var hdr [HeaderBytes]byte
	copy(hdr[:8], magic[:])
	binary.LittleEndian.PutUint16(hdr[8:10], LayoutVersion)
	if _, err := s.dev.WriteAt(hdr[:], 0); err != nil {
		return fmt.Errorf("nvram: write header: %w", err)
	}
	return nil
}

// Region returns the window [start, start+length) of the region space.
func (s *Store) Region(start, length uint16) (Region, error) {
	if uint32(start)+uint32(length) > s.Size() {
		return Region{}, fmt.Errorf("nvram: region %d+%d beyond %d: %w", start, length, s.Size(), ErrOutOfRange)
	}
	return Region{s: s, start: start, length: length}, nil
}

// Region is one app's slice of the EEPROM. The zero Region has length 0.
type Region struct {
	s      *Store
	start  uint16
	length uint16
}

func (r Region) Len() int { return int(r.length) }

func (r Region) check(off, n int) error {
	if off < 0 || n < 0 || off+n > int(r.length) {
		return fmt.Errorf("nvram: %d bytes at %d in region of %d: %w", n, off, r.length, ErrOutOfRange)
	}
	return nil
}

func (r Region) abs(off int) uint32 { return HeaderBytes + uint32(r.start) + uint32(off) }

// ReadAt fills p from offset off of the region.
func (r Region) ReadAt(p []byte, off int) error {
	if err := r.check(off, len(p)); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	if _, err := r.s.dev.ReadAt(p, r.abs(off)); err != nil {
		return fmt.Errorf("nvram: read: %w", err)
	}
	return nil
}

// WriteAt stores p at offset off of the region. Only runs of bytes that
// differ from what is stored are written.
func (r Region) WriteAt(p []byte, off int) error {
	if err := r.check(off, len(p)); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	cur := make([]byte, len(p))
	if _, err := r.s.dev.ReadAt(cur, r.abs(off)); err != nil {
		return fmt.Errorf("nvram: read before write: %w", err)
	}
	for i := 0; i < len(p); {
		if cur[i] == p[i] {
			i++
			continue
		}
		j := i
		for j < len(p) && cur[j] != p[j] {
			j++
		}
		if _, err := r.s.dev.WriteAt(p[i:j], r.abs(off+i)); err != nil {
			return fmt.Errorf("nvram: write at %d: %w", off+i, err)
		}
		i = j
	}
	return nil
}
