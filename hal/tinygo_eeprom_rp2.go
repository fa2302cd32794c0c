//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"errors"
	"fmt"
	"machine"
)

// flashEEPROM emulates the EEPROM in the first erase block of the flash
// data region. Reads come from a RAM shadow; a write rewrites the block.
type flashEEPROM struct {
	shadow []byte
	block  []byte
}

func newFlashEEPROM(size uint32) (*flashEEPROM, error) {
	bs := machine.Flash.EraseBlockSize()
	if bs <= 0 || int64(size) > bs || int64(size) > machine.Flash.Size() {
		return nil, errors.New("flash data region too small")
	}
	e := &flashEEPROM{shadow: make([]byte, size), block: make([]byte, bs)}
	if _, err := machine.Flash.ReadAt(e.shadow, 0); err != nil {
		return nil, fmt.Errorf("flash read: %w", err)
	}
	return e, nil
}

func (e *flashEEPROM) Size() uint32 { return uint32(len(e.shadow)) }

func (e *flashEEPROM) ReadAt(p []byte, off uint32) (int, error) {
	if int(off)+len(p) > len(e.shadow) {
		return 0, fmt.Errorf("eeprom read %d at %d: %w", len(p), off, ErrNotImplemented)
	}
	return copy(p, e.shadow[off:]), nil
}

func (e *flashEEPROM) WriteAt(p []byte, off uint32) (int, error) {
	if int(off)+len(p) > len(e.shadow) {
		return 0, fmt.Errorf("eeprom write %d at %d: %w", len(p), off, ErrNotImplemented)
	}
	copy(e.shadow[off:], p)

	for i := range e.block {
		e.block[i] = 0xFF
	}
	copy(e.block, e.shadow)
	if err := machine.Flash.EraseBlocks(0, 1); err != nil {
		return 0, fmt.Errorf("flash erase: %w", err)
	}
	if _, err := machine.Flash.WriteAt(e.block, 0); err != nil {
		return 0, fmt.Errorf("flash write: %w", err)
	}
	return len(p), nil
}
