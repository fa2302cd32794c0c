//go:build !tinygo

package hal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	hostEEPROMDefaultPath      = "bozzard.eeprom"
	hostEEPROMDefaultSizeBytes = 1024
)

// hostEEPROM keeps the EEPROM in a file. A new file starts erased (0xFF),
// like a blank part.
type hostEEPROM struct {
	mu   sync.Mutex
	f    *os.File
	size uint32
}

func openHostEEPROM(path string, size uint32) (*hostEEPROM, error) {
	if env := os.Getenv("BOZ_EEPROM_PATH"); env != "" {
		path = env
	}
	if path == "" {
		path = hostEEPROMDefaultPath
	}
	if size == 0 {
		size = hostEEPROMDefaultSizeBytes
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	switch {
	case st.Size() > int64(^uint32(0)):
		_ = f.Close()
		return nil, fmt.Errorf("eeprom file %s: too large", path)
	case st.Size() > 0:
		size = uint32(st.Size())
	default:
		if _, err := f.WriteAt(bytes.Repeat([]byte{0xFF}, int(size)), 0); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("eeprom erase %s: %w", path, err)
		}
	}
	return &hostEEPROM{f: f, size: size}, nil
}

func (e *hostEEPROM) Size() uint32 { return e.size }

func (e *hostEEPROM) ReadAt(p []byte, off uint32) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if uint64(off)+uint64(len(p)) > uint64(e.size) {
		return 0, fmt.Errorf("eeprom read %d at %d: %w", len(p), off, os.ErrInvalid)
	}
	n, err := e.f.ReadAt(p, int64(off))
	if errors.Is(err, io.EOF) && n == len(p) {
		err = nil
	}
	return n, err
}

func (e *hostEEPROM) WriteAt(p []byte, off uint32) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if uint64(off)+uint64(len(p)) > uint64(e.size) {
		return 0, fmt.Errorf("eeprom write %d at %d: %w", len(p), off, os.ErrInvalid)
	}
	return e.f.WriteAt(p, int64(off))
}

func (e *hostEEPROM) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.f.Close()
}
