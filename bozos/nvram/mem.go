package nvram

import "fmt"

// Mem is a Device held in memory. Writes counts bytes written, for tests and
// wear accounting.
type Mem struct {
	Data   []byte
	Writes int
}

func NewMem(size int) *Mem {
	m := &Mem{Data: make([]byte, size)}
	return m
}

func (m *Mem) Size() uint32 { return uint32(len(m.Data)) }

func (m *Mem) ReadAt(p []byte, off uint32) (int, error) {
	if int(off)+len(p) > len(m.Data) {
		return 0, fmt.Errorf("mem read %d at %d: %w", len(p), off, ErrOutOfRange)
	}
	return copy(p, m.Data[off:]), nil
}

func (m *Mem) WriteAt(p []byte, off uint32) (int, error) {
	if int(off)+len(p) > len(m.Data) {
		return 0, fmt.Errorf("mem write %d at %d: %w", len(p), off, ErrOutOfRange)
	}
	m.Writes += len(p)
	return copy(m.Data[off:], p), nil
}
