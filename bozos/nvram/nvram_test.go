package nvram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func open(t *testing.T, size int) (*Store, *Mem) {
	t.Helper()
	m := NewMem(size)
	s, formatted, err := Open(m)
	require.NoError(t, err)
	require.True(t, formatted)
	return s, m
}

func TestOpenFormatsBlankDevice(t *testing.T) {
	s, m := open(t, 256)
	require.Equal(t, uint32(256-HeaderBytes), s.Size())
	require.Equal(t, "BOZZARD\x00", string(m.Data[:8]))
	for _, b := range m.Data[HeaderBytes:] {
		require.Equal(t, byte(0xFF), b)
	}

	again, formatted, err := Open(m)
	require.NoError(t, err)
	require.False(t, formatted)
	require.NotNil(t, again)
}

func TestOpenRejectsTinyDevice(t *testing.T) {
	_, _, err := Open(NewMem(4))
	require.ErrorIs(t, err, ErrOutOfRange)

	_, _, err = Open(nil)
	require.ErrorIs(t, err, ErrNoDevice)
}

func TestRegionBounds(t *testing.T) {
	s, _ := open(t, 128)
	r, err := s.Region(10, 8)
	require.NoError(t, err)
	require.Equal(t, 8, r.Len())

	require.NoError(t, r.WriteAt([]byte{1, 2, 3}, 5))
	require.ErrorIs(t, r.WriteAt([]byte{1, 2, 3, 4}, 5), ErrOutOfRange)
	require.ErrorIs(t, r.ReadAt(make([]byte, 1), 8), ErrOutOfRange)
	require.ErrorIs(t, r.ReadAt(make([]byte, 1), -1), ErrOutOfRange)

	got := make([]byte, 8)
	require.NoError(t, r.ReadAt(got, 0))
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 1, 2, 3}, got)

	_, err = s.Region(100, 20)
	require.ErrorIs(t, err, ErrOutOfRange)

	var zero Region
	require.ErrorIs(t, zero.ReadAt(make([]byte, 1), 0), ErrOutOfRange)
}

func TestRegionsDoNotOverlap(t *testing.T) {
	s, _ := open(t, 64)
	a, err := s.Region(0, 4)
	require.NoError(t, err)
	b, err := s.Region(4, 4)
	require.NoError(t, err)

	require.NoError(t, a.WriteAt([]byte{9, 9, 9, 9}, 0))
	got := make([]byte, 4)
	require.NoError(t, b.ReadAt(got, 0))
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, got)
}

func TestWriteSkipsUnchangedBytes(t *testing.T) {
	s, m := open(t, 64)
	r, err := s.Region(0, 16)
	require.NoError(t, err)

	require.NoError(t, r.WriteAt([]byte{1, 2, 3, 4}, 0))
	m.Writes = 0
	require.NoError(t, r.WriteAt([]byte{1, 7, 3, 8}, 0))
	require.Equal(t, 2, m.Writes)

	m.Writes = 0
	require.NoError(t, r.WriteAt([]byte{1, 7, 3, 8}, 0))
	require.Equal(t, 0, m.Writes)
}

func TestFormatResetsRegions(t *testing.T) {
	s, m := open(t, 200)
	r, err := s.Region(0, 4)
	require.NoError(t, err)
	require.NoError(t, r.WriteAt([]byte{0, 0, 0, 0}, 0))

	require.NoError(t, s.Format())
	got := make([]byte, 4)
	require.NoError(t, r.ReadAt(got, 0))
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, got)
	require.Equal(t, byte(LayoutVersion), m.Data[8])
}

func TestOpenReformatsOtherLayout(t *testing.T) {
	_, m := open(t, 64)
	m.Data[8] = LayoutVersion + 1
	m.Data[20] = 0
	_, formatted, err := Open(m)
	require.NoError(t, err)
	require.True(t, formatted)
	require.Equal(t, byte(0xFF), m.Data[20])
}
