package sound

import "math"

// Note is a MIDI note number. Middle C is NoteC4.
type Note uint8

const (
	NoteC3  Note = 48
	NoteG3  Note = 55
	NoteA3  Note = 57
	NoteC4  Note = 60
	NoteCs4 Note = 61
	NoteD4  Note = 62
	NoteE4  Note = 64
	NoteF4  Note = 65
	NoteFs4 Note = 66
	NoteG4  Note = 67
	NoteA4  Note = 69
	NoteB4  Note = 71
	NoteC5  Note = 72
	NoteD5  Note = 74
	NoteE5  Note = 76
	NoteG5  Note = 79
	NoteA5  Note = 81
	NoteC6  Note = 84
	NoteE6  Note = 88
	NoteA6  Note = 93
)

var freqTable [128]uint16

func init() {
	for n := range freqTable {
		freqTable[n] = uint16(math.Round(440 * math.Pow(2, float64(n-69)/12)))
	}
}

// Freq is the equal-tempered frequency of n in Hz, A4 = 440.
func Freq(n Note) uint16 {
	if int(n) >= len(freqTable) {
		return 0
	}
	return freqTable[n]
}
