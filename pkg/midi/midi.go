// Package midi is a vocabulary for raw three-byte MIDI channel
// messages: status constants, constructors, field accessors and
// note/frequency conversion.
//
// Messages travel through the framework as plain [3]byte values so
// the audio path stays allocation free; this package keeps the bit
// twiddling in one place.
package midi

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ossrs/go-oryx-lib/errors"
)

// Channel message status nibbles.
const (
	StatusNoteOff         byte = 0x80
	StatusNoteOn          byte = 0x90
	StatusPolyPressure    byte = 0xA0
	StatusControlChange   byte = 0xB0
	StatusProgramChange   byte = 0xC0
	StatusChannelPressure byte = 0xD0
	StatusPitchBend       byte = 0xE0
)

// Common controller numbers.
const (
	CCModWheel       uint8 = 1
	CCBreath         uint8 = 2
	CCFoot           uint8 = 4
	CCPortamentoTime uint8 = 5
	CCVolume         uint8 = 7
	CCBalance        uint8 = 8
	CCPan            uint8 = 10
	CCExpression     uint8 = 11
	CCSustain        uint8 = 64
	CCPortamento     uint8 = 65
	CCSostenuto      uint8 = 66
	CCSoft           uint8 = 67
	CCLegato         uint8 = 68
	CCHold2          uint8 = 69
	CCAllSoundOff    uint8 = 120
	CCResetAll       uint8 = 121
	CCLocalControl   uint8 = 122
	CCAllNotesOff    uint8 = 123
)

// NoteOn builds a note-on message. channel is 0-15.
func NoteOn(channel, note, velocity uint8) [3]byte {
	return [3]byte{StatusNoteOn | channel&0x0F, note & 0x7F, velocity & 0x7F}
}

// NoteOff builds a note-off message.
func NoteOff(channel, note, velocity uint8) [3]byte {
	return [3]byte{StatusNoteOff | channel&0x0F, note & 0x7F, velocity & 0x7F}
}

// ControlChange builds a controller message.
func ControlChange(channel, controller, value uint8) [3]byte {
	return [3]byte{StatusControlChange | channel&0x0F, controller & 0x7F, value & 0x7F}
}

// ProgramChange builds a program change message.
func ProgramChange(channel, program uint8) [3]byte {
	return [3]byte{StatusProgramChange | channel&0x0F, program & 0x7F, 0}
}

// PitchBend builds a pitch bend message. value runs -8192 to 8191
// with 0 at center; out of range values clamp.
func PitchBend(channel uint8, value int16) [3]byte {
	raw := int(value) + 8192
	if raw < 0 {
		raw = 0
	}
	if raw > 0x3FFF {
		raw = 0x3FFF
	}
	return [3]byte{StatusPitchBend | channel&0x0F, byte(raw & 0x7F), byte(raw >> 7)}
}

// Status returns the message's status nibble.
func Status(data [3]byte) byte {
	return data[0] & 0xF0
}

// Channel returns the message's channel, 0-15.
func Channel(data [3]byte) uint8 {
	return data[0] & 0x0F
}

// Note returns the note number of a note or poly pressure message.
func Note(data [3]byte) uint8 {
	return data[1]
}

// Velocity returns the velocity byte of a note message.
func Velocity(data [3]byte) uint8 {
	return data[2]
}

// IsNoteOn reports whether data starts a note. A note-on with
// velocity zero counts as a release, not a start.
func IsNoteOn(data [3]byte) bool {
	return Status(data) == StatusNoteOn && data[2] > 0
}

// IsNoteOff reports whether data releases a note, counting
// zero-velocity note-ons.
func IsNoteOff(data [3]byte) bool {
	s := Status(data)
	return s == StatusNoteOff || (s == StatusNoteOn && data[2] == 0)
}

// PitchBendValue decodes a pitch bend message to -8192..8191.
func PitchBendValue(data [3]byte) int16 {
	return int16((int(data[1]) | int(data[2])<<7) - 8192)
}

// NormalizedPitchBend maps a pitch bend message to roughly -1..1.
func NormalizedPitchBend(data [3]byte) float64 {
	return float64(PitchBendValue(data)) / 8192.0
}

// NoteToFrequency converts a note number to Hz. A tuningA4 of 0 means
// standard 440 Hz tuning.
func NoteToFrequency(note uint8, tuningA4 float64) float64 {
	if tuningA4 == 0 {
		tuningA4 = 440.0
	}
	return tuningA4 * math.Exp2((float64(note)-69.0)/12.0)
}

// FrequencyToNote returns the note number closest to freq, clamped to
// 0..127.
func FrequencyToNote(freq, tuningA4 float64) uint8 {
	if tuningA4 == 0 {
		tuningA4 = 440.0
	}
	note := 69.0 + 12.0*math.Log2(freq/tuningA4)
	if note < 0 {
		return 0
	}
	if note > 127 {
		return 127
	}
	return uint8(note + 0.5)
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteNumberToName renders a note number as scientific pitch, middle
// C (60) being C4.
func NoteNumberToName(note uint8) string {
	octave := int(note/12) - 1
	return fmt.Sprintf("%s%d", noteNames[note%12], octave)
}

// NameToNoteNumber parses scientific pitch names such as "C4", "F#3"
// or "Bb-1".
func NameToNoteNumber(name string) (uint8, error) {
	if len(name) < 2 {
		return 0, errors.Errorf("bad note name %q", name)
	}
	var step int
	switch name[0] {
	case 'C', 'c':
		step = 0
	case 'D', 'd':
		step = 2
	case 'E', 'e':
		step = 4
	case 'F', 'f':
		step = 5
	case 'G', 'g':
		step = 7
	case 'A', 'a':
		step = 9
	case 'B', 'b':
		step = 11
	default:
		return 0, errors.Errorf("bad note name %q", name)
	}
	rest := name[1:]
	switch rest[0] {
	case '#':
		step++
		rest = rest[1:]
	case 'b':
		step--
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, errors.Wrapf(err, "bad octave in %q", name)
	}
	n := (octave+1)*12 + step
	if n < 0 || n > 127 {
		return 0, errors.Errorf("note %q out of range", name)
	}
	return uint8(n), nil
}

// Format renders a message for logs.
func Format(data [3]byte) string {
	switch Status(data) {
	case StatusNoteOff:
		return fmt.Sprintf("NoteOff{ch:%d, note:%d, vel:%d}", Channel(data), data[1], data[2])
	case StatusNoteOn:
		return fmt.Sprintf("NoteOn{ch:%d, note:%d, vel:%d}", Channel(data), data[1], data[2])
	case StatusPolyPressure:
		return fmt.Sprintf("PolyPressure{ch:%d, note:%d, pressure:%d}", Channel(data), data[1], data[2])
	case StatusControlChange:
		return fmt.Sprintf("CC{ch:%d, ctrl:%d, val:%d}", Channel(data), data[1], data[2])
	case StatusProgramChange:
		return fmt.Sprintf("ProgramChange{ch:%d, prog:%d}", Channel(data), data[1])
	case StatusChannelPressure:
		return fmt.Sprintf("ChannelPressure{ch:%d, pressure:%d}", Channel(data), data[1])
	case StatusPitchBend:
		return fmt.Sprintf("PitchBend{ch:%d, val:%d}", Channel(data), PitchBendValue(data))
	}
	return fmt.Sprintf("MIDI{% X}", data[:])
}
