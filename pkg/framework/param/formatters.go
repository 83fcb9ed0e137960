package param

import (
	"fmt"
	"io"
)

// Common display functions for parameter text output.

// GenericDisplay writes the destination value as a plain number.
func GenericDisplay(p *Param, w io.Writer) error {
	_, err := fmt.Fprintf(w, "%v", p.Dest())
	return err
}

// DecibelDisplay writes the destination coefficient as decibels,
// or "-inf" once it falls below the audible floor.
func DecibelDisplay(p *Param, w io.Writer) error {
	coeff := p.Dest()
	if coeff <= dbFloorCoeff {
		_, err := io.WriteString(w, "-inf")
		return err
	}
	_, err := fmt.Fprintf(w, "%.1f", CoeffToDB(coeff))
	return err
}

// FrequencyDisplay writes the destination value in Hz, switching to
// kHz at 1000.
func FrequencyDisplay(p *Param, w io.Writer) error {
	hz := p.Dest()
	if hz >= 1000 {
		_, err := fmt.Fprintf(w, "%.2f kHz", hz/1000)
		return err
	}
	_, err := fmt.Fprintf(w, "%.1f Hz", hz)
	return err
}

// PercentDisplay writes a 0..1 destination value as a percentage.
func PercentDisplay(p *Param, w io.Writer) error {
	_, err := fmt.Fprintf(w, "%.0f%%", p.Dest()*100)
	return err
}

// OnOffDisplay writes a toggle destination value as "On" or "Off".
func OnOffDisplay(p *Param, w io.Writer) error {
	s := "Off"
	if p.Dest() > 0.5 {
		s = "On"
	}
	_, err := io.WriteString(w, s)
	return err
}

// NameDisplay returns a display function that maps a stepped
// parameter onto one of the given names. The destination value is
// read back through the parameter's range, so it works for any
// target whose DSP value is the normalized choice position.
func NameDisplay(names ...string) DisplayFunc {
	return func(p *Param, w io.Writer) error {
		if len(names) == 0 {
			return nil
		}
		i := ChoiceIndex(p.Normalized(), len(names))
		_, err := io.WriteString(w, names[i])
		return err
	}
}
