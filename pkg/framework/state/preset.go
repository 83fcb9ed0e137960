// Package state persists plugin models as versioned preset files.
//
// A preset is a fixed binary envelope around the model JSON a plugin
// produces: magic, format version, the owning plugin's UID, then a
// length-prefixed payload. The UID check makes loading another
// plugin's preset an error instead of a silent misparse.
package state

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/ossrs/go-oryx-lib/errors"

	"github.com/plugrt/plugrt/pkg/framework/plugin"
)

const (
	magic = "PLUGRT"

	// Version is the current envelope format version. Readers accept
	// anything at or below it.
	Version = 1

	// maxPayload bounds the payload allocation when reading, so a
	// corrupt size field cannot ask for gigabytes.
	maxPayload = 16 << 20
)

// Holder is the slice of a plugin instance preset I/O needs.
type Holder interface {
	Info() plugin.Info
	Serialise() ([]byte, error)
	Deserialise(data []byte)
}

// Preset is a decoded preset envelope.
type Preset struct {
	Version uint32
	UID     [16]byte
	Data    []byte
}

// Write encodes a preset envelope around data.
func Write(w io.Writer, uid [16]byte, data []byte) error {
	if len(data) > maxPayload {
		return errors.Errorf("payload %vB exceeds %vB", len(data), maxPayload)
	}
	if _, err := w.Write([]byte(magic)); err != nil {
		return errors.Wrapf(err, "write magic")
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(Version)); err != nil {
		return errors.Wrapf(err, "write version")
	}
	if _, err := w.Write(uid[:]); err != nil {
		return errors.Wrapf(err, "write uid")
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(data))); err != nil {
		return errors.Wrapf(err, "write size")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrapf(err, "write payload")
	}
	return nil
}

// Read decodes a preset envelope. Payload interpretation is left to
// the caller.
func Read(r io.Reader) (*Preset, error) {
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, errors.Wrapf(err, "read magic")
	}
	if string(header) != magic {
		return nil, errors.Errorf("bad magic %q", header)
	}

	var p Preset
	if err := binary.Read(r, binary.LittleEndian, &p.Version); err != nil {
		return nil, errors.Wrapf(err, "read version")
	}
	if p.Version > Version {
		return nil, errors.Errorf("version %v newer than supported %v", p.Version, Version)
	}
	if _, err := io.ReadFull(r, p.UID[:]); err != nil {
		return nil, errors.Wrapf(err, "read uid")
	}

	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, errors.Wrapf(err, "read size")
	}
	if size > maxPayload {
		return nil, errors.Errorf("payload %vB exceeds %vB", size, maxPayload)
	}
	p.Data = make([]byte, size)
	if _, err := io.ReadFull(r, p.Data); err != nil {
		return nil, errors.Wrapf(err, "read payload")
	}
	return &p, nil
}

// Save captures h's current model into w.
func Save(w io.Writer, h Holder) error {
	data, err := h.Serialise()
	if err != nil {
		return errors.Wrapf(err, "serialise %v", h.Info().ID)
	}
	return Write(w, h.Info().UID(), data)
}

// Load restores h's model from r. Presets written by a different
// plugin are rejected before any state changes.
func Load(r io.Reader, h Holder) error {
	p, err := Read(r)
	if err != nil {
		return err
	}
	if want := h.Info().UID(); p.UID != want {
		return errors.Errorf("preset uid %x, want %x for %v", p.UID, want, h.Info().ID)
	}
	h.Deserialise(p.Data)
	return nil
}

// SaveFile writes h's state to path, creating parent directories as
// needed.
func SaveFile(path string, h Holder) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "mkdir %v", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %v", path)
	}
	defer f.Close()

	return Save(f, h)
}

// LoadFile restores h's state from path.
func LoadFile(path string, h Holder) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %v", path)
	}
	defer f.Close()

	return Load(f, h)
}
