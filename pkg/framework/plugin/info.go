// Package plugin describes plugin identity.
package plugin

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Plugin categories reported to hosts.
const (
	CategoryFx         = "Fx"
	CategoryInstrument = "Instrument"
)

// Info contains plugin metadata.
type Info struct {
	ID       string // Reverse-DNS identifier (e.g. "com.example.myplugin")
	Name     string // Display name
	Vendor   string // Company/developer name
	Version  string // Semantic version (e.g. "1.0.0")
	Category string // Plugin category (e.g. CategoryFx)
}

// UID derives the stable 16-byte identifier hosts key sessions and
// presets on. The same ID always yields the same UID.
func (i Info) UID() [16]byte {
	return [16]byte(uuid.NewSHA1(uuid.NameSpaceDNS, []byte(i.ID)))
}

// Validate reports whether the info is complete enough to register
// with a host.
func (i Info) Validate() error {
	if i.ID == "" {
		return errors.New("plugin: empty ID")
	}
	if i.Name == "" {
		return fmt.Errorf("plugin %q: empty name", i.ID)
	}
	return nil
}
