package host

import (
	"strings"
	"testing"

	"github.com/plugrt/plugrt/pkg/framework/wrapper"
)

func newTestCatalog() *Catalog {
	c := NewCatalog()
	c.Register("gain", func() wrapper.Instance {
		inst, _ := newGainInstance(1)
		return inst
	})
	c.Register("attenuate", func() wrapper.Instance {
		inst, _ := newGainInstance(0.5)
		return inst
	})
	return c
}

func TestCatalog(t *testing.T) {
	c := newTestCatalog()

	t.Run("New", func(t *testing.T) {
		inst, err := c.New("gain")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if got := inst.Info().Name; got != "Host Gain" {
			t.Errorf("Expected 'Host Gain', got %q", got)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		if _, err := c.New("missing"); err == nil {
			t.Fatal("Expected error for unknown plugin")
		} else if !strings.Contains(err.Error(), "missing") {
			t.Errorf("Expected name in error, got %q", err.Error())
		}
	})

	t.Run("Describe", func(t *testing.T) {
		info, err := c.Describe("attenuate")
		if err != nil {
			t.Fatalf("Describe failed: %v", err)
		}
		if info.ID != "com.plugrt.hostgain" {
			t.Errorf("Expected plugin ID, got %q", info.ID)
		}
	})

	t.Run("Names", func(t *testing.T) {
		names := c.Names()
		if len(names) != 2 || names[0] != "attenuate" || names[1] != "gain" {
			t.Errorf("Expected sorted names [attenuate gain], got %v", names)
		}
	})
}
