// Command plughost runs plugins from the built-in catalog over audio
// files: decode, drive the plugin with scheduled automation and MIDI,
// encode the result as WAV, and optionally report spectrum and timing.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/ossrs/go-oryx-lib/errors"
	"github.com/ossrs/go-oryx-lib/logger"

	"github.com/plugrt/plugrt/examples/gain"
	"github.com/plugrt/plugrt/examples/metronome"
	"github.com/plugrt/plugrt/examples/midisine"
	"github.com/plugrt/plugrt/examples/oscillator"
	"github.com/plugrt/plugrt/examples/svf"
	"github.com/plugrt/plugrt/pkg/framework/event"
	"github.com/plugrt/plugrt/pkg/framework/state"
	"github.com/plugrt/plugrt/pkg/host"
	"github.com/plugrt/plugrt/pkg/midi"
)

var version = "0.1.0"

type cli struct {
	List    listCmd    `cmd:"" help:"List the plugins in the catalog."`
	Info    infoCmd    `cmd:"" help:"Show a plugin's identity and parameters."`
	Render  renderCmd  `cmd:"" help:"Run a plugin over an audio file."`
	Analyze analyzeCmd `cmd:"" help:"Report an audio file's spectrum peak."`

	Version kong.VersionFlag `short:"v" help:"Show version and quit."`
}

// app is the state every command runs against.
type app struct {
	ctx      context.Context
	catalog  *host.Catalog
	registry *host.Registry
}

func builtinCatalog() *host.Catalog {
	c := host.NewCatalog()
	c.Register("gain", gain.New)
	c.Register("metronome", metronome.New)
	c.Register("midisine", midisine.New)
	c.Register("oscillator", oscillator.New)
	c.Register("svf", svf.New)
	return c
}

type listCmd struct{}

func (c *listCmd) Run(a *app) error {
	for _, name := range a.catalog.Names() {
		info, err := a.catalog.Describe(name)
		if err != nil {
			return err
		}
		fmt.Printf("%-12s %s %s (%s)\n", name, info.Name, info.Version, info.Category)
	}
	return nil
}

type infoCmd struct {
	Plugin string `arg:"" help:"Catalog name of the plugin."`
}

func (c *infoCmd) Run(a *app) error {
	inst, err := a.catalog.New(c.Plugin)
	if err != nil {
		return err
	}

	info := inst.Info()
	fmt.Printf("%s\n", info.Name)
	fmt.Printf("  id        %s\n", info.ID)
	fmt.Printf("  uid       %x\n", info.UID())
	fmt.Printf("  vendor    %s\n", info.Vendor)
	fmt.Printf("  version   %s\n", info.Version)
	fmt.Printf("  category  %s\n", info.Category)
	fmt.Printf("  midi in   %v\n", inst.WantsMIDI())

	fmt.Println("parameters:")
	for i := 0; i < inst.NumParams(); i++ {
		p := inst.Param(i)
		fmt.Printf("  %2d  %-18s %s\n", i, p.Info.Name, inst.ParameterDisplay(i))
	}
	return nil
}

type renderCmd struct {
	Plugin string `arg:"" help:"Catalog name of the plugin."`
	Input  string `arg:"" type:"existingfile" help:"Audio file to process."`

	Output   string  `short:"o" default:"out.wav" help:"Output WAV path."`
	BitDepth int     `default:"${bit_depth}" help:"Output bit depth, 16 or 24."`
	Block    int     `default:"${block}" help:"Processing block size in frames."`
	BPM      float64 `default:"120" help:"Transport tempo."`
	Play     bool    `help:"Run the transport so musical time advances."`

	Automate []string `placeholder:"FRAME:PARAM:VALUE" help:"Schedule a normalized parameter change."`
	MIDI     []string `placeholder:"FRAME:NOTE:VELOCITY" help:"Schedule a note-on; note by number or name."`

	Preset     string `type:"existingfile" help:"Load a preset before rendering."`
	SavePreset string `help:"Save the plugin state as a preset after rendering."`

	Spectrum bool `help:"Report the rendered file's spectrum peak."`
	Profile  bool `help:"Report render timing."`
}

func (c *renderCmd) Run(a *app) error {
	inst, err := a.catalog.New(c.Plugin)
	if err != nil {
		return err
	}
	if c.Preset != "" {
		if err := state.LoadFile(c.Preset, inst); err != nil {
			return errors.Wrapf(err, "load preset %v", c.Preset)
		}
		logger.Tf(a.ctx, "loaded preset %v", c.Preset)
	}

	clip, err := a.registry.DecodeFile(c.Input)
	if err != nil {
		return errors.Wrapf(err, "decode %v", c.Input)
	}
	logger.Tf(a.ctx, "decoded %v: %v channels, %v frames at %vHz",
		c.Input, len(clip.Channels), clip.Frames(), clip.Rate)

	r := host.NewRenderer(inst)
	r.SetBlockSize(c.Block)
	r.SetTempo(c.BPM, c.Play)

	for _, s := range c.Automate {
		auto, err := parseAutomation(s)
		if err != nil {
			return err
		}
		r.Automate(auto.Frame, auto.Param, auto.Value)
	}
	for _, s := range c.MIDI {
		ev, err := parseNote(s)
		if err != nil {
			return err
		}
		r.AddMIDI(ev.Frame, ev.Data)
	}

	out, err := r.Render(clip)
	if err != nil {
		return errors.Wrapf(err, "render %v", c.Plugin)
	}

	for _, ev := range r.OutputEvents() {
		if ev.Kind == event.MIDI {
			fmt.Printf("%8d  %s\n", ev.Frame, midi.Format(ev.Data))
		}
	}

	if err := host.EncodeWAVFile(c.Output, out, c.BitDepth); err != nil {
		return errors.Wrapf(err, "encode %v", c.Output)
	}
	logger.Tf(a.ctx, "wrote %v: %v, peak %.3f", c.Output, out.Duration(), out.Peak())

	if c.SavePreset != "" {
		if err := state.SaveFile(c.SavePreset, inst); err != nil {
			return errors.Wrapf(err, "save preset %v", c.SavePreset)
		}
		logger.Tf(a.ctx, "saved preset %v", c.SavePreset)
	}

	if c.Spectrum {
		sp, err := host.AnalyzeClip(out, 0, 0)
		if err != nil {
			return errors.Wrapf(err, "analyze output")
		}
		fmt.Printf("spectrum peak %.1fHz at %.1fdB\n", sp.PeakFrequency(), sp.PeakDb())
	}
	if c.Profile {
		fmt.Println(r.Profile().RenderReport())
	}
	return nil
}

type analyzeCmd struct {
	Input   string `arg:"" type:"existingfile" help:"Audio file to analyze."`
	Channel int    `default:"0" help:"Channel to analyze."`
	Size    int    `default:"${fft}" help:"FFT size, a power of two; 0 picks the default."`
}

func (c *analyzeCmd) Run(a *app) error {
	clip, err := a.registry.DecodeFile(c.Input)
	if err != nil {
		return errors.Wrapf(err, "decode %v", c.Input)
	}
	fmt.Printf("%v: %v channels, %v frames at %vHz, %v, peak %.3f\n",
		c.Input, len(clip.Channels), clip.Frames(), clip.Rate, clip.Duration(), clip.Peak())

	sp, err := host.AnalyzeClip(clip, c.Channel, c.Size)
	if err != nil {
		return errors.Wrapf(err, "analyze %v", c.Input)
	}
	fmt.Printf("spectrum peak %.1fHz at %.1fdB, bin width %.2fHz\n",
		sp.PeakFrequency(), sp.PeakDb(), sp.BinWidth())
	return nil
}

// parseAutomation parses a FRAME:PARAM:VALUE schedule entry.
func parseAutomation(s string) (host.Automation, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return host.Automation{}, errors.Errorf("automation %q, want FRAME:PARAM:VALUE", s)
	}
	frame, err := strconv.Atoi(parts[0])
	if err != nil || frame < 0 {
		return host.Automation{}, errors.Errorf("automation frame %q", parts[0])
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil || index < 0 {
		return host.Automation{}, errors.Errorf("automation parameter %q", parts[1])
	}
	value, err := strconv.ParseFloat(parts[2], 32)
	if err != nil || value < 0 || value > 1 {
		return host.Automation{}, errors.Errorf("automation value %q outside [0,1]", parts[2])
	}
	return host.Automation{Frame: frame, Param: index, Value: float32(value)}, nil
}

// parseNote parses a FRAME:NOTE:VELOCITY schedule entry into a note-on.
// The note is a MIDI number or a name like c#4.
func parseNote(s string) (host.ScheduledMIDI, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return host.ScheduledMIDI{}, errors.Errorf("note %q, want FRAME:NOTE:VELOCITY", s)
	}
	frame, err := strconv.Atoi(parts[0])
	if err != nil || frame < 0 {
		return host.ScheduledMIDI{}, errors.Errorf("note frame %q", parts[0])
	}
	note, err := parseNoteNumber(parts[1])
	if err != nil {
		return host.ScheduledMIDI{}, err
	}
	velocity, err := strconv.Atoi(parts[2])
	if err != nil || velocity < 0 || velocity > 127 {
		return host.ScheduledMIDI{}, errors.Errorf("note velocity %q outside 0..127", parts[2])
	}
	return host.ScheduledMIDI{Frame: frame, Data: midi.NoteOn(0, note, uint8(velocity))}, nil
}

func parseNoteNumber(s string) (uint8, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 127 {
			return 0, errors.Errorf("note %v outside 0..127", n)
		}
		return uint8(n), nil
	}
	return midi.NameToNoteNumber(s)
}

func setEnvDefault(key, value string) {
	if os.Getenv(key) == "" {
		os.Setenv(key, value)
	}
}

func doMain(ctx context.Context) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "load .env")
	}

	setEnvDefault("PLUGHOST_BIT_DEPTH", "24")
	setEnvDefault("PLUGHOST_BLOCK", "512")
	setEnvDefault("PLUGHOST_FFT", "0")

	var c cli
	kctx := kong.Parse(&c,
		kong.Name("plughost"),
		kong.Description("Offline renderer for plugrt plugins."),
		kong.UsageOnError(),
		kong.Vars{
			"version":   version,
			"bit_depth": os.Getenv("PLUGHOST_BIT_DEPTH"),
			"block":     os.Getenv("PLUGHOST_BLOCK"),
			"fft":       os.Getenv("PLUGHOST_FFT"),
		},
	)
	return kctx.Run(&app{
		ctx:      ctx,
		catalog:  builtinCatalog(),
		registry: host.DefaultRegistry(),
	})
}

func main() {
	ctx := logger.WithContext(context.Background())
	if err := doMain(ctx); err != nil {
		logger.Ef(ctx, "run err %+v", err)
		os.Exit(1)
	}
}
