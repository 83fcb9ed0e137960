package host

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/ossrs/go-oryx-lib/errors"
)

// Decoder turns an encoded stream into a Clip.
type Decoder interface {
	Decode(r io.Reader) (*Clip, error)
}

// Registry maps file extensions to decoders.
type Registry struct {
	mu     sync.Mutex
	codecs map[string]Decoder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Decoder)}
}

// DefaultRegistry returns a registry with every built-in decoder
// registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(".wav", WAVDecoder{})
	r.Register(".aiff", AIFFDecoder{})
	r.Register(".aif", AIFFDecoder{})
	r.Register(".mp3", MP3Decoder{})
	r.Register(".ogg", OGGDecoder{})
	return r
}

// Register adds a decoder for an extension such as ".wav".
func (r *Registry) Register(ext string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[strings.ToLower(ext)] = d
}

// Lookup finds the decoder for an extension.
func (r *Registry) Lookup(ext string) (Decoder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.codecs[strings.ToLower(ext)]
	return d, ok
}

// Extensions lists the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	exts := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// DecodeFile decodes path using the decoder registered for its
// extension.
func (r *Registry) DecodeFile(path string) (*Clip, error) {
	ext := strings.ToLower(filepath.Ext(path))
	dec, ok := r.Lookup(ext)
	if !ok {
		return nil, errors.Errorf("no decoder for %q", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %v", path)
	}
	defer f.Close()

	clip, err := dec.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %v", path)
	}
	return clip, nil
}

// pcmScale returns the divisor that maps integer PCM at the given bit
// depth onto -1..1.
func pcmScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128
	case 16:
		return 32768
	case 24:
		return 8388608
	case 32:
		return 2147483648
	}
	return 32768
}

func clipFromIntBuffer(buf *goaudio.IntBuffer) (*Clip, error) {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, errors.New("missing format information")
	}
	scale := pcmScale(buf.SourceBitDepth)
	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels

	c := NewClip(float32(buf.Format.SampleRate), channels, frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			c.Channels[ch][i] = float32(buf.Data[i*channels+ch]) / scale
		}
	}
	return c, nil
}

// WAVDecoder reads RIFF/WAVE PCM.
type WAVDecoder struct{}

func (WAVDecoder) Decode(r io.Reader) (*Clip, error) {
	// The underlying decoder needs a seeker.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read stream")
	}
	dec := wav.NewDecoder(bytes.NewReader(data))
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrapf(err, "wav pcm")
	}
	return clipFromIntBuffer(buf)
}

// AIFFDecoder reads AIFF PCM.
type AIFFDecoder struct{}

func (AIFFDecoder) Decode(r io.Reader) (*Clip, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read stream")
	}
	dec := aiff.NewDecoder(bytes.NewReader(data))
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrapf(err, "aiff pcm")
	}
	return clipFromIntBuffer(buf)
}

// MP3Decoder reads MPEG layer 3 streams.
type MP3Decoder struct{}

func (MP3Decoder) Decode(r io.Reader) (*Clip, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, errors.Wrapf(err, "mp3 header")
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, errors.Wrapf(err, "mp3 pcm")
	}

	// The decoder always yields 16-bit little-endian stereo.
	samples := make([]float32, len(raw)/2)
	for i := range samples {
		v := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		samples[i] = float32(v) / 32768.0
	}
	return &Clip{Rate: float32(dec.SampleRate()), Channels: planar(samples, 2)}, nil
}

// OGGDecoder reads Ogg Vorbis streams.
type OGGDecoder struct{}

func (OGGDecoder) Decode(r io.Reader) (*Clip, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "ogg pcm")
	}
	return &Clip{Rate: float32(format.SampleRate), Channels: planar(samples, format.Channels)}, nil
}
