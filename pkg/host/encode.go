package host

import (
	"io"
	"os"
	"path/filepath"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ossrs/go-oryx-lib/errors"

	"github.com/plugrt/plugrt/pkg/dsp"
)

// EncodeWAV writes clip as PCM WAV at the given bit depth (16 or 24).
// Samples outside -1..1 clip hard.
func EncodeWAV(w io.WriteSeeker, clip *Clip, bitDepth int) error {
	if err := clip.validate(); err != nil {
		return err
	}
	if bitDepth != 16 && bitDepth != 24 {
		return errors.Errorf("unsupported bit depth %v", bitDepth)
	}

	channels := len(clip.Channels)
	frames := clip.Frames()
	scale := float32(int(1)<<(bitDepth-1) - 1)

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  int(clip.Rate),
		},
		Data:           make([]int, frames*channels),
		SourceBitDepth: bitDepth,
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			s := dsp.HardClip(clip.Channels[ch][i], 1.0)
			buf.Data[i*channels+ch] = int(s * scale)
		}
	}

	enc := wav.NewEncoder(w, int(clip.Rate), bitDepth, channels, 1)
	if err := enc.Write(buf); err != nil {
		return errors.Wrapf(err, "write pcm")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrapf(err, "finalize wav")
	}
	return nil
}

// EncodeWAVFile writes clip to path, creating parent directories as
// needed.
func EncodeWAVFile(path string, clip *Clip, bitDepth int) error {
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

	return EncodeWAV(f, clip, bitDepth)
}
