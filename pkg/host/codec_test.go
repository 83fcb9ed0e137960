package host

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWAVRoundTrip(t *testing.T) {
	// Sine on the left, ramp on the right.
	in := NewClip(44100, 2, 512)
	for i := range in.Channels[0] {
		in.Channels[0][i] = 0.5 * float32(math.Sin(2*math.Pi*440*float64(i)/44100))
		in.Channels[1][i] = float32(i)/512 - 0.5
	}

	for _, depth := range []int{16, 24} {
		t.Run(fmt.Sprintf("%dBit", depth), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "clip.wav")
			if err := EncodeWAVFile(path, in, depth); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			out, err := DefaultRegistry().DecodeFile(path)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if out.Rate != in.Rate {
				t.Errorf("Expected rate %v, got %v", in.Rate, out.Rate)
			}
			if len(out.Channels) != 2 || out.Frames() != in.Frames() {
				t.Fatalf("Expected 2x%d samples, got %dx%d",
					in.Frames(), len(out.Channels), out.Frames())
			}

			// Two LSBs cover quantization plus the max-value scale.
			tol := 2.0 / float64(int(1)<<(depth-1))
			for c := range in.Channels {
				for i := range in.Channels[c] {
					diff := math.Abs(float64(out.Channels[c][i] - in.Channels[c][i]))
					if diff > tol {
						t.Fatalf("channel %d frame %d: %v vs %v (diff %v)",
							c, i, out.Channels[c][i], in.Channels[c][i], diff)
					}
				}
			}
		})
	}
}

func TestEncodeClipsHard(t *testing.T) {
	c := NewClip(48000, 1, 4)
	copy(c.Channels[0], []float32{1.5, -1.5, 0, 0.25})

	path := filepath.Join(t.TempDir(), "hot.wav")
	if err := EncodeWAVFile(path, c, 16); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out, err := DefaultRegistry().DecodeFile(path)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	ch := out.Channels[0]
	if ch[0] < 0.999 {
		t.Errorf("Expected +1.5 clipped to full scale, got %v", ch[0])
	}
	if ch[1] > -0.999 {
		t.Errorf("Expected -1.5 clipped to full scale, got %v", ch[1])
	}
	if diff := math.Abs(float64(ch[3] - 0.25)); diff > 2.0/32768 {
		t.Errorf("Expected in-range sample preserved, got %v", ch[3])
	}
}

func TestEncodeRejects(t *testing.T) {
	dir := t.TempDir()

	t.Run("BitDepth", func(t *testing.T) {
		err := EncodeWAVFile(filepath.Join(dir, "bad.wav"), NewClip(48000, 1, 4), 8)
		if err == nil {
			t.Fatal("Expected error for 8-bit")
		}
		if !strings.Contains(err.Error(), "unsupported bit depth") {
			t.Errorf("Expected bit depth error, got %q", err.Error())
		}
	})

	t.Run("BadClip", func(t *testing.T) {
		if err := EncodeWAVFile(filepath.Join(dir, "bad.wav"), NewClip(0, 1, 4), 16); err == nil {
			t.Fatal("Expected error for zero sample rate")
		}
	})
}

// fixedDecoder ignores the stream and returns a canned clip.
type fixedDecoder struct {
	clip *Clip
}

func (d fixedDecoder) Decode(io.Reader) (*Clip, error) {
	return d.clip, nil
}

func TestRegistry(t *testing.T) {
	t.Run("DefaultExtensions", func(t *testing.T) {
		want := []string{".aif", ".aiff", ".mp3", ".ogg", ".wav"}
		got := DefaultRegistry().Extensions()
		if len(got) != len(want) {
			t.Fatalf("Expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Expected %v, got %v", want, got)
			}
		}
	})

	t.Run("LookupCaseInsensitive", func(t *testing.T) {
		if _, ok := DefaultRegistry().Lookup(".WAV"); !ok {
			t.Error("Expected .WAV lookup to hit the wav decoder")
		}
		if _, ok := DefaultRegistry().Lookup(".xyz"); ok {
			t.Error("Expected .xyz lookup to miss")
		}
	})

	t.Run("CustomDecoder", func(t *testing.T) {
		canned := NewClip(22050, 1, 8)
		reg := NewRegistry()
		reg.Register(".sine", fixedDecoder{clip: canned})

		path := filepath.Join(t.TempDir(), "tone.sine")
		if err := os.WriteFile(path, []byte("ignored"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		clip, err := reg.DecodeFile(path)
		if err != nil {
			t.Fatalf("DecodeFile failed: %v", err)
		}
		if clip != canned {
			t.Error("Expected the registered decoder's clip")
		}
	})

	t.Run("UnknownExtension", func(t *testing.T) {
		_, err := DefaultRegistry().DecodeFile("tone.xyz")
		if err == nil {
			t.Fatal("Expected error for unregistered extension")
		}
		if !strings.Contains(err.Error(), "no decoder") {
			t.Errorf("Expected no-decoder error, got %q", err.Error())
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := DefaultRegistry().DecodeFile("does-not-exist.wav"); err == nil {
			t.Error("Expected error for missing file")
		}
	})

	t.Run("GarbageWAV", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "garbage.wav")
		if err := os.WriteFile(path, []byte("this is not riff data"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if _, err := DefaultRegistry().DecodeFile(path); err == nil {
			t.Error("Expected error for non-WAV payload")
		}
	})
}
