package process

// Transport is a snapshot of the host's musical time at a point in the
// audio stream.
type Transport struct {
	BPM     float64
	Beat    float64
	Playing bool
}

// StepBySamples advances the beat position by nframes of audio, so a
// transport snapshot stays accurate across subblock boundaries. The
// position only moves while the host transport is running.
func (t *Transport) StepBySamples(nframes int, sampleRate float32) {
	if !t.Playing || sampleRate <= 0 {
		return
	}
	t.Beat += float64(nframes) / float64(sampleRate) * t.BPM / 60
}
