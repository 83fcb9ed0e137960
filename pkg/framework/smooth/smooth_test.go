package smooth

import (
	"math"
	"testing"
)

func TestSmoothInitial(t *testing.T) {
	s := New[float32](0.75)

	out := s.Output()
	if out.Status != Inactive {
		t.Errorf("expected Inactive, got %v", out.Status)
	}
	if out.IsSmoothing() {
		t.Error("fresh smoother should not report smoothing")
	}
	if len(out.Values) != MaxBlockSize {
		t.Fatalf("expected %d values, got %d", MaxBlockSize, len(out.Values))
	}
	for i, v := range out.Values {
		if v != 0.75 {
			t.Fatalf("sample %d: expected 0.75, got %f", i, v)
		}
	}
	if s.Dest() != 0.75 {
		t.Errorf("expected dest 0.75, got %f", s.Dest())
	}
	if s.CurrentValue() != 0.75 {
		t.Errorf("expected current 0.75, got %f", s.CurrentValue())
	}
}

func TestSmoothSet(t *testing.T) {
	s := New[float32](0)
	s.SetSpeedMs(44100, 5)
	s.Set(1)

	if s.Status() != Active {
		t.Errorf("expected Active after Set, got %v", s.Status())
	}
	if s.Dest() != 1 {
		t.Errorf("expected dest 1, got %f", s.Dest())
	}

	// Set alone must not advance any sample.
	if got := s.Output().Values[0]; got != 0 {
		t.Errorf("expected output untouched before Process, got %f", got)
	}
}

func TestSmoothRamp(t *testing.T) {
	s := New[float32](0)
	s.SetSpeedMs(44100, 5)
	s.Set(1)
	s.Process(MaxBlockSize)

	// Single-pole ramp: strictly increasing, never overshooting.
	out := s.Output()
	prev := float32(0)
	for i := 0; i < MaxBlockSize; i++ {
		v := out.Values[i]
		if v <= prev {
			t.Fatalf("sample %d: ramp not increasing (%f -> %f)", i, prev, v)
		}
		if v >= 1 {
			t.Fatalf("sample %d: ramp overshot target (%f)", i, v)
		}
		prev = v
	}

	if s.CurrentValue() != out.Values[MaxBlockSize-1] {
		t.Error("current value should carry the last produced sample")
	}
}

func TestSmoothBlockSplitInvariance(t *testing.T) {
	// Processing 20 frames in one call or as 10+10 must produce the same
	// trajectory: the recurrence carries across block boundaries through
	// the last output.
	whole := New[float32](0)
	whole.SetSpeedMs(48000, 5)
	whole.Set(1)
	whole.Process(20)

	split := New[float32](0)
	split.SetSpeedMs(48000, 5)
	split.Set(1)
	split.Process(10)
	firstHalf := make([]float32, 10)
	copy(firstHalf, split.Output().Values[:10])
	split.Process(10)

	for i := 0; i < 10; i++ {
		if whole.Output().Values[i] != firstHalf[i] {
			t.Fatalf("sample %d: split %f, whole %f", i, firstHalf[i], whole.Output().Values[i])
		}
		if whole.Output().Values[10+i] != split.Output().Values[i] {
			t.Fatalf("sample %d: split %f, whole %f", 10+i, split.Output().Values[i], whole.Output().Values[10+i])
		}
	}
}

func TestSmoothSettlesExactly(t *testing.T) {
	s := New[float32](0)
	s.SetSpeedMs(44100, 5)
	s.Set(1)

	sawDeactivating := false
	settled := false
	for i := 0; i < 200; i++ {
		s.Process(MaxBlockSize)
		switch s.UpdateStatus() {
		case Deactivating:
			sawDeactivating = true
		case Inactive:
			settled = true
		}
		if settled {
			break
		}
	}

	if !settled {
		t.Fatal("smoother never settled")
	}
	if !sawDeactivating {
		t.Error("expected a Deactivating block before Inactive")
	}

	// Settling collapses to the exact target, not a close float.
	out := s.Output()
	for i, v := range out.Values {
		if v != 1 {
			t.Fatalf("sample %d: expected exact 1 after settle, got %f", i, v)
		}
	}
	if s.CurrentValue() != 1 {
		t.Errorf("expected current exactly 1, got %f", s.CurrentValue())
	}
}

func TestSmoothInactiveProcessIsNoOp(t *testing.T) {
	s := New[float32](0.5)
	before := make([]float32, MaxBlockSize)
	copy(before, s.Output().Values)

	s.Process(MaxBlockSize)

	for i, v := range s.Output().Values {
		if v != before[i] {
			t.Fatalf("sample %d changed on inactive Process: %f -> %f", i, before[i], v)
		}
	}
}

func TestSmoothProcessClampsToCapacity(t *testing.T) {
	s := New[float32](0)
	s.SetSpeedMs(44100, 5)
	s.Set(1)
	s.Process(4 * MaxBlockSize)

	// Only MaxBlockSize frames advance; the carry-over is the last one.
	if s.CurrentValue() != s.Output().Values[MaxBlockSize-1] {
		t.Error("oversized Process should clamp to the buffer capacity")
	}
}

func TestSmoothResetKeepsCoefficients(t *testing.T) {
	a := New[float32](0)
	a.SetSpeedMs(44100, 5)
	a.Reset(0.25)
	a.Set(1)
	a.Process(16)

	b := New[float32](0.25)
	b.SetSpeedMs(44100, 5)
	b.Set(1)
	b.Process(16)

	for i := 0; i < 16; i++ {
		if a.Output().Values[i] != b.Output().Values[i] {
			t.Fatalf("sample %d: reset smoother diverged (%f vs %f)", i, a.Output().Values[i], b.Output().Values[i])
		}
	}
}

func TestSmoothDefaultCoefficientsAreInstant(t *testing.T) {
	// Before SetSpeedMs the filter is a=1, b=0: the first processed
	// sample lands on the target.
	s := New[float32](0)
	s.Set(3)
	s.Process(1)

	if got := s.Output().Values[0]; got != 3 {
		t.Errorf("expected instant jump to 3, got %f", got)
	}
}

func TestSmoothFloat64(t *testing.T) {
	s := New[float64](100)
	s.SetSpeedMs(48000, 10)
	s.Set(1000)

	for i := 0; i < 400; i++ {
		s.Process(MaxBlockSize)
		if s.UpdateStatus() == Inactive {
			break
		}
	}
	if s.Status() != Inactive {
		t.Fatal("float64 smoother never settled")
	}
	if s.CurrentValue() != 1000 {
		t.Errorf("expected exact 1000, got %f", s.CurrentValue())
	}
}

func TestSmoothEpsilonControlsSettle(t *testing.T) {
	coarse := New[float32](0)
	coarse.SetSpeedMs(44100, 5)
	coarse.Set(1)

	blocks := 0
	for i := 0; i < 200; i++ {
		coarse.Process(MaxBlockSize)
		blocks++
		if coarse.UpdateStatusWithEpsilon(0.01) != Active {
			break
		}
	}

	fine := New[float32](0)
	fine.SetSpeedMs(44100, 5)
	fine.Set(1)

	fineBlocks := 0
	for i := 0; i < 200; i++ {
		fine.Process(MaxBlockSize)
		fineBlocks++
		if fine.UpdateStatusWithEpsilon(0.00001) != Active {
			break
		}
	}

	if blocks >= fineBlocks {
		t.Errorf("coarse epsilon should settle sooner: %d vs %d blocks", blocks, fineBlocks)
	}
}

func TestStatusString(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{Inactive, "Inactive"},
		{Active, "Active"},
		{Deactivating, "Deactivating"},
		{Status(99), "Unknown"},
	}
	for _, c := range cases {
		if got := c.status.String(); got != c.want {
			t.Errorf("Status(%d).String() = %q, want %q", c.status, got, c.want)
		}
	}
}

func TestSmoothProcessAllocFree(t *testing.T) {
	s := New[float32](0)
	s.SetSpeedMs(44100, 5)

	allocs := testing.AllocsPerRun(100, func() {
		s.Set(1)
		s.Process(MaxBlockSize)
		s.UpdateStatus()
		_ = s.Output()
		s.Set(0)
	})
	if allocs != 0 {
		t.Errorf("expected zero allocations on the audio path, got %f", allocs)
	}
}

func TestSmoothTimeConstant(t *testing.T) {
	// After ms milliseconds the ramp should cover ~63% of the distance.
	const rate = 48000
	const ms = 5
	samples := int(math.Round(ms * rate / 1000.0))

	s := New[float64](0)
	s.SetSpeedMs(rate, ms)
	s.Set(1)

	remaining := samples
	for remaining > 0 {
		n := remaining
		if n > MaxBlockSize {
			n = MaxBlockSize
		}
		s.Process(n)
		remaining -= n
	}

	got := s.CurrentValue()
	want := 1 - 1/math.E
	if math.Abs(got-want) > 0.01 {
		t.Errorf("after one time constant expected ~%.3f, got %.3f", want, got)
	}
}

func BenchmarkSmoothProcess(b *testing.B) {
	s := New[float32](0)
	s.SetSpeedMs(48000, 5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Set(float32(i&1) + 1)
		s.Process(MaxBlockSize)
		s.UpdateStatus()
	}
}
