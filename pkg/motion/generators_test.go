package motion

import (
	"math"
	"testing"
	"time"
)

func TestBreathing_Offset(t *testing.T) {
	b := NewBreathing(DefaultConfig())

	// Quarter period of the 0.3 Hz cycle puts the pitch sine at its peak.
	period := float64(time.Second) / 0.3
	quarter := time.Duration(period / 4)
	p := b.Offset(quarter, 1.0)

	if math.Abs(p.Pitch-0.02) > 1e-6 {
		t.Errorf("Pitch at quarter period: got %f, want 0.02", p.Pitch)
	}
	if p.Antennas[0] != -p.Antennas[1] {
		t.Errorf("Antennas not opposed: %f vs %f", p.Antennas[0], p.Antennas[1])
	}
}

func TestBreathing_ZeroAtStart(t *testing.T) {
	b := NewBreathing(DefaultConfig())
	p := b.Offset(0, 1.0)

	if p.Pitch != 0 || p.Roll != 0 || p.Antennas[0] != 0 {
		t.Errorf("Expected zero offset at t=0, got %+v", p)
	}
}

func TestBreathing_ResidualScale(t *testing.T) {
	b := NewBreathing(DefaultConfig())

	full := b.Offset(time.Second, 1.0)
	residual := b.Offset(time.Second, 0.3)

	if math.Abs(residual.Pitch-full.Pitch*0.3) > 1e-12 {
		t.Errorf("Residual pitch: got %f, want %f", residual.Pitch, full.Pitch*0.3)
	}
}

func TestAmplitudeSlot_LastWriteWins(t *testing.T) {
	slot := &AmplitudeSlot{}
	slot.Set(0.2)
	slot.Set(0.5)

	got := slot.At(time.Now(), 400*time.Millisecond)
	if math.Abs(got-0.5) > 0.01 {
		t.Errorf("Amplitude: got %f, want ~0.5", got)
	}
}

func TestAmplitudeSlot_StaleDecay(t *testing.T) {
	slot := &AmplitudeSlot{}
	base := time.Unix(1700000000, 0)
	staleAfter := 400 * time.Millisecond

	slot.value = 0.6
	slot.updatedAt = base

	if got := slot.At(base, staleAfter); got != 0.6 {
		t.Errorf("Fresh sample: got %f, want 0.6", got)
	}

	// Halfway to staleness the amplitude has decayed halfway to zero.
	half := slot.At(base.Add(200*time.Millisecond), staleAfter)
	if math.Abs(half-0.3) > 1e-9 {
		t.Errorf("Half-stale sample: got %f, want 0.3", half)
	}

	if got := slot.At(base.Add(staleAfter), staleAfter); got != 0 {
		t.Errorf("Stale sample: got %f, want 0", got)
	}
	if got := slot.At(base.Add(time.Hour), staleAfter); got != 0 {
		t.Errorf("Long-stale sample: got %f, want 0", got)
	}
}

func TestAmplitudeSlot_NoSampleIsZero(t *testing.T) {
	slot := &AmplitudeSlot{}
	if got := slot.At(time.Now(), 400*time.Millisecond); got != 0 {
		t.Errorf("Unset slot: got %f, want 0", got)
	}
}

func TestSway_GainMonotonic(t *testing.T) {
	s := NewSway(DefaultSwayConfig(), &AmplitudeSlot{})

	prev := -1.0
	for amp := 0.0; amp <= 1.0; amp += 0.05 {
		g := s.gain(amp)
		if g < prev {
			t.Fatalf("Gain not monotonic at amp=%f: %f < %f", amp, g, prev)
		}
		if g < 0 || g > 1 {
			t.Fatalf("Gain out of range at amp=%f: %f", amp, g)
		}
		prev = g
	}

	if g := s.gain(0.01); g != 0 {
		t.Errorf("Gain below floor: got %f, want 0", g)
	}
	if g := s.gain(0.9); g != 1 {
		t.Errorf("Gain above ceiling: got %f, want 1", g)
	}
}

func TestSway_SilenceIsStill(t *testing.T) {
	slot := &AmplitudeSlot{}
	s := NewSway(DefaultSwayConfig(), slot)

	p := s.Offset(time.Now(), 3*time.Second)
	if p.Roll != 0 || p.Pitch != 0 {
		t.Errorf("Expected zero sway without amplitude, got %+v", p)
	}
}

func TestSway_StalledProducerDecaysToZero(t *testing.T) {
	slot := &AmplitudeSlot{}
	cfg := DefaultSwayConfig()
	s := NewSway(cfg, slot)

	base := time.Unix(1700000000, 0)
	slot.value = 0.6
	slot.updatedAt = base

	// Pick an elapsed time where both oscillators are away from their zero
	// crossings so a nonzero gain is visible.
	fresh := s.Offset(base, 100*time.Millisecond)
	if fresh.Roll == 0 && fresh.Pitch == 0 {
		t.Fatal("Expected nonzero sway at full amplitude")
	}

	stale := s.Offset(base.Add(cfg.StaleAfter), 100*time.Millisecond)
	if stale.Roll != 0 || stale.Pitch != 0 {
		t.Errorf("Expected zero sway after amplitude staleness, got %+v", stale)
	}
}

func TestAntennaBlender_FreezeHolds(t *testing.T) {
	a := newAntennaBlender(600 * time.Millisecond)
	now := time.Unix(1700000000, 0)

	a.Freeze([2]float64{0.3, -0.3})

	got := a.Apply(now, [2]float64{0.9, 0.9})
	if got != [2]float64{0.3, -0.3} {
		t.Errorf("Frozen antennas: got %v, want [0.3 -0.3]", got)
	}
}

func TestAntennaBlender_ReleaseBlends(t *testing.T) {
	blend := 600 * time.Millisecond
	a := newAntennaBlender(blend)
	now := time.Unix(1700000000, 0)

	a.Freeze([2]float64{0.0, 0.0})
	a.Release(now)

	gen := [2]float64{1.0, -1.0}

	// Midway: smoothstep(0.5) = 0.5, so exactly halfway between frozen and
	// generated.
	mid := a.Apply(now.Add(blend/2), gen)
	if math.Abs(mid[0]-0.5) > 1e-9 || math.Abs(mid[1]+0.5) > 1e-9 {
		t.Errorf("Midway blend: got %v, want [0.5 -0.5]", mid)
	}

	// Past the blend window the generated values pass through unchanged.
	done := a.Apply(now.Add(blend+time.Millisecond), gen)
	if done != gen {
		t.Errorf("After blend: got %v, want %v", done, gen)
	}
	if a.blending {
		t.Error("Blender still marked blending after completion")
	}
}

func TestAntennaBlender_ReleaseWithoutFreeze(t *testing.T) {
	a := newAntennaBlender(600 * time.Millisecond)
	now := time.Unix(1700000000, 0)

	a.Release(now)

	gen := [2]float64{0.4, 0.4}
	if got := a.Apply(now, gen); got != gen {
		t.Errorf("Pass-through: got %v, want %v", got, gen)
	}
}
