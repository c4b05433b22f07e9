package emotions

import (
	"math"
	"testing"
)

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func TestListEmbedded(t *testing.T) {
	names, err := ListEmbedded()
	if err != nil {
		t.Fatalf("ListEmbedded failed: %v", err)
	}

	if len(names) == 0 {
		t.Fatal("Expected embedded emotions")
	}

	found := make(map[string]bool)
	for _, name := range names {
		found[name] = true
	}

	for _, e := range []string{"happy1", "sad1", "nod1", "surprised1"} {
		if !found[e] {
			t.Errorf("Expected embedded emotion %q", e)
		}
	}
}

func TestLoadEmbedded(t *testing.T) {
	emotion, err := LoadEmbedded("happy1")
	if err != nil {
		t.Fatalf("LoadEmbedded(happy1) failed: %v", err)
	}

	if emotion.Name != "happy1" {
		t.Errorf("Expected name 'happy1', got %q", emotion.Name)
	}

	if emotion.Description == "" {
		t.Error("Expected non-empty description")
	}

	if abs(emotion.Duration.Seconds()-2.0) > 0.001 {
		t.Errorf("Expected 2.0s duration, got %v", emotion.Duration)
	}

	if len(emotion.Keyframes) != 5 {
		t.Errorf("Expected 5 keyframes, got %d", len(emotion.Keyframes))
	}
}

func TestLoadEmbedded_NotFound(t *testing.T) {
	_, err := LoadEmbedded("nonexistent_emotion_12345")
	if err == nil {
		t.Error("Expected error for nonexistent emotion")
	}
}

func TestInterpolateKeyframes(t *testing.T) {
	kf1 := Keyframe{
		Head:     [4][4]float64{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}},
		Antennas: [2]float64{0, 0},
		BodyYaw:  0,
	}

	kf2 := Keyframe{
		Head:     [4][4]float64{{1, 0, 0, 0.1}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}},
		Antennas: [2]float64{1.0, 1.0},
		BodyYaw:  0.5,
	}

	mid := InterpolateKeyframes(kf1, kf2, 0.5)

	if abs(mid.Antennas[0]-0.5) > 0.001 {
		t.Errorf("Expected antenna[0]=0.5, got %f", mid.Antennas[0])
	}

	if abs(mid.BodyYaw-0.25) > 0.001 {
		t.Errorf("Expected bodyYaw=0.25, got %f", mid.BodyYaw)
	}

	if abs(mid.Head[0][3]-0.05) > 0.001 {
		t.Errorf("Expected tx=0.05, got %f", mid.Head[0][3])
	}
}

func TestInterpolateMatrix_StaysOrthonormal(t *testing.T) {
	a := [4][4]float64{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
	// Rotation about x by 0.2 rad
	b := [4][4]float64{
		{1, 0, 0, 0},
		{0, 0.980067, -0.198669, 0},
		{0, 0.198669, 0.980067, 0},
		{0, 0, 0, 1},
	}

	for _, alpha := range []float64{0, 0.25, 0.5, 0.75, 1.0} {
		m := InterpolateMatrix(a, b, alpha)
		for col := 0; col < 3; col++ {
			mag := math.Sqrt(m[0][col]*m[0][col] + m[1][col]*m[1][col] + m[2][col]*m[2][col])
			if abs(mag-1.0) > 1e-9 {
				t.Errorf("alpha=%v col=%d: magnitude %v, want 1", alpha, col, mag)
			}
		}
	}
}

func TestEmotion_At(t *testing.T) {
	emotion, err := LoadEmbedded("happy1")
	if err != nil {
		t.Fatalf("Failed to load emotion: %v", err)
	}

	// Exactly on a keyframe
	kf := emotion.At(0.5)
	if abs(kf.Antennas[0]-0.5) > 0.001 {
		t.Errorf("At(0.5) antennas: got %v, want 0.5", kf.Antennas[0])
	}

	// Midway between keyframes 0 and 1
	kf = emotion.At(0.25)
	if abs(kf.Antennas[0]-0.25) > 0.001 {
		t.Errorf("At(0.25) antennas: got %v, want 0.25", kf.Antennas[0])
	}

	// Beyond the clip clamps to the last frame
	kf = emotion.At(99)
	if abs(kf.Antennas[0]) > 0.001 {
		t.Errorf("At(99) antennas: got %v, want 0", kf.Antennas[0])
	}

	// Same t twice yields the same result
	a := emotion.At(0.7)
	b := emotion.At(0.7)
	if a != b {
		t.Error("At is not deterministic for the same t")
	}
}

func TestLibrary(t *testing.T) {
	lib := NewLibrary()

	if err := lib.LoadBuiltIn(); err != nil {
		t.Fatalf("LoadBuiltIn failed: %v", err)
	}

	if lib.Count() == 0 {
		t.Fatal("Expected emotions after LoadBuiltIn")
	}

	emotion, err := lib.Get("happy1")
	if err != nil {
		t.Errorf("Get(happy1) failed: %v", err)
	}
	if emotion == nil {
		t.Error("Expected non-nil emotion")
	}

	names := lib.List()
	if len(names) != lib.Count() {
		t.Errorf("List length %d != Count %d", len(names), lib.Count())
	}

	cats := lib.Categories()
	if len(cats["happy"]) == 0 {
		t.Error("Expected 'happy' category")
	}

	matches := lib.Search("nod")
	if len(matches) == 0 {
		t.Error("Expected matches for 'nod'")
	}
}

func TestLibrary_GetNotFound(t *testing.T) {
	lib := NewLibrary()

	_, err := lib.Get("missing")
	if err == nil {
		t.Fatal("Expected error")
	}
}
