package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bobbin-robotics/go-bobbin/pkg/emotions"
	"github.com/bobbin-robotics/go-bobbin/pkg/motion"
	"github.com/bobbin-robotics/go-bobbin/pkg/pose"
)

// fakeController records controller calls and can be scripted to fail.
type fakeController struct {
	mu     sync.Mutex
	calls  []string
	target pose.Pose
	err    error
}

func (f *fakeController) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, call)
	return nil
}

func (f *fakeController) PlayEmotion(name string) error { return f.record("play:" + name) }
func (f *fakeController) StopEmotion() error            { return f.record("stop_emotion") }
func (f *fakeController) StartListening() error         { return f.record("start_listening") }
func (f *fakeController) StopListening() error          { return f.record("stop_listening") }
func (f *fakeController) StartSpeaking() error          { return f.record("start_speaking") }
func (f *fakeController) StopSpeaking() error           { return f.record("stop_speaking") }

func (f *fakeController) SetTarget(p pose.Pose) error {
	f.mu.Lock()
	f.target = p
	f.mu.Unlock()
	return f.record("set_target")
}

func (f *fakeController) SetAmplitude(v float64) {
	f.record(fmt.Sprintf("amplitude:%.2f", v))
}

func (f *fakeController) Snapshot() motion.Snapshot {
	return motion.Snapshot{Mode: "idle", TickCount: 99}
}

func (f *fakeController) lastCall() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

func newTestServer(t *testing.T) (*Server, *fakeController) {
	t.Helper()

	lib := emotions.NewLibrary()
	if err := lib.LoadBuiltIn(); err != nil {
		t.Fatalf("LoadBuiltIn failed: %v", err)
	}

	ctrl := &fakeController{}
	return NewServer("0", ctrl, lib), ctrl
}

func TestHandleStatus(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/status", nil)
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Status = %d, want 200", resp.StatusCode)
	}

	var snap motion.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if snap.Mode != "idle" || snap.TickCount != 99 {
		t.Errorf("Snapshot: got %+v", snap)
	}
}

func TestHandleListEmotions(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/emotions", nil)
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "happy1") {
		t.Error("Response should list happy1")
	}
}

func TestHandlePlayEmotion(t *testing.T) {
	s, ctrl := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/emotions/happy1/play", nil)
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Status = %d, want 200", resp.StatusCode)
	}
	if ctrl.lastCall() != "play:happy1" {
		t.Errorf("Controller call: got %q", ctrl.lastCall())
	}
}

func TestHandlePlayEmotion_NotFound(t *testing.T) {
	s, ctrl := newTestServer(t)
	ctrl.err = fmt.Errorf("wrapped: %w", emotions.ErrNotFound)

	req := httptest.NewRequest("POST", "/api/emotions/unknown/play", nil)
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Status = %d, want 404", resp.StatusCode)
	}
}

func TestHandlePlayEmotion_QueueFull(t *testing.T) {
	s, ctrl := newTestServer(t)
	ctrl.err = motion.ErrQueueFull

	req := httptest.NewRequest("POST", "/api/emotions/happy1/play", nil)
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	if resp.StatusCode != 503 {
		t.Errorf("Status = %d, want 503", resp.StatusCode)
	}
}

func TestHandleSetTarget(t *testing.T) {
	s, ctrl := newTestServer(t)

	body := strings.NewReader(`{"pitch":0.2,"yaw":-0.1,"z":0.01,"antennas":[0.3,-0.3],"body_yaw":1.0}`)
	req := httptest.NewRequest("POST", "/api/target", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Status = %d, want 200", resp.StatusCode)
	}

	want := pose.Pose{Pitch: 0.2, Yaw: -0.1, Z: 0.01, Antennas: [2]float64{0.3, -0.3}, BodyYaw: 1.0}
	ctrl.mu.Lock()
	got := ctrl.target
	ctrl.mu.Unlock()
	if got != want {
		t.Errorf("Target: got %+v, want %+v", got, want)
	}
}

func TestHandleSetTarget_BadBody(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/target", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleListening(t *testing.T) {
	s, ctrl := newTestServer(t)

	for _, tc := range []struct {
		body string
		want string
	}{
		{`{"active":true}`, "start_listening"},
		{`{"active":false}`, "stop_listening"},
	} {
		req := httptest.NewRequest("POST", "/api/listening", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.App().Test(req)
		if err != nil {
			t.Fatalf("Request error: %v", err)
		}
		if resp.StatusCode != 200 {
			t.Fatalf("Status = %d, want 200", resp.StatusCode)
		}
		if ctrl.lastCall() != tc.want {
			t.Errorf("Controller call: got %q, want %q", ctrl.lastCall(), tc.want)
		}
	}
}

func TestHandleSpeaking(t *testing.T) {
	s, ctrl := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/speaking", strings.NewReader(`{"active":true}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Status = %d, want 200", resp.StatusCode)
	}
	if ctrl.lastCall() != "start_speaking" {
		t.Errorf("Controller call: got %q", ctrl.lastCall())
	}
}

func TestHandleAmplitude(t *testing.T) {
	s, ctrl := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/amplitude", strings.NewReader(`{"value":0.55}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Status = %d, want 200", resp.StatusCode)
	}
	if ctrl.lastCall() != "amplitude:0.55" {
		t.Errorf("Controller call: got %q", ctrl.lastCall())
	}
}

func TestHandleSearchEmotions(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/emotions/search?q=happy", nil)
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "happy1") {
		t.Error("Search should match happy1")
	}

	req = httptest.NewRequest("GET", "/api/emotions/search", nil)
	resp, err = s.App().Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Status without q = %d, want 400", resp.StatusCode)
	}
}
