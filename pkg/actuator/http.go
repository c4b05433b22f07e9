package actuator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/bobbin-robotics/go-bobbin/internal/httpc"
	"github.com/bobbin-robotics/go-bobbin/pkg/pose"
)

// HTTPActuator drives the robot over its daemon's HTTP API.
// The underlying client carries a short timeout so a wedged daemon shows up
// as a send failure instead of a stalled control loop.
type HTTPActuator struct {
	baseURL   string
	client    *http.Client
	connected atomic.Bool
}

// NewHTTPActuator creates an actuator against the robot daemon at baseURL.
func NewHTTPActuator(baseURL string, timeout time.Duration) *HTTPActuator {
	return &HTTPActuator{
		baseURL: baseURL,
		client:  httpc.NewClient(timeout),
	}
}

// movePayload is the daemon's batched move request. One call updates head,
// antennas, and body together, which keeps the daemon's request rate at one
// per tick.
type movePayload struct {
	Head     headTarget `json:"target_head_pose"`
	Antennas [2]float64 `json:"target_antennas"`
	BodyYaw  float64    `json:"target_body_yaw"`
}

type headTarget struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
}

// SendPose transmits a batched pose command to the robot daemon.
func (a *HTTPActuator) SendPose(ctx context.Context, p pose.Pose) error {
	payload := movePayload{
		Head: headTarget{
			Roll:  p.Roll,
			Pitch: p.Pitch,
			Yaw:   p.Yaw,
			X:     p.X,
			Y:     p.Y,
			Z:     p.Z,
		},
		Antennas: p.Antennas,
		BodyYaw:  p.BodyYaw,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal move payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/move", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build move request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.connected.Store(false)
		return fmt.Errorf("move request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.connected.Store(false)
		return fmt.Errorf("move request rejected: status %d", resp.StatusCode)
	}

	a.connected.Store(true)
	return nil
}

// IsConnected reports the last known link state. Purely a cached read.
func (a *HTTPActuator) IsConnected() bool {
	return a.connected.Load()
}

// Reconnect probes the daemon status endpoint to re-establish the link.
func (a *HTTPActuator) Reconnect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/daemon/status", nil)
	if err != nil {
		return fmt.Errorf("failed to build status request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.connected.Store(false)
		return fmt.Errorf("daemon status request failed: %w", err)
	}
	defer resp.Body.Close()

	var status struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		a.connected.Store(false)
		return fmt.Errorf("failed to decode daemon status: %w", err)
	}

	if status.State != "running" {
		a.connected.Store(false)
		return fmt.Errorf("daemon not ready: state %q", status.State)
	}

	a.connected.Store(true)
	return nil
}
