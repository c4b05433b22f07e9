package actuator

import (
	"context"
	"sync"

	"github.com/bobbin-robotics/go-bobbin/pkg/pose"
)

// Mock is a scriptable in-memory actuator for tests.
type Mock struct {
	mu sync.Mutex

	// Sent records every pose accepted by SendPose, in order.
	Sent []pose.Pose

	// FailSends makes SendPose fail with the given error while set.
	FailSends error

	// FailReconnects makes Reconnect fail with the given error while set.
	FailReconnects error

	connected      bool
	sendCalls      int
	reconnectCalls int
}

// NewMock creates a connected mock actuator.
func NewMock() *Mock {
	return &Mock{connected: true}
}

func (m *Mock) SendPose(ctx context.Context, p pose.Pose) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sendCalls++
	if m.FailSends != nil {
		m.connected = false
		return m.FailSends
	}

	m.connected = true
	m.Sent = append(m.Sent, p)
	return nil
}

func (m *Mock) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *Mock) Reconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reconnectCalls++
	if m.FailReconnects != nil {
		m.connected = false
		return m.FailReconnects
	}

	m.connected = true
	return nil
}

// SetFailSends toggles send failures under the mock's lock.
func (m *Mock) SetFailSends(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailSends = err
}

// SetFailReconnects toggles reconnect failures under the mock's lock.
func (m *Mock) SetFailReconnects(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailReconnects = err
}

// LastSent returns the most recently accepted pose.
func (m *Mock) LastSent() (pose.Pose, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Sent) == 0 {
		return pose.Pose{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}

// SendCount returns the number of SendPose calls (including failures).
func (m *Mock) SendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sendCalls
}

// ReconnectCount returns the number of Reconnect calls.
func (m *Mock) ReconnectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reconnectCalls
}

var _ Actuator = (*Mock)(nil)
