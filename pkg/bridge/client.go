// Package bridge maintains the outbound WebSocket link from a Bobbin unit to
// its remote conductor. Inbound messages become movement manager commands;
// telemetry flows back on a fixed interval.
package bridge

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bobbin-robotics/go-bobbin/internal/log"
	"github.com/bobbin-robotics/go-bobbin/pkg/motion"
	"github.com/bobbin-robotics/go-bobbin/pkg/pose"
	"github.com/bobbin-robotics/go-bobbin/pkg/protocol"
)

const (
	handshakeTimeout = 10 * time.Second
	writeWait        = 10 * time.Second
	stateInterval    = time.Second

	backoffStart = 500 * time.Millisecond
	backoffMax   = 8 * time.Second
)

// Controller is the slice of the movement manager the bridge drives.
type Controller interface {
	PlayEmotion(name string) error
	StopEmotion() error
	StartListening() error
	StopListening() error
	StartSpeaking() error
	StopSpeaking() error
	SetTarget(p pose.Pose) error
	SetAmplitude(v float64)
	Snapshot() motion.Snapshot
}

// Client is the robot side of the conductor link. It dials out, feeds
// inbound commands to the controller, and republishes telemetry. A dropped
// connection is redialed with exponential backoff.
type Client struct {
	url        string
	controller Controller

	// mu guards writes; reads happen only on the read loop goroutine.
	mu   sync.Mutex
	conn *websocket.Conn

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a bridge client for the given conductor URL.
func New(url string, controller Controller) *Client {
	return &Client{
		url:        url,
		controller: controller,
		stop:       make(chan struct{}),
	}
}

// Run dials the conductor and services the connection until Close is called.
// Each disconnect is followed by a backoff redial, so the bridge survives
// conductor restarts without operator action.
func (c *Client) Run() {
	delay := backoffStart

	for {
		select {
		case <-c.stop:
			return
		default:
		}

		dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
		conn, _, err := dialer.Dial(c.url, nil)
		if err != nil {
			log.Warn("conductor dial failed", "url", c.url, "error", err, "retry_in", delay)
			select {
			case <-c.stop:
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > backoffMax {
				delay = backoffMax
			}
			continue
		}

		log.Info("conductor connected", "url", c.url)
		delay = backoffStart

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()

		connDone := make(chan struct{})
		go c.statePump(conn, connDone)

		c.readLoop(conn)

		close(connDone)
		conn.Close()

		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()

		log.Warn("conductor connection lost", "url", c.url)
	}
}

// Close stops the bridge and drops any open connection.
func (c *Client) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)

		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
		}
		c.mu.Unlock()
	})
}

// readLoop consumes inbound messages until the connection fails.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			log.Warn("unparseable conductor message", "error", err)
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage translates one conductor message into controller calls.
// Enqueue failures are logged and dropped; the conductor sees the effect in
// the next state message.
func (c *Client) handleMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeEmotion:
		cmd, err := msg.GetEmotionCommand()
		if err != nil {
			log.Warn("bad emotion command", "error", err)
			return
		}
		if cmd.Stop {
			if err := c.controller.StopEmotion(); err != nil {
				log.Warn("stop emotion rejected", "error", err)
			}
			return
		}
		if err := c.controller.PlayEmotion(cmd.Name); err != nil {
			log.Warn("emotion rejected", "emotion", cmd.Name, "error", err)
		}

	case protocol.TypeListening:
		cmd, err := msg.GetListeningCommand()
		if err != nil {
			log.Warn("bad listening command", "error", err)
			return
		}
		var cErr error
		if cmd.Active {
			cErr = c.controller.StartListening()
		} else {
			cErr = c.controller.StopListening()
		}
		if cErr != nil {
			log.Warn("listening toggle rejected", "active", cmd.Active, "error", cErr)
		}

	case protocol.TypeSpeaking:
		cmd, err := msg.GetSpeakingCommand()
		if err != nil {
			log.Warn("bad speaking command", "error", err)
			return
		}
		var cErr error
		if cmd.Active {
			cErr = c.controller.StartSpeaking()
		} else {
			cErr = c.controller.StopSpeaking()
		}
		if cErr != nil {
			log.Warn("speaking toggle rejected", "active", cmd.Active, "error", cErr)
		}

	case protocol.TypeTarget:
		cmd, err := msg.GetTargetCommand()
		if err != nil {
			log.Warn("bad target command", "error", err)
			return
		}
		if err := c.controller.SetTarget(targetToPose(cmd)); err != nil {
			log.Warn("target rejected", "error", err)
		}

	case protocol.TypeAmplitude:
		data, err := msg.GetAmplitudeData()
		if err != nil {
			log.Warn("bad amplitude sample", "error", err)
			return
		}
		c.controller.SetAmplitude(data.Value)

	case protocol.TypePing:
		ping, err := msg.GetPingData()
		if err != nil {
			return
		}
		pong, err := protocol.NewPongMessage(ping.ID, msg.Timestamp, time.Now().UnixMilli())
		if err != nil {
			return
		}
		if err := c.send(pong); err != nil {
			log.Debug("pong send failed", "error", err)
		}

	default:
		log.Debug("ignoring conductor message", "type", string(msg.Type))
	}
}

// statePump publishes telemetry once a second until the connection ends.
func (c *Client) statePump(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(stateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.stop:
			return
		case <-ticker.C:
			msg, err := protocol.NewStateMessage(snapshotToState(c.controller.Snapshot()))
			if err != nil {
				continue
			}
			if err := c.send(msg); err != nil {
				return
			}
		}
	}
}

// send writes one message under the write lock.
func (c *Client) send(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return websocket.ErrCloseSent
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func targetToPose(cmd *protocol.TargetCommand) pose.Pose {
	return pose.Pose{
		Roll:     cmd.Head.Roll,
		Pitch:    cmd.Head.Pitch,
		Yaw:      cmd.Head.Yaw,
		X:        cmd.Head.X,
		Y:        cmd.Head.Y,
		Z:        cmd.Head.Z,
		Antennas: cmd.Antennas,
		BodyYaw:  cmd.BodyYaw,
	}
}

func snapshotToState(s motion.Snapshot) protocol.StateData {
	return protocol.StateData{
		Mode:                s.Mode,
		Emotion:             s.Emotion,
		Connected:           s.Connection.Connected,
		ConsecutiveFailures: s.Connection.ConsecutiveFailures,
		TickCount:           s.TickCount,
		SkippedTicks:        s.SkippedTicks,
		SendErrors:          s.SendErrors,
		DroppedCommands:     s.DroppedCommands,
	}
}
