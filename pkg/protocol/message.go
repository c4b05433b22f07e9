// Package protocol defines the WebSocket message types exchanged between a
// Bobbin unit and its remote conductor. Both ends of the bridge share this
// package.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Robot → Conductor messages
	TypeState MessageType = "state" // Movement manager telemetry

	// Conductor → Robot messages
	TypeEmotion   MessageType = "emotion"   // Play or stop an emotion clip
	TypeListening MessageType = "listening" // Enter/leave listening mode
	TypeSpeaking  MessageType = "speaking"  // Enter/leave speaking mode
	TypeTarget    MessageType = "target"    // Base pose update
	TypeAmplitude MessageType = "amplitude" // Speech amplitude sample

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// =============================================================================
// Robot → Conductor Message Types
// =============================================================================

// StateData mirrors the movement manager's telemetry snapshot.
type StateData struct {
	Mode                string `json:"mode"`
	Emotion             string `json:"emotion,omitempty"`
	Connected           bool   `json:"connected"`
	ConsecutiveFailures int    `json:"consecutive_failures,omitempty"`
	TickCount           uint64 `json:"tick_count"`
	SkippedTicks        uint64 `json:"skipped_ticks"`
	SendErrors          uint64 `json:"send_errors"`
	DroppedCommands     uint64 `json:"dropped_commands"`
}

// =============================================================================
// Conductor → Robot Message Types
// =============================================================================

// EmotionCommand triggers or stops an emotion animation
type EmotionCommand struct {
	Name string `json:"name"`           // "happy1", "sad1", etc.
	Stop bool   `json:"stop,omitempty"` // Abort the current clip instead
}

// ListeningCommand toggles listening mode
type ListeningCommand struct {
	Active bool `json:"active"`
}

// SpeakingCommand toggles speaking mode
type SpeakingCommand struct {
	Active bool `json:"active"`
}

// TargetCommand updates the base pose
type TargetCommand struct {
	Head     HeadTarget `json:"head"`
	Antennas [2]float64 `json:"antennas"` // [left, right]
	BodyYaw  float64    `json:"body_yaw"`
}

// HeadTarget specifies head position
type HeadTarget struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// AmplitudeData carries one speech amplitude sample
type AmplitudeData struct {
	Value float64 `json:"value"` // 0.0 to 1.0
}

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// PingData contains ping information
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
