package protocol

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewStateMessage creates a telemetry state message
func NewStateMessage(state StateData) (*Message, error) {
	return NewMessage(TypeState, state)
}

// NewEmotionMessage creates an emotion command message
func NewEmotionMessage(name string) (*Message, error) {
	return NewMessage(TypeEmotion, EmotionCommand{Name: name})
}

// NewStopEmotionMessage creates a command that aborts the current clip
func NewStopEmotionMessage() (*Message, error) {
	return NewMessage(TypeEmotion, EmotionCommand{Stop: true})
}

// NewListeningMessage creates a listening mode toggle
func NewListeningMessage(active bool) (*Message, error) {
	return NewMessage(TypeListening, ListeningCommand{Active: active})
}

// NewSpeakingMessage creates a speaking mode toggle
func NewSpeakingMessage(active bool) (*Message, error) {
	return NewMessage(TypeSpeaking, SpeakingCommand{Active: active})
}

// NewTargetMessage creates a base pose update message
func NewTargetMessage(head HeadTarget, antennas [2]float64, bodyYaw float64) (*Message, error) {
	return NewMessage(TypeTarget, TargetCommand{
		Head:     head,
		Antennas: antennas,
		BodyYaw:  bodyYaw,
	})
}

// NewAmplitudeMessage creates a speech amplitude sample message
func NewAmplitudeMessage(value float64) (*Message, error) {
	return NewMessage(TypeAmplitude, AmplitudeData{Value: value})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{ID: id})
}

// NewPongMessage creates a pong response message
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

// GetStateData extracts state data from a message
func (m *Message) GetStateData() (*StateData, error) {
	var data StateData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetEmotionCommand extracts an emotion command from a message
func (m *Message) GetEmotionCommand() (*EmotionCommand, error) {
	var data EmotionCommand
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetListeningCommand extracts a listening toggle from a message
func (m *Message) GetListeningCommand() (*ListeningCommand, error) {
	var data ListeningCommand
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetSpeakingCommand extracts a speaking toggle from a message
func (m *Message) GetSpeakingCommand() (*SpeakingCommand, error) {
	var data SpeakingCommand
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetTargetCommand extracts a base pose update from a message
func (m *Message) GetTargetCommand() (*TargetCommand, error) {
	var data TargetCommand
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetAmplitudeData extracts an amplitude sample from a message
func (m *Message) GetAmplitudeData() (*AmplitudeData, error) {
	var data AmplitudeData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) {
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a message
func (m *Message) GetPongData() (*PongData, error) {
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
