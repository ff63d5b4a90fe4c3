package protocol

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewTransitionMessage creates a state transition message
func NewTransitionMessage(avatar, from, to string) (*Message, error) {
	return NewMessage(TypeTransition, TransitionData{
		Avatar: avatar,
		From:   from,
		To:     to,
	})
}

// NewAvatarsMessage creates a message carrying avatar snapshots
func NewAvatarsMessage(avatars interface{}) (*Message, error) {
	return NewMessage(TypeAvatars, avatars)
}

// NewResultMessage creates a command result message
func NewResultMessage(command MessageType, clip string, err error) (*Message, error) {
	data := ResultData{Command: command, Clip: clip, OK: err == nil}
	if err != nil {
		data.Error = err.Error()
	}
	return NewMessage(TypeResult, data)
}

// NewExpressionMessage creates an expression trigger message
func NewExpressionMessage(clip string, timestamp int64) (*Message, error) {
	return NewMessage(TypeExpression, ExpressionCommand{
		Clip:      clip,
		Timestamp: timestamp,
	})
}

// NewEquipMessage creates an equip message
func NewEquipMessage(clip string) (*Message, error) {
	return NewMessage(TypeEquip, EmoteCommand{Clip: clip})
}

// NewUnequipMessage creates an unequip message
func NewUnequipMessage(clip string) (*Message, error) {
	return NewMessage(TypeUnequip, EmoteCommand{Clip: clip})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{
		ID:        id,
		Timestamp: 0, // Will be set by NewMessage
	})
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

// GetTransitionData extracts transition data from a message
func (m *Message) GetTransitionData() (*TransitionData, error) {
	var data TransitionData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetResultData extracts a command result from a message
func (m *Message) GetResultData() (*ResultData, error) {
	var data ResultData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetExpressionCommand extracts an expression trigger from a message
func (m *Message) GetExpressionCommand() (*ExpressionCommand, error) {
	var data ExpressionCommand
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetEmoteCommand extracts an equip or unequip command from a message
func (m *Message) GetEmoteCommand() (*EmoteCommand, error) {
	var data EmoteCommand
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
