// Package protocol defines the WebSocket message types exchanged between the
// avatar simulator and its dashboard or emote clients.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Server → client messages
	TypeTransition MessageType = "transition" // Controller state change
	TypeAvatars    MessageType = "avatars"    // Snapshot of every avatar
	TypeResult     MessageType = "result"     // Outcome of a client command

	// Client → server messages
	TypeExpression MessageType = "expression" // Trigger an expression clip
	TypeEquip      MessageType = "equip"      // Register an emote from the catalog
	TypeUnequip    MessageType = "unequip"    // Remove an emote

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
// Server → Client Message Types
// =============================================================================

// TransitionData reports a controller state change
type TransitionData struct {
	Avatar string `json:"avatar"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// ResultData reports the outcome of a client command
type ResultData struct {
	Command MessageType `json:"command"`
	Clip    string      `json:"clip,omitempty"`
	OK      bool        `json:"ok"`
	Error   string      `json:"error,omitempty"`
}

// =============================================================================
// Client → Server Message Types
// =============================================================================

// ExpressionCommand triggers an expression clip. A zero timestamp is
// replaced by the receive time.
type ExpressionCommand struct {
	Clip      string `json:"clip"`
	Timestamp int64  `json:"timestamp,omitempty"` // Unix milliseconds
}

// EmoteCommand names a catalog clip to equip or unequip
type EmoteCommand struct {
	Clip string `json:"clip"`
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
