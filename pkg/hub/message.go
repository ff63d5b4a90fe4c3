// Package hub provides a thread-safe websocket broadcast hub
// using the idiomatic Go channel-based fan-out pattern.
package hub

import "github.com/teslashibe/go-avatar/pkg/protocol"

// Message is a pre-encoded JSON text frame to be broadcast to clients
type Message struct {
	Data []byte
}

// NewJSONMessage creates a message from pre-encoded bytes
func NewJSONMessage(data []byte) Message {
	return Message{Data: data}
}

// NewProtocolMessage encodes a protocol message for broadcast
func NewProtocolMessage(msg *protocol.Message) (Message, error) {
	data, err := msg.Bytes()
	if err != nil {
		return Message{}, err
	}
	return NewJSONMessage(data), nil
}
