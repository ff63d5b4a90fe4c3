package web

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/teslashibe/go-avatar/internal/log"
	"github.com/teslashibe/go-avatar/pkg/protocol"
)

var (
	errNotTriggered = errors.New("expression ignored")
	errUnknownType  = errors.New("unknown message type")
)

// handleEmoteWS serves an emote client bound to one avatar. Every command
// is answered with a result message.
func (s *Server) handleEmoteWS(c *websocket.Conn) {
	id := c.Params("id")
	l := log.With("avatar", id, "remote", c.RemoteAddr().String())

	a, ok := s.Avatar(id)
	if !ok {
		reply(c, protocol.TypeResult, "", fmt.Errorf("avatar %s not found", id))
		c.Close()
		return
	}

	l.Info("emote client connected")
	defer l.Info("emote client disconnected")

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			l.Warn("bad emote message", "error", err)
			reply(c, protocol.TypeResult, "", err)
			continue
		}

		switch msg.Type {
		case protocol.TypeExpression:
			cmd, err := msg.GetExpressionCommand()
			if err != nil {
				reply(c, msg.Type, "", err)
				continue
			}
			var result error
			if _, triggered := s.trigger(a, cmd.Clip, cmd.Timestamp); !triggered {
				result = errNotTriggered
			}
			reply(c, msg.Type, cmd.Clip, result)

		case protocol.TypeEquip, protocol.TypeUnequip:
			cmd, err := msg.GetEmoteCommand()
			if err != nil {
				reply(c, msg.Type, "", err)
				continue
			}
			if msg.Type == protocol.TypeEquip {
				err = s.equip(a, cmd.Clip)
			} else {
				err = s.unequip(a, cmd.Clip)
			}
			reply(c, msg.Type, cmd.Clip, err)

		case protocol.TypePing:
			ping, _ := msg.GetPingData()
			pingID := ""
			if ping != nil {
				pingID = ping.ID
			}
			pong, err := protocol.NewPongMessage(pingID, msg.Timestamp, time.Now().UnixMilli())
			if err == nil {
				send(c, pong)
			}

		default:
			reply(c, msg.Type, "", errUnknownType)
		}
	}
}

func reply(c *websocket.Conn, command protocol.MessageType, clip string, err error) {
	msg, encErr := protocol.NewResultMessage(command, clip, err)
	if encErr != nil {
		return
	}
	send(c, msg)
}

func send(c *websocket.Conn, msg *protocol.Message) {
	data, err := msg.Bytes()
	if err != nil {
		return
	}
	c.WriteMessage(websocket.TextMessage, data)
}
