package web

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-avatar/pkg/animator"
	"github.com/teslashibe/go-avatar/pkg/clips"
	"github.com/teslashibe/go-avatar/pkg/hub"
	"github.com/teslashibe/go-avatar/pkg/protocol"
)

// ExpressionRequest is the request body for triggering an expression
type ExpressionRequest struct {
	Clip      string `json:"clip"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds, 0 = now
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"avatars": len(s.snapshots()),
	})
}

// snapshots returns every avatar snapshot sorted by id.
func (s *Server) snapshots() []animator.Snapshot {
	s.avatarsMu.RLock()
	list := make([]Avatar, 0, len(s.avatars))
	for _, a := range s.avatars {
		list = append(list, a)
	}
	s.avatarsMu.RUnlock()

	out := make([]animator.Snapshot, 0, len(list))
	for _, a := range list {
		out = append(out, a.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// handleListAvatars returns every avatar snapshot
func (s *Server) handleListAvatars(c *fiber.Ctx) error {
	avatars := s.snapshots()
	return c.JSON(fiber.Map{
		"avatars": avatars,
		"count":   len(avatars),
	})
}

func avatarNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "avatar not found",
	})
}

// handleGetAvatar returns one avatar snapshot
func (s *Server) handleGetAvatar(c *fiber.Ctx) error {
	a, ok := s.Avatar(c.Params("id"))
	if !ok {
		return avatarNotFound(c)
	}
	return c.JSON(a.Snapshot())
}

// handleExpression triggers an expression clip on an avatar
func (s *Server) handleExpression(c *fiber.Ctx) error {
	a, ok := s.Avatar(c.Params("id"))
	if !ok {
		return avatarNotFound(c)
	}

	var req ExpressionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Clip == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "clip is required"})
	}

	ts, triggered := s.trigger(a, req.Clip, req.Timestamp)
	return c.JSON(fiber.Map{
		"avatar":    a.ID(),
		"clip":      req.Clip,
		"timestamp": ts,
		"triggered": triggered,
	})
}

// handleEquip registers a catalog clip on an avatar
func (s *Server) handleEquip(c *fiber.Ctx) error {
	a, ok := s.Avatar(c.Params("id"))
	if !ok {
		return avatarNotFound(c)
	}

	name := c.Params("clip")
	if err := s.equip(a, name); err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, clips.ErrNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "equipped", "clip": name})
}

// handleUnequip removes a clip from an avatar
func (s *Server) handleUnequip(c *fiber.Ctx) error {
	a, ok := s.Avatar(c.Params("id"))
	if !ok {
		return avatarNotFound(c)
	}

	name := c.Params("clip")
	if err := s.unequip(a, name); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "unequipped", "clip": name})
}

// handleListEmotes returns the emote catalog
func (s *Server) handleListEmotes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"emotes":     s.catalog.List(),
		"categories": s.catalog.Categories(),
		"count":      s.catalog.Count(),
	})
}

// handleSearchEmotes searches the catalog by name and description
func (s *Server) handleSearchEmotes(c *fiber.Ctx) error {
	q := c.Query("q")
	results := s.catalog.Search(q)
	if results == nil {
		results = []string{}
	}
	return c.JSON(fiber.Map{
		"query":   q,
		"results": results,
	})
}

// handleGetLogs returns recent log entries
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(s.logs)
}

// trigger plays an expression, defaulting the timestamp to now.
func (s *Server) trigger(a Avatar, clip string, ts int64) (int64, bool) {
	if ts == 0 {
		ts = s.now().UnixMilli()
	}
	triggered := a.PlayEmote(clip, ts)
	if triggered {
		s.AddLog("expression", fmt.Sprintf("%s plays %s", a.ID(), clip))
	}
	return ts, triggered
}

func (s *Server) equip(a Avatar, name string) error {
	clip, err := s.catalog.Get(name)
	if err != nil {
		return err
	}
	if err := a.EquipEmote(clip.Name, clip); err != nil {
		s.AddLog("error", fmt.Sprintf("equip %s on %s: %v", name, a.ID(), err))
		return err
	}
	s.AddLog("emote", fmt.Sprintf("%s equipped %s", a.ID(), name))
	return nil
}

func (s *Server) unequip(a Avatar, name string) error {
	if err := a.UnequipEmote(name); err != nil {
		return err
	}
	s.AddLog("emote", fmt.Sprintf("%s unequipped %s", a.ID(), name))
	return nil
}

// handleStatusWS streams state transitions. New clients first receive a
// snapshot of every avatar.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	client := hub.NewClient(s.statusHub, c)

	if msg, err := protocol.NewAvatarsMessage(s.snapshots()); err == nil {
		if data, err := msg.Bytes(); err == nil {
			c.WriteMessage(websocket.TextMessage, data)
		}
	}

	client.Run()
}

// handleLogsWS streams dashboard log entries, starting with the backlog.
func (s *Server) handleLogsWS(c *websocket.Conn) {
	client := hub.NewClient(s.logHub, c)

	s.logsMu.RLock()
	for _, entry := range s.logs {
		c.WriteJSON(entry)
	}
	s.logsMu.RUnlock()

	client.Run()
}
