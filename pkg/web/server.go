// Package web provides the avatar dashboard: a JSON API to inspect
// controllers and trigger expressions, live state transitions over a
// websocket, and an inbound websocket for emote clients.
package web

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	contribws "github.com/gofiber/contrib/websocket"

	"github.com/teslashibe/go-avatar/internal/log"
	"github.com/teslashibe/go-avatar/pkg/animator"
	"github.com/teslashibe/go-avatar/pkg/clips"
	"github.com/teslashibe/go-avatar/pkg/hub"
	"github.com/teslashibe/go-avatar/pkg/protocol"
)

// Avatar is the part of an animator.Controller the dashboard drives.
type Avatar interface {
	ID() string
	Snapshot() animator.Snapshot
	PlayEmote(id string, timestamp int64) bool
	EquipEmote(id string, clip *clips.Clip) error
	UnequipEmote(id string) error
}

var _ Avatar = (*animator.Controller)(nil)

// LogEntry represents a log line for the dashboard
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // expression, emote, error
	Message string `json:"message"`
}

const maxLogs = 500

// Server is the web dashboard server
type Server struct {
	app     *fiber.App
	port    string
	catalog *clips.Catalog

	avatars   map[string]Avatar
	avatarsMu sync.RWMutex

	// Log buffer (last maxLogs entries)
	logs   []LogEntry
	logsMu sync.RWMutex

	// Hubs for websocket broadcast
	statusHub *hub.Hub
	logHub    *hub.Hub
	hubsOnce  sync.Once

	now func() time.Time
}

// NewServer creates a new web dashboard server. catalog lists the emotes
// that can be equipped.
func NewServer(port string, catalog *clips.Catalog) *Server {
	if catalog == nil {
		catalog = clips.NewCatalog()
	}

	s := &Server{
		port:      port,
		catalog:   catalog,
		avatars:   make(map[string]Avatar),
		logs:      make([]LogEntry, 0, maxLogs),
		statusHub: hub.New("status"),
		logHub:    hub.New("logs"),
		now:       time.Now,
	}

	app := fiber.New(fiber.Config{
		AppName:               "Avatar Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/health", s.handleHealth)

	// API routes
	api := app.Group("/api")
	api.Get("/avatars", s.handleListAvatars)
	api.Get("/avatars/:id", s.handleGetAvatar)
	api.Post("/avatars/:id/expressions", s.handleExpression)
	api.Post("/avatars/:id/emotes/:clip", s.handleEquip)
	api.Delete("/avatars/:id/emotes/:clip", s.handleUnequip)
	api.Get("/emotes", s.handleListEmotes)
	api.Get("/emotes/search", s.handleSearchEmotes)
	api.Get("/logs", s.handleGetLogs)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))
	app.Get("/ws/emote/:id", contribws.New(s.handleEmoteWS))

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the web server on the configured port. Blocks.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", ":"+s.port)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.port, err)
	}
	log.Info("web dashboard listening", "url", "http://localhost:"+s.port)
	return s.Serve(ln)
}

// Serve starts the hubs and serves on ln. Blocks.
func (s *Server) Serve(ln net.Listener) error {
	s.hubsOnce.Do(func() {
		go s.statusHub.Run()
		go s.logHub.Run()
	})
	return s.app.Listener(ln)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()
}

// Shutdown gracefully stops the web server and its hubs
func (s *Server) Shutdown() error {
	s.statusHub.Stop()
	s.logHub.Stop()
	return s.app.Shutdown()
}

// AddAvatar makes a controller visible on the dashboard.
func (s *Server) AddAvatar(a Avatar) {
	s.avatarsMu.Lock()
	defer s.avatarsMu.Unlock()
	s.avatars[a.ID()] = a
}

// RemoveAvatar hides a controller.
func (s *Server) RemoveAvatar(id string) {
	s.avatarsMu.Lock()
	defer s.avatarsMu.Unlock()
	delete(s.avatars, id)
}

// Avatar returns a registered controller.
func (s *Server) Avatar(id string) (Avatar, bool) {
	s.avatarsMu.RLock()
	defer s.avatarsMu.RUnlock()
	a, ok := s.avatars[id]
	return a, ok
}

// PublishTransition broadcasts a controller state change to status clients.
// It never blocks, so it can be used as an animator observer.
func (s *Server) PublishTransition(t animator.Transition) {
	msg, err := protocol.NewTransitionMessage(t.Avatar, t.From.String(), t.To.String())
	if err != nil {
		return
	}
	s.statusHub.BroadcastProtocol(msg)
}

// AddLog adds a log entry and broadcasts to clients
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    s.now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogs {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.logHub.BroadcastJSON(entry)
}

// StatusHub returns the status hub for external use
func (s *Server) StatusHub() *hub.Hub {
	return s.statusHub
}
