// Package web exposes the local HTTP control surface for a Bobbin unit:
// REST endpoints for motion commands and emotion browsing, plus a WebSocket
// telemetry stream.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/bobbin-robotics/go-bobbin/internal/log"
	"github.com/bobbin-robotics/go-bobbin/pkg/emotions"
	"github.com/bobbin-robotics/go-bobbin/pkg/hub"
	"github.com/bobbin-robotics/go-bobbin/pkg/motion"
	"github.com/bobbin-robotics/go-bobbin/pkg/pose"
)

// statusInterval paces the telemetry broadcast to WebSocket subscribers.
const statusInterval = 250 * time.Millisecond

// Controller is the slice of the movement manager the web surface drives.
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

// Server is the local control server.
type Server struct {
	app        *fiber.App
	port       string
	controller Controller
	library    *emotions.Library

	statusHub *hub.Hub

	stop     chan struct{}
	stopOnce sync.Once
}

// NewServer creates the control server. It does not start listening.
func NewServer(port string, controller Controller, library *emotions.Library) *Server {
	s := &Server{
		port:       port,
		controller: controller,
		library:    library,
		statusHub:  hub.New("status"),
		stop:       make(chan struct{}),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Bobbin Control",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/emotions", s.handleListEmotions)
	api.Get("/emotions/search", s.handleSearchEmotions)
	api.Post("/emotions/:name/play", s.handlePlayEmotion)
	api.Post("/emotions/stop", s.handleStopEmotion)
	api.Post("/target", s.handleSetTarget)
	api.Post("/listening", s.handleListening)
	api.Post("/speaking", s.handleSpeaking)
	api.Post("/amplitude", s.handleAmplitude)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// Start runs the hub, the telemetry broadcaster, and the listener. Blocks.
func (s *Server) Start() error {
	go s.statusHub.Run()
	go s.broadcastLoop()

	log.Info("control server listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("control server failed", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// broadcastLoop pushes telemetry snapshots to WebSocket subscribers.
func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if s.statusHub.ClientCount() == 0 {
				continue
			}
			if err := s.statusHub.BroadcastJSON(s.controller.Snapshot()); err != nil {
				log.Warn("telemetry broadcast failed", "error", err)
			}
		}
	}
}

// handleStatusWS registers a telemetry subscriber. The current snapshot is
// sent immediately so clients do not wait a full broadcast interval.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	c.WriteJSON(s.controller.Snapshot())

	client := hub.NewClient(s.statusHub, c)
	client.Run()
}
