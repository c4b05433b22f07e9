package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bobbin-robotics/go-bobbin/pkg/emotions"
	"github.com/bobbin-robotics/go-bobbin/pkg/motion"
	"github.com/bobbin-robotics/go-bobbin/pkg/pose"
)

// handleStatus returns the movement manager's telemetry snapshot
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.controller.Snapshot())
}

// EmotionInfo describes one available emotion clip
type EmotionInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// handleListEmotions returns the emotion catalog
func (s *Server) handleListEmotions(c *fiber.Ctx) error {
	descriptions := s.library.ListWithDescriptions()

	infos := make([]EmotionInfo, 0, len(descriptions))
	for _, name := range s.library.List() {
		infos = append(infos, EmotionInfo{Name: name, Description: descriptions[name]})
	}

	return c.JSON(fiber.Map{
		"emotions": infos,
		"count":    len(infos),
	})
}

// handleSearchEmotions returns emotions matching ?q=
func (s *Server) handleSearchEmotions(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return c.Status(400).JSON(fiber.Map{"error": "missing query parameter q"})
	}
	return c.JSON(fiber.Map{"emotions": s.library.Search(q)})
}

// handlePlayEmotion enqueues emotion playback
func (s *Server) handlePlayEmotion(c *fiber.Ctx) error {
	name := c.Params("name")

	if err := s.controller.PlayEmotion(name); err != nil {
		return commandError(c, err)
	}
	return c.JSON(fiber.Map{"status": "queued", "emotion": name})
}

// handleStopEmotion aborts any in-flight emotion
func (s *Server) handleStopEmotion(c *fiber.Ctx) error {
	if err := s.controller.StopEmotion(); err != nil {
		return commandError(c, err)
	}
	return c.JSON(fiber.Map{"status": "queued"})
}

// TargetRequest is the request body for a base pose update
type TargetRequest struct {
	Roll     float64    `json:"roll"`
	Pitch    float64    `json:"pitch"`
	Yaw      float64    `json:"yaw"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Z        float64    `json:"z"`
	Antennas [2]float64 `json:"antennas"`
	BodyYaw  float64    `json:"body_yaw"`
}

// handleSetTarget enqueues a base pose update
func (s *Server) handleSetTarget(c *fiber.Ctx) error {
	var req TargetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	p := pose.Pose{
		Roll:     req.Roll,
		Pitch:    req.Pitch,
		Yaw:      req.Yaw,
		X:        req.X,
		Y:        req.Y,
		Z:        req.Z,
		Antennas: req.Antennas,
		BodyYaw:  req.BodyYaw,
	}
	if err := s.controller.SetTarget(p); err != nil {
		return commandError(c, err)
	}
	return c.JSON(fiber.Map{"status": "queued"})
}

// ToggleRequest is the request body for listening/speaking toggles
type ToggleRequest struct {
	Active bool `json:"active"`
}

// handleListening toggles listening mode
func (s *Server) handleListening(c *fiber.Ctx) error {
	var req ToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	var cErr error
	if req.Active {
		cErr = s.controller.StartListening()
	} else {
		cErr = s.controller.StopListening()
	}
	if cErr != nil {
		return commandError(c, cErr)
	}
	return c.JSON(fiber.Map{"status": "queued", "active": req.Active})
}

// handleSpeaking toggles speaking mode
func (s *Server) handleSpeaking(c *fiber.Ctx) error {
	var req ToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	var cErr error
	if req.Active {
		cErr = s.controller.StartSpeaking()
	} else {
		cErr = s.controller.StopSpeaking()
	}
	if cErr != nil {
		return commandError(c, cErr)
	}
	return c.JSON(fiber.Map{"status": "queued", "active": req.Active})
}

// AmplitudeRequest is the request body for a speech amplitude sample
type AmplitudeRequest struct {
	Value float64 `json:"value"`
}

// handleAmplitude records a speech amplitude sample
func (s *Server) handleAmplitude(c *fiber.Ctx) error {
	var req AmplitudeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	s.controller.SetAmplitude(req.Value)
	return c.JSON(fiber.Map{"status": "ok"})
}

// commandError maps controller errors onto HTTP status codes: unknown
// emotions are the caller's mistake (404), a full queue means the unit is
// overloaded right now (503).
func commandError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, emotions.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, motion.ErrQueueFull):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
