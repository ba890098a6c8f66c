// Package server exposes the HTTP render surface.
package server

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storyreel/internal/config"
	"storyreel/pkg/request"
)

// Server holds the fiber app and the render pipeline.
type Server struct {
	App      *fiber.App
	Pipeline *Pipeline
	Log      *logrus.Logger
}

// New builds the HTTP server and registers its routes.
func New(cfg config.Config, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}

	app := fiber.New(fiber.Config{
		// Renders run minutes, not seconds; the body carries only JSON.
		BodyLimit: 4 << 20,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	s := &Server{
		App:      app,
		Pipeline: NewPipeline(cfg, log),
		Log:      log,
	}

	app.Get("/health", s.handleHealth)
	apiV1 := app.Group("/api/v1")
	apiV1.Post("/videos", s.handleRenderVideo)

	return s
}

// Listen serves until the listener fails.
func (s *Server) Listen(addr string) error {
	return s.App.Listen(addr)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "ok",
		"message": "storyreel is healthy",
	})
}

// handleRenderVideo runs the full pipeline for one request and streams the
// rendered MP4 back.
func (s *Server) handleRenderVideo(c *fiber.Ctx) error {
	var req request.Render
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "malformed JSON body")
	}
	if err := req.Validate(); err != nil {
		return respondValidation(c, err)
	}

	jobID := uuid.NewString()
	log := s.Log.WithField("job_id", jobID)
	log.Info("render request accepted")

	outputPath, jp, err := s.Pipeline.Run(c.Context(), req, jobID)
	if err != nil {
		log.WithError(err).Error("render failed")
		jp.Cleanup()
		return respondError(c, fiber.StatusBadGateway, "render failed: "+err.Error())
	}

	data, err := os.ReadFile(outputPath)
	if cleanupErr := jp.Cleanup(); cleanupErr != nil {
		log.WithError(cleanupErr).Warn("workspace cleanup failed")
	}
	if err != nil {
		log.WithError(err).Error("read rendered output")
		return respondError(c, fiber.StatusInternalServerError, "rendered output unreadable")
	}

	log.WithField("bytes", len(data)).Info("render complete")
	c.Set(fiber.HeaderContentType, "video/mp4")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="storyreel.mp4"`)
	return c.Status(fiber.StatusOK).Send(data)
}
