package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/form"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/models"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/notify"
)

func (s *Server) registerAPIHandlers() {
	api := s.httpServer.Group("/api")

	api.Get("/history", s.apiHistory)
	api.Post("/generate", s.apiGenerate)
}

// apiHistory returns the same data as the history page, as JSON.
func (s *Server) apiHistory(c *fiber.Ctx) error {
	ctx, cancel := s.viewContext(c)
	defer cancel()

	flash := &notify.Flash{}
	v := s.loadHistory(ctx, flash)

	return c.JSON(fiber.Map{
		"mode":       v.Mode(),
		"count":      v.Count(),
		"countLabel": v.CountLabel(),
		"contracts":  v.Cards(),
		"notices":    flash.Notices(),
	})
}

// apiGenerate accepts the form as JSON and answers with the archive,
// or with the notices when there is no file to send.
func (s *Server) apiGenerate(c *fiber.Ctx) error {
	var data models.ContractForm
	if err := c.BodyParser(&data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	flash := &notify.Flash{}
	ctrl := form.New(s.generator, notify.Multi(flash, notify.Log{View: "api"}))
	ctrl.Load(data)

	ctx, cancel := s.viewContext(c)
	defer cancel()

	archive, err := ctrl.Submit(ctx)
	if err != nil {
		status, invalid := submitFailure(err)
		message := err.Error()
		if status == fiber.StatusBadGateway {
			message = "document generation failed"
		}
		return c.Status(status).JSON(fiber.Map{
			"error":   message,
			"fields":  invalid,
			"notices": flash.Notices(),
		})
	}

	if archive != nil {
		return sendArchive(c, archive)
	}

	return c.JSON(fiber.Map{"notices": flash.Notices()})
}
