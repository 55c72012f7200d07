package web

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/history"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/notify"
)

const historyEndpoint = "/history"

func (s *Server) registerHistoryHandlers() {
	s.httpServer.Get(historyEndpoint, s.pageHistory)
}

// loadHistory builds a viewer for one request and loads it.
func (s *Server) loadHistory(ctx context.Context, flash *notify.Flash) *history.Viewer {
	v := history.New(s.history, notify.Multi(flash, notify.Log{View: "history"}),
		history.WithLocation(s.cfg.Location),
		history.WithLanguage(s.cfg.Language),
	)
	v.Load(ctx)
	return v
}

// pageHistory lists the contracts generated so far.
func (s *Server) pageHistory(c *fiber.Ctx) error {
	ctx, cancel := s.viewContext(c)
	defer cancel()

	flash := &notify.Flash{}
	v := s.loadHistory(ctx, flash)

	return s.htmlRender.Render(c, "history", fiber.Map{
		"mode":       string(v.Mode()),
		"cards":      v.Cards(),
		"count":      v.Count(),
		"countLabel": v.CountLabel(),
		"notices":    flash.Notices(),
		"formURL":    formEndpoint,
	})
}
