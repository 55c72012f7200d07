package html

import (
	"bytes"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/errl"
)

// DefaultLayout wraps every page.
const DefaultLayout = "layouts/main"

type RendererFiber struct {
	engine *html.Engine
}

// NewRendererFiber creates a new HTML renderer.
// It supports both embedded templates (in viewsfs) and external templates (in extDir).
// When extDir exists on disk it wins, so templates can be edited without rebuilding.
// If reload is true, the templates are parsed again on every render.
func NewRendererFiber(reload bool, viewsfs fs.FS, extDir string, extension string) (*RendererFiber, error) {

	engine, err := newEngine(reload, viewsfs, extDir, extension)
	if err != nil {
		return nil, errl.Error(err)
	}

	renderer := &RendererFiber{
		engine: engine,
	}

	return renderer, nil
}

func newEngine(reload bool, viewsfs fs.FS, extDir string, extension string) (*html.Engine, error) {

	var engine *html.Engine

	// Check if extDir exists in the os file system
	fi, err := os.Stat(extDir)
	if extDir != "" && err == nil && fi.IsDir() {
		slog.Info("Using external HTML templates", "dir", extDir)
		engine = html.NewFileSystem(http.Dir(extDir), extension)
	} else {
		slog.Info("Using embedded HTML templates")
		engine = html.NewFileSystem(http.FS(viewsfs), extension)
	}

	engine.Reload(reload)

	if err := engine.Load(); err != nil {
		return nil, errl.Errorf("failed to load HTML templates: %w", err)
	}

	return engine, nil
}

// ResponseSecurityHeadersFiber sets the security headers for the response according to best practices
func ResponseSecurityHeadersFiber(c *fiber.Ctx) {

	c.Set("Content-Security-Policy", "frame-ancestors 'none';")
	c.Set("X-Frame-Options", "DENY")
	c.Set("X-Content-Type-Options", "nosniff")
	c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	c.Set("Cross-Origin-Opener-Policy", "same-origin")
	c.Set("Cross-Origin-Resource-Policy", "same-site")
	c.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=(), interest-cohort=()")
	c.Set("X-Powered-By", "webserver")

}

// Render writes the named page inside the default layout.
func (h *RendererFiber) Render(c *fiber.Ctx, templateName string, data fiber.Map) error {

	c.Set("Content-Type", "text/html; charset=utf-8")
	ResponseSecurityHeadersFiber(c)

	out := &bytes.Buffer{}

	if err := h.RenderTo(out, templateName, data); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "rendering response")
	}

	return c.Send(out.Bytes())

}

// RenderTo writes the named page inside the default layout to w.
func (h *RendererFiber) RenderTo(w io.Writer, templateName string, data fiber.Map) error {
	if err := h.engine.Render(w, templateName, data, DefaultLayout); err != nil {
		slog.Error("Error rendering template",
			slog.String("template", templateName),
			slog.String("error", err.Error()),
		)
		return errl.Errorf("rendering %s: %w", templateName, err)
	}
	return nil
}
