package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/text/language"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/errl"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/form"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/history"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/html"
)

//go:embed views
var viewsfs embed.FS

// TemplateUploader forwards a new document template to the generation side.
type TemplateUploader interface {
	UploadTemplate(ctx context.Context, filename string, content io.Reader) (string, error)
}

// Config is the configuration of the web server.
type Config struct {
	Development bool
	Port        string
	ViewsDir    string

	// ViewTimeout bounds the remote work done while rendering one view.
	ViewTimeout time.Duration

	Location *time.Location
	Language language.Tag

	// AdminPasswordHash is the bcrypt hash of the admin password. Empty disables the admin pages.
	AdminPasswordHash string
}

// Server is the web front end: the contract form and the generation history.
type Server struct {
	cfg        Config
	httpServer *fiber.App
	htmlRender *html.RendererFiber
	history    history.Source
	generator  form.Generator
	uploader   TemplateUploader
}

// New creates the web server. uploader may be nil, which disables template uploads.
func New(cfg Config, src history.Source, gen form.Generator, uploader TemplateUploader) (*Server, error) {

	if cfg.ViewTimeout <= 0 {
		cfg.ViewTimeout = 30 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Language == language.Und {
		cfg.Language = language.Russian
	}

	views, err := Views()
	if err != nil {
		return nil, errl.Errorf("embedded views: %w", err)
	}
	assets, err := fs.Sub(views, "assets")
	if err != nil {
		return nil, errl.Errorf("embedded assets: %w", err)
	}

	// The engine to display the HTML screens to the users
	htmlrender, err := html.NewRendererFiber(cfg.Development, views, cfg.ViewsDir, ".html")
	if err != nil {
		return nil, errl.Errorf("failed to initialize template engine: %w", err)
	}

	s := &Server{
		cfg:        cfg,
		htmlRender: htmlrender,
		history:    src,
		generator:  gen,
		uploader:   uploader,
	}

	httpServer := fiber.New(fiber.Config{
		AppName:               "License Agreement Generator",
		ServerHeader:          "LicenseGen",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          cfg.ViewTimeout + 30*time.Second,
		BodyLimit:             16 << 20,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	// Recovers from panics anywhere in the stack chain and handles the control to the centralized ErrorHandler
	httpServer.Use(recover.New())

	// Helmet middleware helps secure your apps by setting various HTTP headers.
	httpServer.Use(helmet.New())

	// Ignores favicon requests
	httpServer.Use(favicon.New())

	// Logs HTTP request/response details
	httpServer.Use(logger.New())

	// The remote functions and browser tools may call the JSON API from other origins
	httpServer.Use("/api", cors.New())

	httpServer.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(assets),
		MaxAge: 3600,
	}))

	s.httpServer = httpServer

	// Register the health check endpoint
	s.httpServer.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	s.registerFormHandlers()
	s.registerHistoryHandlers()
	s.registerAPIHandlers()
	s.registerAdminHandlers()

	return s, nil
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.httpServer
}

// Start starts the server and blocks until ctx is cancelled or listening fails.
func (s *Server) Start(ctx context.Context) error {

	if s.httpServer == nil {
		return errors.New("server not initialized")
	}

	addr := net.JoinHostPort("0.0.0.0", s.cfg.Port)
	slog.Info("Starting web server", "addr", addr)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Listen(addr); err != nil {
			errChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	// Wait for context cancellation or error
	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return s.httpServer.ShutdownWithTimeout(10 * time.Second)
	}

}

// viewContext scopes the remote work of one view to the request.
// Everything still running when the handler returns is cancelled.
func (s *Server) viewContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), s.cfg.ViewTimeout)
}

// handleError is the central error handler of the fiber application.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Внутренняя ошибка сервера"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("Request failed", "path", c.Path(), "error", err, "where", errl.Where(err))
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"error": message})
	}

	c.Status(code)
	if rerr := s.htmlRender.Render(c, "error", fiber.Map{"code": code, "message": message}); rerr != nil {
		return c.Status(code).SendString(message)
	}
	return nil
}
