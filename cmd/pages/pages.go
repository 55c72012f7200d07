// Command pages serves the HTML views with sample data, for template development.
// Templates are read from disk and parsed again on every request.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/html"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/web"
)

func main() {
	viewsDir := flag.String("views", "internal/web/views", "directory with the HTML templates")
	addr := flag.String("addr", ":8090", "listen address")
	flag.Parse()

	views, err := web.Views()
	if err != nil {
		slog.Error("Failed to open embedded views", "error", err)
		os.Exit(1)
	}

	// The engine to display the screens (HTML) to the users
	htmlrender, err := html.NewRendererFiber(true, views, *viewsDir, ".html")
	if err != nil {
		slog.Error("Failed to initialize template engine", "error", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Go template development",
		ServerHeader: "LicenseGen",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Recovers from panics anywhere in the stack chain and handles the control to the centralized ErrorHandler
	app.Use(recover.New())

	app.Get("/page/:name", func(c *fiber.Ctx) error {
		data, ok := web.PreviewData(c.Params("name"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown page")
		}
		return htmlrender.Render(c, c.Params("name"), data)
	})

	app.Static("/static", *viewsDir+"/assets")

	slog.Info("Serving template previews", "addr", *addr)
	if err := app.Listen(*addr); err != nil {
		slog.Error("Listen failed", "error", err)
		os.Exit(1)
	}
}
