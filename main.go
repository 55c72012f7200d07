package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"golang.org/x/crypto/bcrypt"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/config"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/mainserver"
)

var (
	development bool
	configFile  string

	adminPassword    string
	port             string
	historyURL       string
	generateURL      string
	uploadURL        string
	devFunctionsPort string
)

func main() {
	// If we are in development environment or not
	flag.BoolVar(&development, "dev", false, "Development mode")

	// Optional YAML configuration file, environment variables (LAG_*) override it
	flag.StringVar(&configFile, "config", "", "Path to a YAML configuration file")

	// The password for admin screens
	flag.StringVar(&adminPassword, "admin-password", "", "Admin password for the template upload page")

	flag.StringVar(&port, "port", "", "Port for the web server")

	// The remote functions
	flag.StringVar(&historyURL, "history-url", "", "URL of the contract history function")
	flag.StringVar(&generateURL, "generate-url", "", "URL of the document generation function")
	flag.StringVar(&uploadURL, "upload-url", "", "URL of the template upload function")

	// Local stand-in for the remote functions
	flag.StringVar(&devFunctionsPort, "dev-functions-port", "", "Start the local functions stand-in on this port")

	flag.Parse()

	// Initialize logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(configFile)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Flags take precedence over the file and the environment
	if development {
		cfg.Development = true
	}
	if port != "" {
		cfg.Port = port
	}
	if historyURL != "" {
		cfg.Functions.HistoryURL = historyURL
	}
	if generateURL != "" {
		cfg.Functions.GenerateURL = generateURL
	}
	if uploadURL != "" {
		cfg.Functions.UploadURL = uploadURL
	}
	if devFunctionsPort != "" {
		cfg.DevFunctionsPort = devFunctionsPort
	}

	cfg.Complete()

	// Say if we are in development or not
	if cfg.Development {
		slog.Info("Running in development mode")
	} else {
		slog.Info("Running in production mode")
	}

	// Get admin password from command line (priority) or environment variable.
	// Only its bcrypt hash is kept.
	if adminPassword == "" {
		adminPassword = os.Getenv("LAG_ADMIN_PASSWORD")
	}
	if adminPassword == "" && cfg.Development && cfg.AdminPasswordHash == "" {
		adminPassword = "pepe"
	}
	if adminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("Failed to hash admin password", "error", err)
			os.Exit(1)
		}
		cfg.AdminPasswordHash = string(hash)
	}

	// Create the main server. This will wire the remote functions and the web server.
	srv, err := mainserver.New(cfg)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received")
		cancel()
	}()

	// Start server
	if err := srv.Start(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
