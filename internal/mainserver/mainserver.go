package mainserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/config"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/devfunctions"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/errl"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/form"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/functions"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/web"
)

// Server manages the web server and, in development, the local functions stand-in
type Server struct {
	cfg       *config.Config
	webServer *web.Server
	devServer *devfunctions.Server
	functions *functions.Client
}

// New creates a new server instance.
// It wires the functions client, picks the generator and creates the web server.
func New(cfg *config.Config) (*Server, error) {

	if cfg == nil {
		return nil, errors.New("missing configuration")
	}

	s := &Server{cfg: cfg}

	// The local stand-in answers for every remote function that was not configured
	if cfg.DevFunctionsPort != "" {
		s.devServer = devfunctions.New(cfg.DevFunctionsPort, nil)
		base := s.devServer.BaseURL()
		if cfg.Functions.HistoryURL == "" {
			cfg.Functions.HistoryURL = base + "/history"
		}
		if cfg.Functions.UploadURL == "" {
			cfg.Functions.UploadURL = base + "/upload-template"
		}
	}

	client, err := functions.NewClient(&functions.ClientConfig{
		HistoryURL:  cfg.Functions.HistoryURL,
		GenerateURL: cfg.Functions.GenerateURL,
		UploadURL:   cfg.Functions.UploadURL,
		Timeout:     cfg.Functions.Timeout,
	})
	if err != nil {
		return nil, errl.Errorf("creating functions client: %w", err)
	}
	s.functions = client

	// Without a generation endpoint the form only simulates the request
	var generator form.Generator = client
	if !client.CanGenerate() {
		slog.Warn("No generation endpoint configured, generation is simulated", "delay", cfg.Functions.SimulatedDelay)
		generator = form.Simulated{Delay: cfg.Functions.SimulatedDelay}
	}

	var uploader web.TemplateUploader
	if client.CanUpload() {
		uploader = client
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	webServer, err := web.New(web.Config{
		Development:       cfg.Development,
		Port:              cfg.Port,
		ViewsDir:          cfg.ViewsDir,
		ViewTimeout:       cfg.Functions.Timeout,
		Location:          loc,
		Language:          cfg.LanguageTag(),
		AdminPasswordHash: cfg.AdminPasswordHash,
	}, client, generator, uploader)
	if err != nil {
		return nil, errl.Errorf("creating web server: %w", err)
	}
	s.webServer = webServer

	return s, nil
}

// Start starts the web server and the development functions, if enabled.
// It returns when ctx is cancelled or one of them fails.
func (s *Server) Start(ctx context.Context) error {

	if s.webServer == nil {
		return errors.New("server not initialized")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errChan := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.webServer.Start(ctx); err != nil {
			errChan <- fmt.Errorf("web server failed: %w", err)
		}
	}()

	if s.devServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.devServer.Start(ctx); err != nil {
				errChan <- fmt.Errorf("development functions failed: %w", err)
			}
		}()
	}

	slog.Info("Servers started",
		"port", s.cfg.Port,
		"public_url", s.cfg.PublicURL,
		"functions", s.functions.String(),
		"dev_functions_port", s.cfg.DevFunctionsPort)

	// Wait for either server to fail or context to be cancelled
	var err error
	select {
	case err = <-errChan:
	case <-ctx.Done():
		slog.Info("Shutting down servers")
	}

	cancel()
	wg.Wait()
	return err
}
