package mainserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/config"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/devfunctions"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/form"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	functionsSrv := httptest.NewServer(devfunctions.New("0", nil).Handler())
	t.Cleanup(functionsSrv.Close)

	cfg := config.Default()
	cfg.Port = "0"
	cfg.ViewsDir = ""
	cfg.TimeZone = "UTC"
	cfg.Functions.HistoryURL = functionsSrv.URL + "/history"
	cfg.Functions.SimulatedDelay = 10 * time.Millisecond
	return cfg
}

func TestNewWithoutConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNewSimulatesGenerationWithoutEndpoint(t *testing.T) {
	s, err := New(testConfig(t))
	require.NoError(t, err)
	assert.Nil(t, s.devServer)

	values := url.Values{}
	for _, key := range models.FieldKeys {
		v, _ := models.ExampleContractForm.Get(key)
		values.Set(key, v)
	}
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.webServer.App().Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), form.NoticeDone.Title)
}

func TestHistoryThroughFunctions(t *testing.T) {
	s, err := New(testConfig(t))
	require.NoError(t, err)

	resp, err := s.webServer.App().Test(httptest.NewRequest(http.MethodGet, "/history", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "25.10.2025, 14:30")
	assert.Contains(t, string(body), "Всего договоров: 1")
}

func TestDevFunctionsFillMissingEndpoints(t *testing.T) {
	cfg := testConfig(t)
	cfg.Functions.HistoryURL = ""
	cfg.DevFunctionsPort = "18081"

	s, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, s.devServer)
	assert.Equal(t, "http://127.0.0.1:18081/history", cfg.Functions.HistoryURL)
	assert.Equal(t, "http://127.0.0.1:18081/upload-template", cfg.Functions.UploadURL)
	assert.True(t, s.functions.CanUpload())
	assert.False(t, s.functions.CanGenerate())
}

func TestBadTimeZone(t *testing.T) {
	cfg := testConfig(t)
	cfg.TimeZone = "Nowhere/Land"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestStartStops(t *testing.T) {
	s, err := New(testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not stop")
	}
}
