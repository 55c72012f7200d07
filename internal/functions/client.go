// Package functions is the HTTP client of the remote functions that keep the
// contract history and generate the document packages.
package functions

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/errl"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/models"
)

const (
	defaultTimeout = 30 * time.Second

	// Maximum size of an archive we accept from the generation function.
	maxArchiveSize = 32 << 20
)

// ClientConfig holds the endpoints of the remote functions.
// Empty URLs disable the corresponding operation.
type ClientConfig struct {
	HistoryURL  string
	GenerateURL string
	UploadURL   string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client talks to the remote functions.
type Client struct {
	historyURL  string
	generateURL string
	uploadURL   string
	http        *http.Client
}

// NewClient creates a client for the configured endpoints.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, errl.Errorf("functions client: missing configuration")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		historyURL:  cfg.HistoryURL,
		generateURL: cfg.GenerateURL,
		uploadURL:   cfg.UploadURL,
		http:        httpClient,
	}, nil
}

// CanGenerate reports whether a generation endpoint is configured.
func (c *Client) CanGenerate() bool {
	return c.generateURL != ""
}

// CanUpload reports whether a template upload endpoint is configured.
func (c *Client) CanUpload() bool {
	return c.uploadURL != ""
}

// ListContracts reads the whole generation history. The order of the records is
// the order chosen by the remote function.
func (c *Client) ListContracts(ctx context.Context) ([]models.ContractRecord, error) {
	if c.historyURL == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.historyURL, nil)
	if err != nil {
		return nil, errl.Errorf("creating history request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errl.Errorf("sending history request: %w", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, errl.Error(&StatusError{Op: "history", StatusCode: resp.StatusCode})
	}

	var records []models.ContractRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, errl.Errorf("decoding history response: %w", err)
	}
	if records == nil {
		records = []models.ContractRecord{}
	}

	slog.Debug("History loaded", "count", len(records))
	return records, nil
}

// Generate sends the form to the generation function and returns the document package.
func (c *Client) Generate(ctx context.Context, form models.ContractForm) (*models.Archive, error) {
	if c.generateURL == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(form)
	if err != nil {
		return nil, errl.Errorf("encoding generation request: %w", err)
	}

	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.generateURL, bytes.NewReader(body))
	if err != nil {
		return nil, errl.Errorf("creating generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	slog.Info("Generation requested", "request_id", requestID, "contract_number", form.ContractNumber)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errl.Errorf("sending generation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		return nil, errl.Error(decodeRejection(resp.Body))
	}
	if !isSuccess(resp.StatusCode) {
		return nil, errl.Error(&StatusError{Op: "generate", StatusCode: resp.StatusCode})
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArchiveSize+1))
	if err != nil {
		return nil, errl.Errorf("reading generation response: %w", err)
	}
	if len(data) > maxArchiveSize {
		return nil, errl.Errorf("generation response larger than %d bytes", maxArchiveSize)
	}

	if strings.EqualFold(resp.Header.Get("Content-Transfer-Encoding"), "base64") {
		decoded, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(data)))
		if err != nil {
			return nil, errl.Errorf("decoding base64 archive: %w", err)
		}
		data = decoded
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/zip"
	}

	filename := filenameFromDisposition(resp.Header.Get("Content-Disposition"))
	if filename == "" {
		filename = models.ArchiveFilename(form.ContractNumber)
	}

	slog.Info("Generation completed", "request_id", requestID, "filename", filename, "size", len(data))

	return &models.Archive{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
		RequestID:   requestID,
	}, nil
}

// UploadTemplate sends a new document template to the upload function and
// returns the message of the remote side.
func (c *Client) UploadTemplate(ctx context.Context, filename string, content io.Reader) (string, error) {
	if c.uploadURL == "" {
		return "", ErrNotConfigured
	}

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", errl.Errorf("creating multipart part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", errl.Errorf("copying template: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", errl.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, buf)
	if err != nil {
		return "", errl.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errl.Errorf("sending upload request: %w", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", errl.Error(&StatusError{Op: "upload", StatusCode: resp.StatusCode})
	}

	var reply struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil && err != io.EOF {
		return "", errl.Errorf("decoding upload response: %w", err)
	}

	return reply.Message, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func decodeRejection(body io.Reader) error {
	var reply struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err == nil {
		err = json.Unmarshal(data, &reply)
	}
	if err != nil || reply.Error == "" {
		return &RejectedError{Message: "request rejected"}
	}
	return &RejectedError{Message: reply.Error, Fields: reply.Fields}
}

// filenameFromDisposition extracts the file name of an attachment, or "".
func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	name := params["filename"]
	if name == "" {
		return ""
	}
	return filepath.Base(filepath.Clean("/" + name))
}

// String helps logging a client.
func (c *Client) String() string {
	return fmt.Sprintf("functions{history=%q generate=%q upload=%q}", c.historyURL, c.generateURL, c.uploadURL)
}
