package devfunctions

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/functions"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/models"
)

func newClient(t *testing.T, records []models.ContractRecord) *functions.Client {
	t.Helper()
	srv := httptest.NewServer(New("0", records).Handler())
	t.Cleanup(srv.Close)

	c, err := functions.NewClient(&functions.ClientConfig{
		HistoryURL:  srv.URL + "/history",
		GenerateURL: srv.URL + "/generate",
		UploadURL:   srv.URL + "/upload-template",
		Timeout:     5 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func TestHistoryFixture(t *testing.T) {
	c := newClient(t, nil)

	records, err := c.ListContracts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Fixture, records)
}

func TestHistoryNewestFirst(t *testing.T) {
	c := newClient(t, []models.ContractRecord{
		{ContractNumber: "1", CreatedAt: "2025-10-01T10:00:00Z"},
		{ContractNumber: "3", CreatedAt: "2025-10-03T10:00:00Z"},
		{ContractNumber: "2", CreatedAt: "2025-10-02T10:00:00Z"},
	})

	records, err := c.ListContracts(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "3", records[0].ContractNumber)
	assert.Equal(t, "2", records[1].ContractNumber)
	assert.Equal(t, "1", records[2].ContractNumber)
}

func TestGenerateMissingFields(t *testing.T) {
	c := newClient(t, nil)

	form := models.ExampleContractForm
	form.Email = ""
	form.Passport = "   "

	_, err := c.Generate(context.Background(), form)
	var rerr *functions.RejectedError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "All fields are required", rerr.Message)
	assert.Equal(t, []string{models.FieldPassport, models.FieldEmail}, rerr.Fields)
}

func TestGenerateNotImplemented(t *testing.T) {
	c := newClient(t, nil)

	_, err := c.Generate(context.Background(), models.ExampleContractForm)
	var serr *functions.StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusNotImplemented, serr.StatusCode)
}

func TestUploadTemplate(t *testing.T) {
	c := newClient(t, nil)

	msg, err := c.UploadTemplate(context.Background(), "template.docx", bytes.NewReader(bytes.Repeat([]byte("x"), 200)))
	require.NoError(t, err)
	assert.Equal(t, "Template uploaded successfully", msg)

	_, err = c.UploadTemplate(context.Background(), "template.docx", strings.NewReader("tiny"))
	var serr *functions.StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusBadRequest, serr.StatusCode)
}

func TestCORSAndMethods(t *testing.T) {
	h := New("0", nil).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/history", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/history", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
