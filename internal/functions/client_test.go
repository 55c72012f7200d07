package functions

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/models"
)

const exampleHistory = `[{"contractNumber":"25/10/2025","nickname":"EDDI$","fullName":"EDUARD FRANK IOSIFOVIC","shortName":"EDUARD F.I.","contractDate":"25 октября 2025 г.","citizenship":"Германии","email":"mr-frank-eduard@web.de","passport":"GER: L8V2RCZ80","createdAt":"2025-10-25T14:30:00Z"}]`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(&ClientConfig{
		HistoryURL:  srv.URL + "/history",
		GenerateURL: srv.URL + "/generate",
		UploadURL:   srv.URL + "/upload",
		Timeout:     5 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func TestListContracts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, exampleHistory)
	})

	records, err := c.ListContracts(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "25/10/2025", records[0].ContractNumber)
	assert.Equal(t, "EDUARD F.I.", records[0].ShortName)
	assert.Equal(t, "2025-10-25T14:30:00Z", records[0].CreatedAt)
}

func TestListContractsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	records, err := c.ListContracts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestListContractsStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"Database configuration error"}`)
	})

	_, err := c.ListContracts(context.Background())
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusInternalServerError, serr.StatusCode)
	assert.Equal(t, "history", serr.Op)
}

func TestListContractsNotConfigured(t *testing.T) {
	c, err := NewClient(&ClientConfig{})
	require.NoError(t, err)

	_, err = c.ListContracts(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, c.CanGenerate())
	assert.False(t, c.CanUpload())
}

func TestGenerate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		var got models.ContractForm
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, models.ExampleContractForm, got)

		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename*=UTF-8''%D0%94%D0%BE%D0%B3%D0%BE%D0%B2%D0%BE%D1%80.zip`)
		io.WriteString(w, "PK-archive")
	})

	archive, err := c.Generate(context.Background(), models.ExampleContractForm)
	require.NoError(t, err)
	assert.Equal(t, "Договор.zip", archive.Filename)
	assert.Equal(t, "application/zip", archive.ContentType)
	assert.Equal(t, []byte("PK-archive"), archive.Data)
	assert.NotEmpty(t, archive.RequestID)
}

func TestGenerateBase64AndDefaultName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Transfer-Encoding", "base64")
		io.WriteString(w, base64.StdEncoding.EncodeToString([]byte("PK-zip")))
	})

	archive, err := c.Generate(context.Background(), models.ExampleContractForm)
	require.NoError(t, err)
	assert.Equal(t, []byte("PK-zip"), archive.Data)
	assert.Equal(t, "Договор_пакет_25-10-2025.zip", archive.Filename)
	assert.Equal(t, "application/zip", archive.ContentType)
}

func TestGenerateRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"All fields are required","fields":["email"]}`)
	})

	_, err := c.Generate(context.Background(), models.ContractForm{})
	var rerr *RejectedError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "All fields are required", rerr.Message)
	assert.Equal(t, []string{"email"}, rerr.RejectedFields())
}

func TestGenerateRejectedWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.Generate(context.Background(), models.ContractForm{})
	var rerr *RejectedError
	require.ErrorAs(t, err, &rerr)
	assert.Empty(t, rerr.Fields)
}

func TestGenerateServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Generate(context.Background(), models.ExampleContractForm)
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusBadGateway, serr.StatusCode)
}

func TestGenerateCancelled(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Generate(ctx, models.ExampleContractForm)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUploadTemplate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)

		assert.Equal(t, "template.docx", header.Filename)
		assert.Equal(t, "docx-bytes", string(content))
		io.WriteString(w, `{"message":"Template uploaded successfully"}`)
	})

	msg, err := c.UploadTemplate(context.Background(), "/tmp/template.docx", strings.NewReader("docx-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "Template uploaded successfully", msg)
}

func TestFilenameFromDisposition(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"inline", ""},
		{`attachment; filename="pack.zip"`, "pack.zip"},
		{`attachment; filename="../../etc/passwd"`, "passwd"},
		{"not a header;;", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, filenameFromDisposition(tt.header), tt.header)
	}
}
