package web

import (
	"errors"
	"log/slog"
	"mime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/form"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/models"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/notify"
)

const (
	formEndpoint     = "/"
	generateEndpoint = "/generate"
)

func (s *Server) registerFormHandlers() {

	// The form to enter the contract party details, with the informational tabs
	s.httpServer.Get(formEndpoint, s.pageForm)

	// Receives the form and asks the generation function for the documents
	s.httpServer.Post(generateEndpoint, s.handleGenerate)

}

// pageForm shows an empty form, or the example filling when asked for.
func (s *Server) pageForm(c *fiber.Ctx) error {
	data := models.ContractForm{}
	if c.Query("example") != "" {
		data = models.ExampleContractForm
	}

	return s.renderForm(c, fiber.StatusOK, validTab(c.Query("tab")), data, nil, nil)
}

// handleGenerate submits the form. On success the archive is sent as a download;
// when the generator returns no file the form is shown again with the notices.
func (s *Server) handleGenerate(c *fiber.Ctx) error {
	flash := &notify.Flash{}
	ctrl := form.New(s.generator, notify.Multi(flash, notify.Log{View: "form"}))

	for _, key := range models.FieldKeys {
		if err := ctrl.Update(key, utils.CopyString(c.FormValue(key))); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}

	ctx, cancel := s.viewContext(c)
	defer cancel()

	archive, err := ctrl.Submit(ctx)
	if err != nil {
		status, invalid := submitFailure(err)
		return s.renderForm(c, status, "form", ctrl.Data(), invalid, flash.Notices())
	}

	if archive != nil {
		return sendArchive(c, archive)
	}

	return s.renderForm(c, fiber.StatusOK, "form", ctrl.Data(), nil, flash.Notices())
}

func (s *Server) renderForm(c *fiber.Ctx, status int, tab string, data models.ContractForm, invalid []string, notices []notify.Notice) error {
	c.Status(status)
	return s.htmlRender.Render(c, "form", fiber.Map{
		"tab":        tab,
		"fields":     formFields(data, invalid),
		"example":    formFields(models.ExampleContractForm, nil),
		"notices":    notices,
		"postAction": generateEndpoint,
	})
}

// submitFailure maps a Submit error to the response status and the fields to highlight.
func submitFailure(err error) (int, []string) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return fiber.StatusUnprocessableEntity, verr.Fields
	}
	var rej form.Rejection
	if errors.As(err, &rej) {
		return fiber.StatusUnprocessableEntity, rej.RejectedFields()
	}
	if errors.Is(err, form.ErrBusy) {
		return fiber.StatusConflict, nil
	}
	return fiber.StatusBadGateway, nil
}

func sendArchive(c *fiber.Ctx, archive *models.Archive) error {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": archive.Filename})
	if disposition == "" {
		disposition = `attachment; filename="documents.zip"`
	}

	slog.Info("Sending document package", "request_id", archive.RequestID, "size", len(archive.Data))

	c.Set(fiber.HeaderContentType, archive.ContentType)
	c.Set(fiber.HeaderContentDisposition, disposition)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(fiber.StatusOK).Send(archive.Data)
}
