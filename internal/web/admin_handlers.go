package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"golang.org/x/crypto/bcrypt"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/errl"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/notify"
)

const adminTemplateEndpoint = "/admin/template"

func (s *Server) registerAdminHandlers() {

	if s.cfg.AdminPasswordHash == "" || s.uploader == nil {
		slog.Warn("Admin pages disabled", "password_set", s.cfg.AdminPasswordHash != "", "uploader", s.uploader != nil)
		return
	}

	admin := s.httpServer.Group("/admin")

	// Protect the admin area with basic auth
	hash := []byte(s.cfg.AdminPasswordHash)
	adminAuth := basicauth.New(basicauth.Config{
		Realm: "Admin Area",
		Authorizer: func(user, pass string) bool {
			return user == "admin" && bcrypt.CompareHashAndPassword(hash, []byte(pass)) == nil
		},
	})

	admin.Use(adminAuth)

	admin.Get("/template", s.pageTemplateUpload)
	admin.Post("/template", s.handleTemplateUpload)

}

// pageTemplateUpload shows the form to replace the document template.
func (s *Server) pageTemplateUpload(c *fiber.Ctx) error {
	return s.renderTemplateUpload(c, fiber.StatusOK, nil)
}

// handleTemplateUpload forwards the uploaded file to the generation side.
func (s *Server) handleTemplateUpload(c *fiber.Ctx) error {
	flash := &notify.Flash{}
	n := notify.Multi(flash, notify.Log{View: "admin"})

	fh, err := c.FormFile("file")
	if err != nil {
		n.Notify(notify.Notice{Title: "Файл не выбран", Description: "Выберите файл шаблона .docx", Variant: notify.Destructive})
		return s.renderTemplateUpload(c, fiber.StatusBadRequest, flash.Notices())
	}

	file, err := fh.Open()
	if err != nil {
		return errl.Errorf("opening uploaded template: %w", err)
	}
	defer file.Close()

	ctx, cancel := s.viewContext(c)
	defer cancel()

	msg, err := s.uploader.UploadTemplate(ctx, fh.Filename, file)
	if err != nil {
		slog.Error("Template upload failed", "error", err, "where", errl.Where(err))
		n.Notify(notify.Notice{Title: "Ошибка", Description: "Не удалось загрузить шаблон", Variant: notify.Destructive})
		return s.renderTemplateUpload(c, fiber.StatusBadGateway, flash.Notices())
	}

	if msg == "" {
		msg = "Шаблон загружен"
	}
	n.Notify(notify.Notice{Title: "Готово!", Description: msg})
	return s.renderTemplateUpload(c, fiber.StatusOK, flash.Notices())
}

func (s *Server) renderTemplateUpload(c *fiber.Ctx, status int, notices []notify.Notice) error {
	c.Status(status)
	return s.htmlRender.Render(c, "admin_template", fiber.Map{
		"notices":    notices,
		"postAction": adminTemplateEndpoint,
	})
}
