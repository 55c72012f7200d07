package web

import (
	"io/fs"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/form"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/history"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/models"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/notify"
)

// Views returns the embedded templates, rooted at the views directory.
func Views() (fs.FS, error) {
	return fs.Sub(viewsfs, "views")
}

var previewRecords = []models.ContractRecord{
	{
		ContractNumber: "25/10/2025",
		Nickname:       "EDDI$",
		FullName:       "EDUARD FRANK IOSIFOVIC",
		ContractDate:   "25 октября 2025 г.",
		Citizenship:    "Германии",
		Email:          "mr-frank-eduard@web.de",
		Passport:       "GER: L8V2RCZ80",
		CreatedAt:      "2025-10-25T14:30:00Z",
	},
	{
		ContractNumber: "24/10/2025",
		Nickname:       "ANNA K",
		FullName:       "ANNA KARLOVNA",
		ContractDate:   "24 октября 2025 г.",
		Citizenship:    "России",
		Email:          "anna@example.ru",
		Passport:       "RUS: 4510 123456",
		CreatedAt:      "2025-10-24 09:05:00",
	},
}

// PreviewData returns sample data for the named page, so templates can be
// reviewed without the remote functions. The boolean is false for unknown pages.
func PreviewData(name string) (fiber.Map, bool) {
	switch name {
	case "form":
		return fiber.Map{
			"tab":        "form",
			"fields":     formFields(models.ContractForm{ContractNumber: "25/10/2025"}, []string{models.FieldEmail}),
			"example":    formFields(models.ExampleContractForm, nil),
			"notices":    []notify.Notice{form.NoticeFillAllFields},
			"postAction": generateEndpoint,
		}, true
	case "history":
		cards := make([]history.Card, 0, len(previewRecords))
		for _, r := range previewRecords {
			cards = append(cards, history.NewCard(r, time.UTC))
		}
		return fiber.Map{
			"mode":       string(history.ModeList),
			"cards":      cards,
			"count":      len(cards),
			"countLabel": "Всего договоров: 2",
			"notices":    nil,
			"formURL":    formEndpoint,
		}, true
	case "admin_template":
		return fiber.Map{
			"notices":    []notify.Notice{{Title: "Шаблон загружен", Description: "template.docx"}},
			"postAction": adminTemplateEndpoint,
		}, true
	case "error":
		return fiber.Map{"code": fiber.StatusBadGateway, "message": "Сервис генерации недоступен"}, true
	}
	return nil, false
}
