// Package form implements the contract form: field editing, the completeness
// check and the generation request with its user notices.
package form

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/models"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/notify"
)

// Generator produces the document package for a complete form.
type Generator interface {
	Generate(ctx context.Context, data models.ContractForm) (*models.Archive, error)
}

// ErrUnknownField is returned by Update for keys outside models.FieldKeys.
var ErrUnknownField = models.ErrUnknownField

// Notices emitted by the controller.
var (
	NoticeFillAllFields = notify.Notice{
		Title:       "Заполните все поля",
		Description: "Пожалуйста, заполните все обязательные поля формы",
		Variant:     notify.Destructive,
	}
	NoticeStarted = notify.Notice{
		Title:       "Генерация началась",
		Description: "Создаём пакет документов...",
		Variant:     notify.Default,
	}
	NoticeDone = notify.Notice{
		Title:       "Готово!",
		Description: "Документы успешно сгенерированы",
		Variant:     notify.Default,
	}
)

// Controller owns the state of one contract form view.
type Controller struct {
	gen    Generator
	notice notify.Notifier

	mu      sync.Mutex
	data    models.ContractForm
	loading bool
}

// New returns a controller with an empty form.
func New(gen Generator, n notify.Notifier) *Controller {
	if n == nil {
		n = notify.Discard
	}
	return &Controller{gen: gen, notice: n}
}

// Update replaces one field of the form. Any text is accepted for a known key.
func (c *Controller) Update(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Set(field, value)
}

// Load replaces the whole form, as when a page posts all its fields at once.
func (c *Controller) Load(data models.ContractForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
}

// Data returns a copy of the current form.
func (c *Controller) Data() models.ContractForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

// IsLoading reports whether a generation request is in flight.
func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Submit checks the form and, when complete, asks the generator for the documents.
// A missing field aborts with *models.ValidationError before anything is sent.
// The returned archive is nil when the generator produced no file.
func (c *Controller) Submit(ctx context.Context) (*models.Archive, error) {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	data := c.data
	if err := data.Validate(); err != nil {
		c.mu.Unlock()
		c.notice.Notify(NoticeFillAllFields)
		return nil, err
	}
	c.loading = true
	c.mu.Unlock()

	c.notice.Notify(NoticeStarted)

	archive, err := c.gen.Generate(ctx, data)

	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()

	// The view is gone, nobody is left to read the notice. An expired
	// deadline is a failure like any other.
	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
		slog.Debug("Generation abandoned", "contract_number", data.ContractNumber, "error", ctxErr)
		return nil, ctxErr
	}

	if err != nil {
		slog.Error("Generation failed", "contract_number", data.ContractNumber, "error", err)
		c.notice.Notify(failureNotice(err))
		return nil, err
	}

	c.notice.Notify(NoticeDone)
	return archive, nil
}

// ErrBusy is returned by Submit while a previous submission is still running.
var ErrBusy = errors.New("generation already in progress")

// Rejection is implemented by errors that name the fields refused by the generator.
type Rejection interface {
	RejectedFields() []string
}

func failureNotice(err error) notify.Notice {
	n := notify.Notice{
		Title:       "Ошибка генерации",
		Description: "Не удалось сгенерировать документы, попробуйте ещё раз",
		Variant:     notify.Destructive,
	}
	var rej Rejection
	if errors.As(err, &rej) {
		if fields := rej.RejectedFields(); len(fields) > 0 {
			n.Description = "Проверьте поля: " + strings.Join(fields, ", ")
		} else {
			n.Description = "Сервис отклонил данные формы"
		}
	}
	return n
}
