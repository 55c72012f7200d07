// Package history implements the view listing previously generated contracts.
package history

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/models"
	"github.com/pr-poehali-dev/license-agreement-generator/internal/notify"
)

// Source returns the generation history.
type Source interface {
	ListContracts(ctx context.Context) ([]models.ContractRecord, error)
}

// Mode is what the view displays.
type Mode string

const (
	ModeLoading Mode = "loading"
	ModeEmpty   Mode = "empty"
	ModeList    Mode = "list"
)

// NoticeLoadFailed is emitted when the history cannot be read.
var NoticeLoadFailed = notify.Notice{
	Title:       "Ошибка",
	Description: "Не удалось загрузить историю договоров",
	Variant:     notify.Destructive,
}

// Viewer owns the state of one history view.
type Viewer struct {
	src    Source
	notice notify.Notifier
	loc    *time.Location
	lang   language.Tag

	once    sync.Once
	mu      sync.Mutex
	loading bool
	records []models.ContractRecord
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithLocation sets the time zone used to display creation times.
func WithLocation(loc *time.Location) Option {
	return func(v *Viewer) {
		if loc != nil {
			v.loc = loc
		}
	}
}

// WithLanguage sets the language of the generated labels.
func WithLanguage(tag language.Tag) Option {
	return func(v *Viewer) {
		v.lang = tag
	}
}

// New returns a viewer in the loading state with no records.
func New(src Source, n notify.Notifier, opts ...Option) *Viewer {
	if n == nil {
		n = notify.Discard
	}
	v := &Viewer{
		src:     src,
		notice:  n,
		loc:     time.Local,
		lang:    language.Russian,
		loading: true,
		records: []models.ContractRecord{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Load reads the history. Only the first call does any work.
// Failures leave the list empty and are reported as a notice, never returned:
// the view always ends up out of the loading state.
func (v *Viewer) Load(ctx context.Context) {
	v.once.Do(func() {
		v.load(ctx)
	})
}

func (v *Viewer) load(ctx context.Context) {
	records, err := v.src.ListContracts(ctx)

	// A cancelled view is gone; an expired deadline is a failed read and reported below.
	if errors.Is(ctx.Err(), context.Canceled) {
		slog.Debug("History load abandoned", "error", ctx.Err())
		v.mu.Lock()
		v.loading = false
		v.mu.Unlock()
		return
	}

	v.mu.Lock()
	if err == nil {
		v.records = records
		if v.records == nil {
			v.records = []models.ContractRecord{}
		}
	}
	v.loading = false
	v.mu.Unlock()

	if err != nil {
		slog.Error("Failed to load contract history", "error", err)
		v.notice.Notify(NoticeLoadFailed)
		return
	}

	warnDuplicateKeys(records)
}

// IsLoading reports whether the history has not been loaded yet.
func (v *Viewer) IsLoading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Records returns the loaded records in the order the source returned them.
func (v *Viewer) Records() []models.ContractRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]models.ContractRecord, len(v.records))
	copy(out, v.records)
	return out
}

// Count is the number of loaded records.
func (v *Viewer) Count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.records)
}

// Mode selects the display from the loading flag and the number of records.
func (v *Viewer) Mode() Mode {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case v.loading:
		return ModeLoading
	case len(v.records) == 0:
		return ModeEmpty
	default:
		return ModeList
	}
}

// CountLabel is the footer shown under the list.
func (v *Viewer) CountLabel() string {
	return message.NewPrinter(v.lang).Sprintf(countMessage, v.Count())
}

func warnDuplicateKeys(records []models.ContractRecord) {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, ok := seen[r.ContractNumber]; ok {
			slog.Warn("Duplicate contract number in history", "contract_number", r.ContractNumber)
			continue
		}
		seen[r.ContractNumber] = struct{}{}
	}
}
