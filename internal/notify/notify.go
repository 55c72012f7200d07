// Package notify carries transient user notices ("toasts") from the form and
// history views to whatever renders them.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Variant selects how a notice is presented.
type Variant string

const (
	Default     Variant = "default"
	Destructive Variant = "destructive"
)

// Notice is a short message for the user.
type Notice struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Variant     Variant `json:"variant"`
}

// Notifier receives notices. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Flash collects the notices produced while rendering one view.
type Flash struct {
	mu      sync.Mutex
	notices []Notice
}

func (f *Flash) Notify(n Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, n)
}

// Notices returns a copy of the collected notices in emission order.
func (f *Flash) Notices() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notice, len(f.notices))
	copy(out, f.notices)
	return out
}

// Last returns the most recent notice, if any.
func (f *Flash) Last() (Notice, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.notices) == 0 {
		return Notice{}, false
	}
	return f.notices[len(f.notices)-1], true
}

// Log writes notices to a slog logger. A nil Logger uses slog.Default().
type Log struct {
	Logger *slog.Logger
	View   string
}

func (l Log) Notify(n Notice) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	if n.Variant == Destructive {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, "Notice", "view", l.View, "title", n.Title, "description", n.Description)
}

type multi []Notifier

func (m multi) Notify(n Notice) {
	for _, target := range m {
		target.Notify(n)
	}
}

// Multi returns a Notifier that delivers every notice to all of targets. Nil targets are skipped.
func Multi(targets ...Notifier) Notifier {
	out := make(multi, 0, len(targets))
	for _, t := range targets {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// Discard drops every notice.
var Discard Notifier = NotifierFunc(func(Notice) {})
