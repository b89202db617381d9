// Package notify delivers operator-facing result messages.
//
// Notifications are fire-and-forget: Notify never blocks and callers never
// wait for an acknowledgement. The console shows them as auto-dismissing
// toasts, the CLI prints them as lines.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Level int

const (
	LevelSuccess Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

type Notification struct {
	ID      uint64
	Level   Level
	Text    string
	Created time.Time
	Expires time.Time
}

// Notifier receives result messages. Implementations must not block.
type Notifier interface {
	Notify(level Level, text string)
}

// Func adapts a plain function to a Notifier.
type Func func(level Level, text string)

func (f Func) Notify(level Level, text string) { f(level, text) }

// Discard drops every notification.
var Discard Notifier = Func(func(Level, string) {})

const defaultQueueSize = 8

// Queue keeps the most recent notifications until they expire.
type Queue struct {
	mu    sync.Mutex
	ttl   time.Duration
	max   int
	seq   uint64
	items []Notification
	now   func() time.Time
}

func NewQueue(ttl time.Duration) *Queue {
	return &Queue{
		ttl: ttl,
		max: defaultQueueSize,
		now: time.Now,
	}
}

func (q *Queue) Notify(level Level, text string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	q.seq++
	q.items = append(q.items, Notification{
		ID:      q.seq,
		Level:   level,
		Text:    text,
		Created: now,
		Expires: now.Add(q.ttl),
	})
	if len(q.items) > q.max {
		q.items = append([]Notification(nil), q.items[len(q.items)-q.max:]...)
	}
}

// Active prunes expired notifications and returns the rest, oldest first.
func (q *Queue) Active() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	kept := q.items[:0]
	for _, n := range q.items {
		if now.Before(n.Expires) {
			kept = append(kept, n)
		}
	}
	q.items = kept
	return append([]Notification(nil), q.items...)
}

// Writer prints one line per notification.
type Writer struct {
	mu    sync.Mutex
	out   io.Writer
	errs  io.Writer
	quiet bool
}

// NewWriter prints successes to out and warnings/errors to errs. When quiet is
// set, successes are dropped.
func NewWriter(out, errs io.Writer, quiet bool) *Writer {
	return &Writer{out: out, errs: errs, quiet: quiet}
}

func (w *Writer) Notify(level Level, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch level {
	case LevelSuccess:
		if w.quiet {
			return
		}
		fmt.Fprintln(w.out, text)
	case LevelWarning:
		fmt.Fprintf(w.errs, "Warning: %s\n", text)
	default:
		fmt.Fprintf(w.errs, "Error: %s\n", text)
	}
}

// Logged records every notification before passing it on.
func Logged(next Notifier, logger *zap.Logger) Notifier {
	return Func(func(level Level, text string) {
		switch level {
		case LevelError:
			logger.Error("notify", zap.String("text", text))
		case LevelWarning:
			logger.Warn("notify", zap.String("text", text))
		default:
			logger.Info("notify", zap.String("text", text))
		}
		next.Notify(level, text)
	})
}
