package session

import (
	"context"
	"log/slog"
	"sync/atomic"

	"draw3droi/pkg/volume"
)

// Range is the display intensity window of one channel
type Range struct {
	Min, Max float64
}

// DisplaySpec tells a display how to read the volume it is handed
type DisplaySpec struct {
	// Name is the window title
	Name string

	// ChannelAxis is the channel dimension of the volume, -1 if none
	ChannelAxis int

	// ChannelCount is the number of channels, 1 without a channel axis
	ChannelCount int

	// Ranges holds one intensity window per channel; nil lets the display choose
	Ranges []Range
}

// Display renders the working view. A session closes the previous view
// before showing the next one.
type Display interface {
	Show(v *volume.Volume, spec DisplaySpec) error
	Close() error
}

// Status receives short progress messages. Delivery is advisory.
type Status interface {
	ShowStatus(msg string)
}

// LogStatus writes status messages to a slog logger at info level
type LogStatus struct {
	Logger *slog.Logger
}

// ShowStatus logs msg
func (s LogStatus) ShowStatus(msg string) {
	l := s.Logger
	if l == nil {
		l = Logger()
	}
	l.Info(msg)
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger sets the logger used by sessions. By default nothing is logged;
// nil restores that.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current session logger
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
