// Package logger provides color-coded leveled logging for the jwt-hack CLI.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Component identifiers for color-coded logging
type Component string

const (
	ComponentMain    Component = "JWT-HACK"
	ComponentDecode  Component = "DECODE"
	ComponentEncode  Component = "ENCODE"
	ComponentVerify  Component = "VERIFY"
	ComponentCrack   Component = "CRACK"
	ComponentPayload Component = "PAYLOAD"
)

// ANSI color codes
const (
	colorReset   = "\033[0m"
	colorDim     = "\033[2m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// componentColors maps components to their display colors
var componentColors = map[Component]string{
	ComponentMain:    colorBlue,
	ComponentDecode:  colorCyan,
	ComponentEncode:  colorGreen,
	ComponentVerify:  colorYellow,
	ComponentCrack:   colorMagenta,
	ComponentPayload: colorBlue,
}

// ColorHandler is a custom slog handler that writes timestamped,
// color-coded, component-tagged lines to a single writer.
type ColorHandler struct {
	slog.Handler
	out       io.Writer
	mu        sync.Mutex
	component Component
	useColors bool
	level     slog.Level
}

// NewColorHandler creates a new color-coded handler
func NewColorHandler(out io.Writer, component Component, useColors bool, level slog.Level) *ColorHandler {
	opts := &slog.HandlerOptions{Level: level}
	return &ColorHandler{
		Handler:   slog.NewTextHandler(out, opts),
		out:       out,
		component: component,
		useColors: useColors,
		level:     level,
	}
}

func (h *ColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle writes a record as: [HH:MM:SS.mmm] [LEVEL] [COMPONENT] message attrs...
func (h *ColorHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	color := componentColors[h.component]
	dim, reset := colorDim, colorReset
	levelColor := levelColorOf(r.Level)
	if !h.useColors {
		color, dim, reset, levelColor = "", "", "", ""
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	fmt.Fprintf(h.out, "%s[%s]%s %s[%-5s]%s %s[%s]%s %s",
		dim, ts.Format("15:04:05.000"), reset,
		levelColor, r.Level.String(), reset,
		color, h.component, reset,
		r.Message)

	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(h.out, " %s=%v", a.Key, a.Value)
		return true
	})
	fmt.Fprintln(h.out)

	return nil
}

// WithAttrs returns a new handler with the given attributes
func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ColorHandler{
		Handler:   h.Handler.WithAttrs(attrs),
		out:       h.out,
		component: h.component,
		useColors: h.useColors,
		level:     h.level,
	}
}

// WithGroup returns a new handler with the given group
func (h *ColorHandler) WithGroup(name string) slog.Handler {
	return &ColorHandler{
		Handler:   h.Handler.WithGroup(name),
		out:       h.out,
		component: h.component,
		useColors: h.useColors,
		level:     h.level,
	}
}

func levelColorOf(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorBlue
	default:
		return colorCyan
	}
}

// Logger wraps slog.Logger with component-specific functionality
type Logger struct {
	*slog.Logger
	component Component
}

// New creates a new component-specific logger writing to stderr. Colors are
// suppressed when NO_COLOR is set or TERM=dumb.
func New(component Component) *Logger {
	return NewWithWriter(component, os.Stderr, UseColors(), slog.LevelInfo)
}

// NewVerbose is New with the debug level enabled.
func NewVerbose(component Component) *Logger {
	return NewWithWriter(component, os.Stderr, UseColors(), slog.LevelDebug)
}

// NewWithWriter creates a logger with a custom writer
func NewWithWriter(component Component, w io.Writer, useColors bool, level slog.Level) *Logger {
	handler := NewColorHandler(w, component, useColors, level)
	return &Logger{
		Logger:    slog.New(handler),
		component: component,
	}
}

// UseColors reports whether colored output should be emitted.
func UseColors() bool {
	return os.Getenv("NO_COLOR") == "" && os.Getenv("TERM") != "dumb"
}

// Success logs a success message
func (l *Logger) Success(msg string, args ...any) {
	l.Info("✅ "+msg, args...)
}

// Fail logs a negative-outcome message (not an error condition)
func (l *Logger) Fail(msg string, args ...any) {
	l.Warn("❌ "+msg, args...)
}
