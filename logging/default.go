package logging

import (
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
)

// ANSI color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
)

// DefaultLogger writes one line per record through the standard log package:
//
//	2024/01/02 15:04:05 [WARN] quadratic interpolation out of range {delta=0.7 idx=12}
//
// Fields are printed sorted by key so output is stable.
type DefaultLogger struct {
	out       *log.Logger
	mu        *sync.Mutex
	level     *Level
	fields    Fields
	useColors bool
}

// NewDefaultLogger creates a logger writing to w (os.Stderr when nil).
// Colors are enabled only when w is a terminal.
func NewDefaultLogger(w io.Writer) *DefaultLogger {
	if w == nil {
		w = os.Stderr
	}
	level := InfoLevel
	return &DefaultLogger{
		out:       log.New(w, "", log.LstdFlags),
		mu:        &sync.Mutex{},
		level:     &level,
		fields:    Fields{},
		useColors: isTerminal(w),
	}
}

// NewPlainLogger creates a logger without timestamps or colors, suited to
// tests and machine-readable output.
func NewPlainLogger(w io.Writer) *DefaultLogger {
	l := NewDefaultLogger(w)
	l.out.SetFlags(0)
	l.useColors = false
	return l
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if fileInfo, _ := f.Stat(); fileInfo != nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func (d *DefaultLogger) formatMessage(level Level, err error, msg string, fields ...Fields) string {
	allFields := make(Fields, len(d.fields))
	maps.Copy(allFields, d.fields)
	for _, f := range fields {
		maps.Copy(allFields, f)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", level, msg)
	if err != nil {
		fmt.Fprintf(&sb, ": %v", err)
	}

	if len(allFields) > 0 {
		keys := slices.Sorted(maps.Keys(allFields))
		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%s=%v", k, allFields[k])
		}
		sb.WriteByte('}')
	}

	logMsg := sb.String()
	if d.useColors {
		switch level {
		case WarnLevel:
			logMsg = ColorYellow + logMsg + ColorReset
		case ErrorLevel:
			logMsg = ColorRed + logMsg + ColorReset
		}
	}
	return logMsg
}

func (d *DefaultLogger) log(level Level, err error, msg string, fields ...Fields) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if level < *d.level {
		return
	}
	d.out.Println(d.formatMessage(level, err, msg, fields...))
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) {
	d.log(DebugLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Info(msg string, fields ...Fields) {
	d.log(InfoLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Warn(msg string, fields ...Fields) {
	d.log(WarnLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	d.log(ErrorLevel, err, msg, fields...)
}

// WithFields returns a child logger sharing output and level with d.
func (d *DefaultLogger) WithFields(fields Fields) Logger {
	newFields := make(Fields, len(d.fields)+len(fields))
	maps.Copy(newFields, d.fields)
	maps.Copy(newFields, fields)

	return &DefaultLogger{
		out:       d.out,
		mu:        d.mu,
		level:     d.level,
		fields:    newFields,
		useColors: d.useColors,
	}
}

// SetLevel sets the minimum level for d and every logger derived from it.
func (d *DefaultLogger) SetLevel(level Level) {
	d.mu.Lock()
	*d.level = level
	d.mu.Unlock()
}
