package logger

import (
	"io"
	"os"
	"sort"

	charmlog "github.com/charmbracelet/log"
)

// CharmLogger routes ports.Logger calls to a charmbracelet logger.
type CharmLogger struct {
	log *charmlog.Logger
}

// Options configures the logger output.
type Options struct {
	Level  string
	JSON   bool
	Output io.Writer
}

// New creates a CharmLogger writing to stderr by default.
func New(opts Options) *CharmLogger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	level, err := charmlog.ParseLevel(opts.Level)
	if err != nil {
		level = charmlog.InfoLevel
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
	if opts.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	}
	return &CharmLogger{log: l}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *CharmLogger {
	return New(Options{Level: "error", Output: io.Discard})
}

func (l *CharmLogger) Debug(msg string, fields map[string]interface{}) {
	l.log.Debug(msg, keyvals(fields)...)
}

func (l *CharmLogger) Info(msg string, fields map[string]interface{}) {
	l.log.Info(msg, keyvals(fields)...)
}

func (l *CharmLogger) Warn(msg string, fields map[string]interface{}) {
	l.log.Warn(msg, keyvals(fields)...)
}

func (l *CharmLogger) Error(msg string, err error, fields map[string]interface{}) {
	kv := keyvals(fields)
	if err != nil {
		kv = append([]interface{}{"err", err}, kv...)
	}
	l.log.Error(msg, kv...)
}

// keyvals flattens fields in key order so output is stable.
func keyvals(fields map[string]interface{}) []interface{} {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]interface{}, 0, len(keys)*2)
	for _, k := range keys {
		out = append(out, k, fields[k])
	}
	return out
}
