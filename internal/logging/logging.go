// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the process logger: a colorized console sink and a
// daily-rotating JSON file sink, both fed from one zap core tee.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/doc2pdf/pkg/types"
)

// TimeLayout is the timestamp format used by both sinks.
const TimeLayout = "2006-01-02 15:04:05.000"

// FieldMessageID is the log key carrying the caller's correlation ID.
const FieldMessageID = "mirthMessageID"

// MessageID tags a log entry with the caller-supplied correlation ID.
func MessageID(id string) zap.Field {
	return zap.String(FieldMessageID, id)
}

var levelColors = map[zapcore.Level]*color.Color{
	zapcore.DebugLevel:  color.New(color.FgMagenta),
	zapcore.InfoLevel:   color.New(color.FgGreen),
	zapcore.WarnLevel:   color.New(color.FgYellow),
	zapcore.ErrorLevel:  color.New(color.FgRed),
	zapcore.DPanicLevel: color.New(color.FgRed),
	zapcore.PanicLevel:  color.New(color.FgRed),
	zapcore.FatalLevel:  color.New(color.FgRed),
}

// ParseLevel maps a configured level name to a zap level. "silly" and
// "verbose" are accepted as aliases for debug.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "silly", "verbose", "trace":
		return zapcore.DebugLevel, nil
	}
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return lvl, fmt.Errorf("parsing log level %q: %w", s, err)
	}
	return lvl, nil
}

// ConsoleEncoder renders "[timestamp] level: message" followed by fields.
func ConsoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:    "timestamp",
		LevelKey:   "level",
		MessageKey: "message",
		NameKey:    "logger",
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + t.Format(TimeLayout) + "]")
		},
		EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			c, ok := levelColors[l]
			if !ok {
				enc.AppendString(l.String() + ":")
				return
			}
			enc.AppendString(c.Sprint(l.String()) + ":")
		},
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})
}

// FileEncoder renders one JSON object per entry.
func FileEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		NameKey:        "logger",
		StacktraceKey:  "stacktrace",
		EncodeTime:     zapcore.TimeEncoderOfLayout(TimeLayout),
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	})
}

// New builds the process logger. console receives the human-readable
// stream; unless cfg.DisableFile is set, a DailyWriter under cfg.Dir
// receives the JSON stream. The returned closer releases the file sink.
func New(cfg types.LoggingConfig, console io.Writer) (*zap.Logger, io.Closer, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	cores := []zapcore.Core{
		zapcore.NewCore(ConsoleEncoder(), zapcore.AddSync(console), lvl),
	}

	var closer io.Closer = nopCloser{}
	if !cfg.DisableFile {
		fw, err := NewDailyWriter(cfg)
		if err != nil {
			return nil, nil, err
		}
		cores = append(cores, zapcore.NewCore(FileEncoder(), fw, lvl))
		closer = fw
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.DPanicLevel))
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
