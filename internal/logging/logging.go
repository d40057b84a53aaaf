// Package logging builds the structured logger of the command line tool and
// turns checker events into log lines.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Log formats accepted by NewLogger.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// NewLogger returns a structured logger writing to w.
// If verbose == true, level = Debug, else Info. format is "json" (default)
// or "text". Proxy credentials are masked in every record.
func NewLogger(w io.Writer, verbose bool, format string) *slog.Logger {
	level := new(slog.LevelVar)
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: maskCredentials,
	}

	var handler slog.Handler
	if strings.EqualFold(format, FormatText) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// maskedKeys are the attributes that may carry a proxy URL.
var maskedKeys = map[string]bool{
	"proxy":         true,
	"url":           true,
	"address":       true,
	"error":         true,
	slog.MessageKey: true,
}

func maskCredentials(_ []string, a slog.Attr) slog.Attr {
	if !maskedKeys[a.Key] {
		return a
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, RedactProxy(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, RedactProxy(err.Error()))
		}
	}
	return a
}
