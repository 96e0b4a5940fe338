// SPDX-License-Identifier: MIT

// Package logs holds the process-wide logrus logger used by every streetnet
// package. It is usable without Init (Info level, text to stderr).
package logs

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the shared logger.
var Logger = logrus.New()

// Format names accepted by Init.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Init configures Logger. level is a logrus level name ("debug", "info", ...),
// format is FormatText or FormatJSON. When file is non-empty output goes to
// both the file (appended) and out.
func Init(level, format, file string, out io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logs: %w", err)
	}
	Logger.SetLevel(lvl)

	switch format {
	case "", FormatText:
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case FormatJSON:
		Logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("logs: unknown format %q", format)
	}

	if out == nil {
		out = os.Stderr
	}
	if file == "" {
		Logger.SetOutput(out)
		return nil
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o666)
	if err != nil {
		return fmt.Errorf("logs: %w", err)
	}
	Logger.SetOutput(io.MultiWriter(f, out))

	return nil
}
