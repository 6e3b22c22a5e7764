// Package logging holds the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level aliases accepted on top of logrus level names.
const (
	LevelVerbose = "VERBOSE"
	LevelQuiet   = "QUIET"
)

// Log is usable before Init; it writes info and above to stderr.
var Log = newLogger(os.Stderr)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// ParseLevel maps a config/flag value to a logrus level.
func ParseLevel(level string) (logrus.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "":
		return logrus.InfoLevel, nil
	case LevelVerbose:
		return logrus.DebugLevel, nil
	case LevelQuiet:
		return logrus.WarnLevel, nil
	}
	return logrus.ParseLevel(level)
}

// Init sets level and output. Logs go to stderr, and also to logFile when set.
func Init(level, logFile string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stderr
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return fmt.Errorf("log dir: %w", err)
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		out = io.MultiWriter(os.Stderr, f)
	}

	Log.SetOutput(out)
	Log.SetLevel(lvl)
	return nil
}

// SetLevel changes the level in place, keeping the current level on a bad value.
func SetLevel(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	Log.SetLevel(lvl)
	return nil
}

// WithFields returns an entry on the global logger.
func WithFields(f logrus.Fields) *logrus.Entry { return Log.WithFields(f) }
