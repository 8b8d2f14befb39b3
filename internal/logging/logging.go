// Package logging configures the global zerolog logger used for
// diagnostics. Test results are printed by the reporter, not logged.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	// Console receives human readable logs. Defaults to stderr.
	Console io.Writer
	// File, when set, additionally receives JSON logs with rotation.
	File    string
	Verbose bool
}

// Init replaces the global logger. Console output is limited to warnings
// unless Verbose is set; the log file always records debug events.
func Init(opts Options) error {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	consoleLevel := zerolog.WarnLevel
	if opts.Verbose {
		consoleLevel = zerolog.DebugLevel
	}

	writers := []io.Writer{
		&levelWriter{
			Writer: zerolog.ConsoleWriter{Out: console, TimeFormat: "15:04:05", NoColor: true},
			level:  consoleLevel,
		},
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    1,
			MaxBackups: 2,
		})
	}

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Logger()

	return nil
}

// levelWriter drops events below level.
type levelWriter struct {
	io.Writer
	level zerolog.Level
}

func (w *levelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < w.level {
		return len(p), nil
	}
	return w.Write(p)
}
