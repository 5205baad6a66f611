// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options control Setup.
type Options struct {
	Verbose bool
	// File, when set, also receives JSON log lines with rotation.
	File string
	// Console defaults to stderr.
	Console io.Writer
}

// Setup installs the global logger and returns a closer for the log file,
// if any.
func Setup(opts Options) io.Closer {
	zerolog.TimeFieldFormat = time.RFC3339
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	var w io.Writer = zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		w = zerolog.MultiLevelWriter(w, file)
		closer = file
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	if opts.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
