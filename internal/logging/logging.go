// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var levelMatches = map[string]zerolog.Level{
	"NONE":  zerolog.Disabled,
	"TRACE": zerolog.TraceLevel,
	"DEBUG": zerolog.DebugLevel,
	"INFO":  zerolog.InfoLevel,
	"WARN":  zerolog.WarnLevel,
	"ERROR": zerolog.ErrorLevel,
}

// ParseLevel maps a level name to a zerolog level. Unknown names yield info
// and ok == false.
func ParseLevel(name string) (zerolog.Level, bool) {
	l, ok := levelMatches[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return zerolog.InfoLevel, false
	}
	return l, true
}

func isTerminalAttached() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) && runtime.GOOS != "windows"
}

// ConsoleWriter returns the human readable writer used on terminals.
func ConsoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02 15:04:05"}
}

// Setup installs the global logger. When file is set, output goes there
// instead of stdout; the returned func closes it.
func Setup(level, file string) (func(), error) {
	l, ok := ParseLevel(level)
	zerolog.SetGlobalLevel(l)
	if file != "" {
		f, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
		if !ok && level != "" {
			log.Warn().Str("level", level).Msg("unknown log level, using info")
		}
		return func() { _ = f.Close() }, nil
	}
	if isTerminalAttached() {
		log.Logger = log.Output(ConsoleWriter(os.Stdout))
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	if !ok && level != "" {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
	}
	return func() {}, nil
}

// Enabled checks if a specific logging level is enabled.
func Enabled(level zerolog.Level) bool {
	return level >= zerolog.GlobalLevel()
}
