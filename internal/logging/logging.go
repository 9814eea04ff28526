// Package logging configures the process wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at a console writer on w (stderr when nil)
// and sets the minimum level. An empty level means info.
func Setup(level string, w io.Writer) error {
	if level == "" {
		level = zerolog.InfoLevel.String()
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if w == nil {
		w = os.Stderr
	}

	zerolog.SetGlobalLevel(lvl)
	_, noColor := os.LookupEnv("NO_COLOR")
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor || w != os.Stderr,
		TimeFormat: time.TimeOnly,
	})
	return nil
}
