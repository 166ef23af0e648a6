package httpapi

import (
	"log"

	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

func logf(format string, args ...any) {
	if zlog != nil {
		zlog.Info().Msgf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func logErr(err error, format string, args ...any) {
	if zlog != nil {
		zlog.Error().Err(err).Msgf(format, args...)
		return
	}
	log.Printf(format+" err=%v", append(args, err)...)
}
