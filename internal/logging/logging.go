// Package logging builds the JSON logger shared by every binary.
package logging

import (
	"log"
	"log/slog"
	"os"
	"strings"
)

// Setup configures a JSON slog logger tagged with the service name and
// environment, installs it as the default, and bridges the standard library
// logger so packages still using log.Printf emit structured lines too.
func Setup(service, env string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, nil)

	args := []any{slog.String("service", strings.TrimSpace(service))}
	if env = strings.TrimSpace(env); env != "" {
		args = append(args, slog.String("env", env))
	}

	logger := slog.New(handler).With(args...)
	slog.SetDefault(logger)

	bridge := slog.NewLogLogger(handler, slog.LevelInfo)
	bridge.SetFlags(0)
	log.SetOutput(bridge.Writer())
	log.SetFlags(0)

	return logger
}
