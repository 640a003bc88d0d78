// Package logging builds the console logger shared by every command.
package logging

import (
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"
)

// DefaultLevel is used when no --log-level flag is given.
const DefaultLevel = "warn"

// New returns a console logger filtered at level ("debug", "info", "warn", "error").
func New(level string) arbor.ILogger {
	if level == "" {
		level = DefaultLevel
	}
	return arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:       arbor_models.LogWriterTypeConsole,
		TimeFormat: "15:04:05",
	}).WithLevelFromString(level)
}
