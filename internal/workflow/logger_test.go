package workflow

import "github.com/ternarybob/arbor"

// quietLogger discards everything below panic level.
func quietLogger() arbor.ILogger {
	return arbor.NewLogger().WithLevelFromString("disabled")
}
