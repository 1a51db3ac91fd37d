package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns the global logger tagged with cmp=name. Call it after
// log.Logger is configured; the returned logger does not follow later
// reassignments.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
