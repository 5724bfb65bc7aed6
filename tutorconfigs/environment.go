package tutorconfigs

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/reusee/tutor/logs"
)

// Environment holds the TUTOR_* overrides.
type Environment struct {
	Listen            string        `env:"TUTOR_LISTEN"`
	MaxConcurrentRuns int           `env:"TUTOR_MAX_CONCURRENT_RUNS"`
	RunTimeout        time.Duration `env:"TUTOR_RUN_TIMEOUT"`
	MaxSteps          uint64        `env:"TUTOR_MAX_STEPS"`
	MaxEvents         int           `env:"TUTOR_MAX_EVENTS"`
	PlaybackInterval  time.Duration `env:"TUTOR_PLAYBACK_INTERVAL"`
	DatabasePath      string        `env:"TUTOR_DATABASE_PATH"`
	JWTSecret         string        `env:"TUTOR_JWT_SECRET"`
	AllowedOrigins    []string      `env:"TUTOR_ALLOWED_ORIGINS" envSeparator:","`
	OTLPEndpoint      string        `env:"TUTOR_OTLP_ENDPOINT"`
}

func (Module) Environment(
	logger logs.Logger,
) Environment {
	var ret Environment
	if err := env.Parse(&ret); err != nil {
		// malformed values are ignored as a whole
		logger.Warn("parse environment", "error", err)
		return Environment{}
	}
	return ret
}
