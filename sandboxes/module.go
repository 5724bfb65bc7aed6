package sandboxes

import (
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/modes"
	"github.com/reusee/tutor/tutorconfigs"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}

func (Module) Sandbox(
	timeout tutorconfigs.RunTimeout,
	maxSteps tutorconfigs.MaxSteps,
	maxEvents tutorconfigs.MaxEvents,
	mode modes.Mode,
	logger logs.Logger,
) *Sandbox {
	return &Sandbox{
		Timeout:   time.Duration(timeout),
		MaxSteps:  uint64(maxSteps),
		MaxEvents: int(maxEvents),
		Backtrace: mode == modes.ModeDevelopment,
		logger:    logger,
	}
}
