package tutorconfigs

import (
	"time"

	"github.com/reusee/tutor/cmds"
	"github.com/reusee/tutor/configs"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/vars"
)

const (
	DefaultRunTimeout        = 5 * time.Second
	DefaultMaxSteps          = 10_000_000
	DefaultMaxEvents         = 100_000
	DefaultMaxConcurrentRuns = 8
	DefaultPlaybackInterval  = time.Second
)

// RunTimeout bounds the wall clock time of one sandboxed run.
type RunTimeout time.Duration

var _ configs.Configurable = RunTimeout(0)

func (RunTimeout) ConfigPath() string {
	return "run_timeout"
}

var runTimeoutFlag = cmds.Var[time.Duration]("-run-timeout", "wall clock limit of one run")

func (Module) RunTimeout(
	loader configs.Loader,
	environment Environment,
	logger logs.Logger,
) RunTimeout {
	return RunTimeout(vars.FirstNonZero(
		max(*runTimeoutFlag, 0),
		environment.RunTimeout,
		parseDuration(logger, "run_timeout", configs.First[string](loader, "run_timeout")),
		DefaultRunTimeout,
	))
}

// MaxSteps is the Starlark execution step budget of one run.
type MaxSteps uint64

var _ configs.Configurable = MaxSteps(0)

func (MaxSteps) ConfigPath() string {
	return "max_steps"
}

var maxStepsFlag = cmds.Var[uint64]("-max-steps", "execution step limit of one run")

func (Module) MaxSteps(
	loader configs.Loader,
	environment Environment,
) MaxSteps {
	return MaxSteps(vars.FirstNonZero(
		*maxStepsFlag,
		environment.MaxSteps,
		configs.First[uint64](loader, "max_steps"),
		DefaultMaxSteps,
	))
}

// MaxEvents bounds the number of raw events one run may record.
type MaxEvents int

var _ configs.Configurable = MaxEvents(0)

func (MaxEvents) ConfigPath() string {
	return "max_events"
}

var maxEventsFlag = cmds.Var[int]("-max-events", "recorded event limit of one run")

func (Module) MaxEvents(
	loader configs.Loader,
	environment Environment,
) MaxEvents {
	return MaxEvents(vars.FirstNonZero(
		*maxEventsFlag,
		environment.MaxEvents,
		configs.First[int](loader, "max_events"),
		DefaultMaxEvents,
	))
}

// MaxConcurrentRuns bounds the sandboxes executing at the same time.
type MaxConcurrentRuns int

var _ configs.Configurable = MaxConcurrentRuns(0)

func (MaxConcurrentRuns) ConfigPath() string {
	return "max_concurrent_runs"
}

var maxConcurrentRunsFlag = cmds.Var[int]("-max-concurrent-runs", "runs executing at the same time")

func (Module) MaxConcurrentRuns(
	loader configs.Loader,
	environment Environment,
) MaxConcurrentRuns {
	return MaxConcurrentRuns(vars.FirstNonZero(
		*maxConcurrentRunsFlag,
		environment.MaxConcurrentRuns,
		configs.First[int](loader, "max_concurrent_runs"),
		DefaultMaxConcurrentRuns,
	))
}

// PlaybackInterval is the delay between frames at speed 1.
type PlaybackInterval time.Duration

var _ configs.Configurable = PlaybackInterval(0)

func (PlaybackInterval) ConfigPath() string {
	return "playback_interval"
}

var playbackIntervalFlag = cmds.Var[time.Duration]("-playback-interval", "delay between frames at speed 1")

func (Module) PlaybackInterval(
	loader configs.Loader,
	environment Environment,
	logger logs.Logger,
) PlaybackInterval {
	return PlaybackInterval(vars.FirstNonZero(
		max(*playbackIntervalFlag, 0),
		environment.PlaybackInterval,
		parseDuration(logger, "playback_interval", configs.First[string](loader, "playback_interval")),
		DefaultPlaybackInterval,
	))
}

func parseDuration(logger logs.Logger, what string, str string) time.Duration {
	if str == "" {
		return 0
	}
	d, err := time.ParseDuration(str)
	if err != nil {
		logger.Warn("bad duration", "setting", what, "value", str, "error", err)
		return 0
	}
	if d < 0 {
		return 0
	}
	return d
}
