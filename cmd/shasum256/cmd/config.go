package cmd

import "massnet.org/shapipe/logging"

const (
	defaultLanes          = 1
	defaultUnbounded      = true
	defaultBufferCapacity = 1 << 20
	defaultLogDir         = "."
	defaultLogLevel       = "info"
)

// config collects the CLI's tunable knobs: how many compression lanes
// to run, whether the input buffer is capped, and where logging
// writes. Every field is set directly from a cobra flag; there is no
// environment variable or config file source, matching the package's
// no-persisted-state scope.
type config struct {
	lanes          int
	unbounded      bool
	bufferCapacity int
	logDir         string
	logLevel       string
}

var cfg = &config{
	lanes:          defaultLanes,
	unbounded:      defaultUnbounded,
	bufferCapacity: defaultBufferCapacity,
	logDir:         defaultLogDir,
	logLevel:       defaultLogLevel,
}

// initLogger brings up logging once cobra has parsed the persistent
// flags, so log_dir and log_level reflect what the caller actually
// passed rather than compiled-in defaults.
func initLogger() {
	logging.Init(cfg.logDir, "shasum256", cfg.logLevel, 1, true)
}
