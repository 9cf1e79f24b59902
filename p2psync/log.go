package p2psync

import "github.com/decred/slog"

// log is the package-scoped subsystem logger. It is disabled until the
// hosting binary wires a real backend via UseLogger.
var log = slog.Disabled

// UseLogger sets the subsystem logger used by this package.
func UseLogger(logger slog.Logger) {
	log = logger
}
