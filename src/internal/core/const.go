// FILE: logfan/src/internal/core/const.go
package core

import "time"

// Dispatcher defaults
const (
	// DefaultLagCheckInterval is the number of delivered entries between
	// lag checks.
	DefaultLagCheckInterval = 5000

	// DefaultLagThreshold is the delivery delay above which a backlog
	// warning is emitted.
	DefaultLagThreshold = 30 * time.Second

	// DefaultFailureLogPerSecond caps how often a persistently failing
	// appender is reported to the operational logger.
	DefaultFailureLogPerSecond = 1.0

	// DefaultFailureLogBurst allows a short run of distinct failures to
	// be reported before the cap kicks in.
	DefaultFailureLogBurst = 5
)
