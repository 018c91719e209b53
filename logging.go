package natsuzora

import (
	"github.com/juju/loggo"
)

// logger is the package-level logger for the loader and evaluator.
// Rendering itself never logs on the hot path (no per-node tracing):
// only loader cache hits/misses and recursion-guard trips are logged, so that a render over a deep tree doesn't pay for log
// formatting it never asked for.
//
// loggo defaults new loggers to loggo.WARNING with no writers
// registered beyond the root "default" writer, which is effectively
// silent until a caller opts in — matching the disabled-by-default
// posture embedding applications expect from a library logger.
var logger = loggo.GetLogger("natsuzora")

// SetLogLevel adjusts the verbosity of the package logger. Pass
// loggo.TRACE to see loader cache hits/misses, or loggo.WARNING
// (the default) to only see recursion-guard trips. Sandbox rejections
// are returned as errors and are not logged.
func SetLogLevel(level loggo.Level) {
	logger.SetLogLevel(level)
}
