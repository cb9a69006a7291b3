// Package tracelog adapts the teacher's Before/After/Abort function
// listener shape (experimental/logging) to the runtime core's dispatch,
// object lifetime, and module registry events, backed by
// github.com/sirupsen/logrus instead of a raw io.Writer.
package tracelog

import "github.com/sirupsen/logrus"

// CallListener receives notifications around a metamethod dispatch or
// module operation, mirroring experimental.FunctionListener's
// Before/After/Abort shape.
type CallListener interface {
	Before(className, op string)
	After(className, op string)
	Abort(className, op string, err error)
}

// Logger wraps a logrus.FieldLogger and implements CallListener, with
// hooks for object destruction, zombie resurrection, module unload
// refusals, and exception propagation. vm.Open builds one over the
// engine's logger and exposes it as Engine.Trace; the engine itself does
// not call these hooks (its destroy and resurrect messages go straight to
// its logrus logger at Debug). Before/After/Destroyed/ExceptionPropagated
// log at Debug; Abort, Resurrected and ModuleUnloadRefused log at Warn.
type Logger struct {
	log   logrus.FieldLogger
	depth int
}

// New wraps log, defaulting to logrus.StandardLogger() if log is nil.
func New(log logrus.FieldLogger) *Logger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Logger{log: log}
}

func (l *Logger) Before(className, op string) {
	l.log.WithField("class", className).Debugf("--> %s", op)
	l.depth++
}

func (l *Logger) After(className, op string) {
	l.depth--
	l.log.WithField("class", className).Debugf("<-- %s", op)
}

func (l *Logger) Abort(className, op string, err error) {
	l.depth--
	l.log.WithField("class", className).WithError(err).Warnf("<-- %s aborted", op)
}

// Destroyed logs a successful object destruction.
func (l *Logger) Destroyed(className string) {
	l.log.WithField("class", className).Debug("object destroyed")
}

// Resurrected logs a destructor refusal or an Own() on a zombie.
func (l *Logger) Resurrected(className, reason string) {
	l.log.WithField("class", className).WithField("reason", reason).Warn("object resurrected")
}

// ModuleUnloadRefused logs a module that refused to close.
func (l *Logger) ModuleUnloadRefused(name string) {
	l.log.WithField("module", name).Warn("module refused unload")
}

// ExceptionPropagated logs an exception code crossing a call boundary
// uncaught, at Debug since this is routine control flow, not an anomaly.
func (l *Logger) ExceptionPropagated(codeName string) {
	l.log.WithField("code", codeName).Debug("exception propagated")
}
