package meshnet

//
// Data model
//

// Logger is the logger every package in this module accepts. Library
// code never imports a concrete logging backend directly; only
// cmd/meshsim wires a [Logger] implementation backed by
// github.com/apex/log.
type Logger interface {
	// Debugf formats and emits a debug message.
	Debugf(format string, v ...any)

	// Debug emits a debug message.
	Debug(message string)

	// Infof formats and emits an informational message.
	Infof(format string, v ...any)

	// Info emits an informational message.
	Info(message string)

	// Warnf formats and emits a warning message.
	Warnf(format string, v ...any)

	// Warn emits a warning message.
	Warn(message string)
}
