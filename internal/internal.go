// Package internal contains internal implementation details.
package internal

import "github.com/keke1008/meshnet"

// NullLogger is a [meshnet.Logger] that does not emit logs.
type NullLogger struct{}

// Debug implements meshnet.Logger
func (nl *NullLogger) Debug(message string) {
	// nothing
}

// Debugf implements meshnet.Logger
func (nl *NullLogger) Debugf(format string, v ...any) {
	// nothing
}

// Info implements meshnet.Logger
func (nl *NullLogger) Info(message string) {
	// nothing
}

// Infof implements meshnet.Logger
func (nl *NullLogger) Infof(format string, v ...any) {
	// nothing
}

// Warn implements meshnet.Logger
func (nl *NullLogger) Warn(message string) {
	// nothing
}

// Warnf implements meshnet.Logger
func (nl *NullLogger) Warnf(format string, v ...any) {
	// nothing
}

var _ meshnet.Logger = &NullLogger{}
