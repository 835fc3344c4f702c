package main

import (
	"github.com/apex/log"
	"github.com/keke1008/meshnet"
)

// apexLogger adapts the package-level github.com/apex/log logger to
// [meshnet.Logger]. cmd/meshsim is the only package in this module that
// imports apex/log directly, matching the teacher's own discipline of keeping
// the logging backend out of library packages.
type apexLogger struct{}

var _ meshnet.Logger = apexLogger{}

func (apexLogger) Debugf(format string, v ...any) { log.Debugf(format, v...) }
func (apexLogger) Debug(message string)           { log.Debug(message) }
func (apexLogger) Infof(format string, v ...any)  { log.Infof(format, v...) }
func (apexLogger) Info(message string)            { log.Info(message) }
func (apexLogger) Warnf(format string, v ...any)  { log.Warnf(format, v...) }
func (apexLogger) Warn(message string)            { log.Warn(message) }
