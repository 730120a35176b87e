//  Copyright 2014-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package logger_golog

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/couchbase/querystats/logging"
)

type goLogger struct {
	logger *log.Logger
	level  logging.Level
}

const _TIME_FORMAT = "2006-01-02T15:04:05.000-07:00"

func NewLogger(out io.Writer, lvl logging.Level) *goLogger {
	return &goLogger{
		logger: log.New(out, "", 0),
		level:  lvl,
	}
}

func (gl *goLogger) log(level logging.Level, msg string) {
	gl.logger.Print(time.Now().Format(_TIME_FORMAT) + " [" + level.String() + "] " + msg)
}

func (gl *goLogger) Loga(level logging.Level, f func() string) {
	if gl.logger == nil {
		return
	}
	if level <= gl.level {
		gl.log(level, f())
	}
}

func (gl *goLogger) Debuga(f func() string) {
	gl.Loga(logging.DEBUG, f)
}

func (gl *goLogger) Tracea(f func() string) {
	gl.Loga(logging.TRACE, f)
}

func (gl *goLogger) Infoa(f func() string) {
	gl.Loga(logging.INFO, f)
}

func (gl *goLogger) Warna(f func() string) {
	gl.Loga(logging.WARN, f)
}

func (gl *goLogger) Errora(f func() string) {
	gl.Loga(logging.ERROR, f)
}

func (gl *goLogger) Severea(f func() string) {
	gl.Loga(logging.SEVERE, f)
}

func (gl *goLogger) Fatala(f func() string) {
	gl.Loga(logging.FATAL, f)
}

func (gl *goLogger) Logf(level logging.Level, format string, args ...interface{}) {
	if gl.logger == nil {
		return
	}
	if level <= gl.level {
		gl.log(level, fmt.Sprintf(format, args...))
	}
}

func (gl *goLogger) Debugf(format string, args ...interface{}) {
	gl.Logf(logging.DEBUG, format, args...)
}

func (gl *goLogger) Tracef(format string, args ...interface{}) {
	gl.Logf(logging.TRACE, format, args...)
}

func (gl *goLogger) Infof(format string, args ...interface{}) {
	gl.Logf(logging.INFO, format, args...)
}

func (gl *goLogger) Warnf(format string, args ...interface{}) {
	gl.Logf(logging.WARN, format, args...)
}

func (gl *goLogger) Errorf(format string, args ...interface{}) {
	gl.Logf(logging.ERROR, format, args...)
}

func (gl *goLogger) Severef(format string, args ...interface{}) {
	gl.Logf(logging.SEVERE, format, args...)
}

func (gl *goLogger) Fatalf(format string, args ...interface{}) {
	gl.Logf(logging.FATAL, format, args...)
}

func (gl *goLogger) SetLevel(level logging.Level) {
	gl.level = level
}

func (gl *goLogger) Level() logging.Level {
	return gl.level
}
