//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package logging

import (
	"testing"
)

type testLogger struct {
	level Level
	count int
}

func (this *testLogger) Loga(level Level, f func() string) { this.count++ }
func (this *testLogger) Debuga(f func() string)            { this.count++ }
func (this *testLogger) Tracea(f func() string)            { this.count++ }
func (this *testLogger) Infoa(f func() string)             { this.count++ }
func (this *testLogger) Warna(f func() string)             { this.count++ }
func (this *testLogger) Errora(f func() string)            { this.count++ }
func (this *testLogger) Severea(f func() string)           { this.count++ }
func (this *testLogger) Fatala(f func() string)            { this.count++ }

func (this *testLogger) Logf(level Level, fmt string, args ...interface{}) { this.count++ }
func (this *testLogger) Debugf(fmt string, args ...interface{})            { this.count++ }
func (this *testLogger) Tracef(fmt string, args ...interface{})            { this.count++ }
func (this *testLogger) Infof(fmt string, args ...interface{})             { this.count++ }
func (this *testLogger) Warnf(fmt string, args ...interface{})             { this.count++ }
func (this *testLogger) Errorf(fmt string, args ...interface{})            { this.count++ }
func (this *testLogger) Severef(fmt string, args ...interface{})           { this.count++ }
func (this *testLogger) Fatalf(fmt string, args ...interface{})            { this.count++ }

func (this *testLogger) SetLevel(level Level) { this.level = level }
func (this *testLogger) Level() Level         { return this.level }

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in    string
		level Level
		ok    bool
	}{
		{"debug", DEBUG, true},
		{"DEBUG", DEBUG, true},
		{"Info", INFO, true},
		{"error", ERROR, true},
		{"none", NONE, true},
		{"chatty", NONE, false},
	}
	for _, c := range cases {
		level, ok := ParseLevel(c.in)
		if ok != c.ok || (ok && level != c.level) {
			t.Errorf("ParseLevel(%q) = %v, %v", c.in, level, ok)
		}
	}
}

func TestLevelString(t *testing.T) {
	if INFO.String() != "INFO" || TRACE.String() != "TRACE" {
		t.Errorf("level names broken: %v %v", INFO, TRACE)
	}
}

func TestLevelGates(t *testing.T) {
	defer SetLogger(nil)

	l := &testLogger{level: INFO}
	SetLogger(l)
	if LogLevel() != INFO {
		t.Fatalf("installed logger level not reported")
	}

	SetLevel(WARN)
	if cachedDebug || cachedInfo {
		t.Errorf("gates above the level must be off")
	}
	if !cachedWarn || !cachedError || !cachedFatal {
		t.Errorf("gates at or below the level must be on")
	}

	Infof("dropped")
	Warnf("logged")
	if l.count != 1 {
		t.Errorf("expected exactly the warning to reach the logger, got %d calls", l.count)
	}

	SetLevel(TRACE)
	if !cachedDebug || !cachedTrace {
		t.Errorf("trace level must open every gate")
	}

	SetLogger(nil)
	if cachedError {
		t.Errorf("no logger means every gate is off")
	}
}
