//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/couchbase/querystats/errors"
)

func TestDefaultsValid(t *testing.T) {
	s := Default()
	if err := s.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
	if s.MaxBuckets != DEFAULT_MAX_BUCKETS || s.BucketTime != DEFAULT_BUCKET_TIME {
		t.Errorf("unexpected defaults %+v", s)
	}
	if !s.Normalize || !s.TrackUtility {
		t.Errorf("normalization and utility tracking default on")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "querystats.yaml")
	content := []byte("max_buckets: 4\nbucket_time: 30\nnormalize: false\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.MaxBuckets != 4 || s.BucketTime != 30 {
		t.Errorf("file values not applied: %+v", s)
	}
	if s.Normalize {
		t.Errorf("normalize override not applied")
	}
	// untouched knobs keep their defaults
	if s.MaxEntries != DEFAULT_MAX_ENTRIES {
		t.Errorf("default clobbered: %v", s.MaxEntries)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "querystats.yaml")
	if err := os.WriteFile(path, []byte("max_buckets: 4\n"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("QUERYSTATS_MAX_BUCKETS", "7")
	t.Setenv("QUERYSTATS_TRACK_UTILITY", "false")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.MaxBuckets != 7 {
		t.Errorf("environment must win over the file: %v", s.MaxBuckets)
	}
	if s.TrackUtility {
		t.Errorf("environment bool override not applied")
	}
}

func TestLoadNoFile(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load without a file must yield defaults: %v", err)
	}
	if s.MaxBuckets != DEFAULT_MAX_BUCKETS {
		t.Errorf("unexpected %+v", s)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatalf("a named but missing file is a configuration error")
	}
	if err.Code() != errors.E_MONITOR_CONFIG {
		t.Errorf("unexpected error code %v", err.Code())
	}
}

func TestValidation(t *testing.T) {
	bad := []func(*Settings){
		func(s *Settings) { s.MaxBuckets = 0 },
		func(s *Settings) { s.BucketTime = 0 },
		func(s *Settings) { s.MaxEntries = 2; s.MaxBuckets = 10 },
		func(s *Settings) { s.QueryBufSize = 10 },
		func(s *Settings) { s.QueryMaxLen = 1 },
		func(s *Settings) { s.HistogramBuckets = 1 },
		func(s *Settings) { s.HistogramStep = 0 },
		func(s *Settings) { s.HistogramMin = -1 },
	}
	for i, mutate := range bad {
		s := Default()
		mutate(s)
		err := s.Validate()
		if err == nil {
			t.Errorf("case %d: invalid settings accepted", i)
		} else if err.Code() != errors.E_MONITOR_CONFIG {
			t.Errorf("case %d: unexpected code %v", i, err.Code())
		}
	}
}

func TestSnapshot(t *testing.T) {
	s := Default()
	s.MaxBuckets = 3
	rows := s.Snapshot()
	if len(rows) != 10 {
		t.Fatalf("expected every knob in the snapshot, got %d rows", len(rows))
	}
	byName := make(map[string]SettingRow)
	for _, r := range rows {
		if r.Description == "" {
			t.Errorf("%s has no description", r.Name)
		}
		byName[r.Name] = r
	}
	if r := byName["max_buckets"]; r.Value != 3 || r.Default != DEFAULT_MAX_BUCKETS {
		t.Errorf("max_buckets snapshot %+v", r)
	}
	if r := byName["normalize"]; r.Value != true || r.Default != true {
		t.Errorf("normalize snapshot %+v", r)
	}
	// sizing knobs are fixed at store construction, the rest take effect
	// on the next bucket
	restart := map[string]bool{
		"max_buckets": true, "max_entries": true, "query_buf_size": true,
		"histogram_buckets": true,
	}
	for name, r := range byName {
		if r.Restart != restart[name] {
			t.Errorf("%s restart flag %v", name, r.Restart)
		}
	}
}
