//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

// Package settings holds the statement monitor configuration. Values are
// loaded from an optional YAML file with environment variable overrides
// and validated once at startup; the store never re-reads them.
package settings

import (
	fmtpkg "fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/couchbase/querystats/errors"
)

const _ENV_PREFIX = "QUERYSTATS_"

const (
	DEFAULT_MAX_BUCKETS       = 10
	DEFAULT_BUCKET_TIME       = 60 // seconds
	DEFAULT_MAX_ENTRIES       = 5000
	DEFAULT_QUERY_BUF_SIZE    = 1 << 20 // bytes, per bucket
	DEFAULT_QUERY_MAX_LEN     = 2048
	DEFAULT_HISTOGRAM_MIN     = 0.0  // milliseconds
	DEFAULT_HISTOGRAM_STEP    = 10.0 // milliseconds
	DEFAULT_HISTOGRAM_BUCKETS = 20
)

type Settings struct {
	// number of slots in the bucket ring
	MaxBuckets int `koanf:"max_buckets"`

	// seconds before the current bucket rotates
	BucketTime int `koanf:"bucket_time"`

	// ceiling on live aggregate entries across all buckets
	MaxEntries int `koanf:"max_entries"`

	// bytes of statement text retained per bucket
	QueryBufSize int `koanf:"query_buf_size"`

	// statements longer than this are truncated before storage
	QueryMaxLen int `koanf:"query_max_len"`

	// latency histogram: fixed width buckets from HistogramMin in
	// steps of HistogramStep milliseconds, overflow clamped into the
	// last bucket
	HistogramMin     float64 `koanf:"histogram_min"`
	HistogramStep    float64 `koanf:"histogram_step"`
	HistogramBuckets int     `koanf:"histogram_buckets"`

	// replace literals with $n placeholders in stored text
	Normalize bool `koanf:"normalize"`

	// track utility statements (anything that is not a DML form)
	TrackUtility bool `koanf:"track_utility"`
}

func Default() *Settings {
	return &Settings{
		MaxBuckets:       DEFAULT_MAX_BUCKETS,
		BucketTime:       DEFAULT_BUCKET_TIME,
		MaxEntries:       DEFAULT_MAX_ENTRIES,
		QueryBufSize:     DEFAULT_QUERY_BUF_SIZE,
		QueryMaxLen:      DEFAULT_QUERY_MAX_LEN,
		HistogramMin:     DEFAULT_HISTOGRAM_MIN,
		HistogramStep:    DEFAULT_HISTOGRAM_STEP,
		HistogramBuckets: DEFAULT_HISTOGRAM_BUCKETS,
		Normalize:        true,
		TrackUtility:     true,
	}
}

// Load builds the settings from defaults, an optional YAML file and
// QUERYSTATS_ environment variables, in increasing precedence.
func Load(path string) (*Settings, errors.Error) {
	s := Default()
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.NewMonitorConfigError(path, err)
		}
	}
	if err := k.Load(env.Provider(_ENV_PREFIX, ".", func(key string) string {
		return strings.ToLower(strings.TrimPrefix(key, _ENV_PREFIX))
	}), nil); err != nil {
		return nil, errors.NewMonitorConfigError("environment", err)
	}
	if err := k.Unmarshal("", s); err != nil {
		return nil, errors.NewMonitorConfigError(path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (this *Settings) Validate() errors.Error {
	if this.MaxBuckets < 1 {
		return errors.NewMonitorConfigError(fmtpkg.Sprintf("max_buckets: %v", this.MaxBuckets), nil)
	}
	if this.BucketTime < 1 {
		return errors.NewMonitorConfigError(fmtpkg.Sprintf("bucket_time: %v", this.BucketTime), nil)
	}
	if this.MaxEntries < this.MaxBuckets {
		return errors.NewMonitorConfigError(fmtpkg.Sprintf("max_entries: %v (below max_buckets)",
			this.MaxEntries), nil)
	}
	if this.QueryBufSize < 1024 {
		return errors.NewMonitorConfigError(fmtpkg.Sprintf("query_buf_size: %v", this.QueryBufSize), nil)
	}
	if this.QueryMaxLen < 16 {
		return errors.NewMonitorConfigError(fmtpkg.Sprintf("query_max_len: %v", this.QueryMaxLen), nil)
	}
	if this.HistogramBuckets < 2 {
		return errors.NewMonitorConfigError(fmtpkg.Sprintf("histogram_buckets: %v",
			this.HistogramBuckets), nil)
	}
	if this.HistogramStep <= 0 || this.HistogramMin < 0 {
		return errors.NewMonitorConfigError(fmtpkg.Sprintf("histogram range: min %v step %v",
			this.HistogramMin, this.HistogramStep), nil)
	}
	return nil
}

// SettingRow is one row of the settings read back surface. Restart marks
// settings that size structures fixed at store construction; changing them
// needs a new store.
type SettingRow struct {
	Name        string
	Value       interface{}
	Default     interface{}
	Restart     bool
	Description string
}

// Snapshot returns the effective configuration as rows, for exposure
// alongside the statistics themselves.
func (this *Settings) Snapshot() []SettingRow {
	return []SettingRow{
		{"max_buckets", this.MaxBuckets, DEFAULT_MAX_BUCKETS, true,
			"Number of slots in the bucket ring"},
		{"bucket_time", this.BucketTime, DEFAULT_BUCKET_TIME, false,
			"Seconds before the current bucket rotates"},
		{"max_entries", this.MaxEntries, DEFAULT_MAX_ENTRIES, true,
			"Maximum tracked statement entries"},
		{"query_buf_size", this.QueryBufSize, DEFAULT_QUERY_BUF_SIZE, true,
			"Statement text bytes retained per bucket"},
		{"query_max_len", this.QueryMaxLen, DEFAULT_QUERY_MAX_LEN, false,
			"Maximum stored statement text length"},
		{"histogram_min", this.HistogramMin, DEFAULT_HISTOGRAM_MIN, false,
			"Latency histogram lower bound (ms)"},
		{"histogram_step", this.HistogramStep, DEFAULT_HISTOGRAM_STEP, false,
			"Latency histogram bucket width (ms)"},
		{"histogram_buckets", this.HistogramBuckets, DEFAULT_HISTOGRAM_BUCKETS, true,
			"Latency histogram bucket count"},
		{"normalize", this.Normalize, true, false,
			"Replace literals with placeholders in stored text"},
		{"track_utility", this.TrackUtility, true, false,
			"Track non-DML statements"},
	}
}
