//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package stats

import (
	"math"
	"testing"
)

func feed(c *KindCounters, samples ...float64) {
	for _, s := range samples {
		c.observe(s, 1, nil, 0.0, 10.0, 5)
	}
}

func TestWelfordMeanVariance(t *testing.T) {
	samples := []float64{3, 5, 7, 9}
	var c KindCounters
	feed(&c, samples...)

	if c.Calls != 4 {
		t.Fatalf("expected 4 calls, got %d", c.Calls)
	}
	if math.Abs(c.Time.Mean-6.0) > 1e-9 {
		t.Errorf("mean %v, want 6", c.Time.Mean)
	}
	// population variance of 3,5,7,9 is 5
	if v := c.Time.Variance(c.Calls); math.Abs(v-5.0) > 1e-9 {
		t.Errorf("variance %v, want 5", v)
	}
	if sd := c.Time.StdDev(c.Calls); math.Abs(sd-math.Sqrt(5.0)) > 1e-9 {
		t.Errorf("stddev %v, want sqrt(5)", sd)
	}
	if c.Time.Min != 3 || c.Time.Max != 9 {
		t.Errorf("min/max %v/%v, want 3/9", c.Time.Min, c.Time.Max)
	}
	if math.Abs(c.Time.Total-24.0) > 1e-9 {
		t.Errorf("total %v, want 24", c.Time.Total)
	}
}

func TestWelfordSingleSample(t *testing.T) {
	var c KindCounters
	feed(&c, 42.5)
	if c.Time.Min != 42.5 || c.Time.Max != 42.5 || c.Time.Mean != 42.5 {
		t.Errorf("single sample must seed min/max/mean")
	}
	if v := c.Time.Variance(c.Calls); v != 0.0 {
		t.Errorf("variance of a single sample must be 0, got %v", v)
	}
}

func TestWelfordMatchesDirectComputation(t *testing.T) {
	samples := []float64{0.11, 17.4, 3.3, 250.0, 0.01, 42.0, 42.0, 9.99}
	var c KindCounters
	feed(&c, samples...)

	var sum float64
	for _, s := range samples {
		sum += s
	}
	mean := sum / float64(len(samples))
	var sumSq float64
	for _, s := range samples {
		sumSq += (s - mean) * (s - mean)
	}
	direct := sumSq / float64(len(samples))

	if math.Abs(c.Time.Mean-mean) > 1e-9 {
		t.Errorf("mean %v, want %v", c.Time.Mean, mean)
	}
	if v := c.Time.Variance(c.Calls); math.Abs(v-direct) > 1e-9 {
		t.Errorf("variance %v, want %v", v, direct)
	}
}

func TestHistogramBuckets(t *testing.T) {
	var c KindCounters
	// min 0, step 10, 5 buckets
	feed(&c, 0.0, 9.99, 10.0, 35.0, 49.9, 50.0, 100000.0)

	want := []uint64{2, 1, 0, 1, 3}
	if len(c.Histogram) != len(want) {
		t.Fatalf("histogram has %d buckets, want %d", len(c.Histogram), len(want))
	}
	for i := range want {
		if c.Histogram[i] != want[i] {
			t.Errorf("bucket %d: %d, want %d", i, c.Histogram[i], want[i])
		}
	}
}

func TestHistogramBelowRange(t *testing.T) {
	var c KindCounters
	c.observe(5.0, 0, nil, 100.0, 10.0, 4)
	if c.Histogram[0] != 1 {
		t.Errorf("a sample below the range must clamp into the first bucket")
	}
}

func TestBlockCountersAdd(t *testing.T) {
	var total BlockCounters
	total.add(&BlockCounters{SharedHit: 3, SharedRead: 1, TempWritten: 2, ReadTime: 1.5, WALBytes: 100})
	total.add(&BlockCounters{SharedHit: 1, LocalDirtied: 4, ReadTime: 0.5, WALBytes: 20})
	if total.SharedHit != 4 || total.SharedRead != 1 || total.LocalDirtied != 4 || total.TempWritten != 2 {
		t.Errorf("unexpected block totals %+v", total)
	}
	if total.ReadTime != 2.0 || total.WALBytes != 120 {
		t.Errorf("unexpected time/WAL totals %+v", total)
	}
}
