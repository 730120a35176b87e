//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

/*
Package stats maintains bounded aggregate statistics per distinct statement
shape, sliced by time bucket, user, database and client host. It sits in
the engine's execution path: recording is synchronous, bounded-time and
never aborts the statement being measured.
*/
package stats

import (
	"math"
)

// StatementKind distinguishes the phases a statement is observed in.
type StatementKind int

const (
	KIND_PLAN StatementKind = iota
	KIND_EXEC
	KIND_UTILITY
	_KIND_COUNT
)

var _KIND_NAMES = []string{"plan", "exec", "utility"}

func (this StatementKind) String() string {
	if this < 0 || int(this) >= len(_KIND_NAMES) {
		return "unknown"
	}
	return _KIND_NAMES[this]
}

// TimeStats carries running timing aggregates maintained with Welford's
// online algorithm. All values are milliseconds.
type TimeStats struct {
	Total  float64
	Min    float64
	Max    float64
	Mean   float64
	SumVar float64 // sum of squared deltas from the running mean
}

// observe folds one sample in. calls is the entry's call count including
// this sample.
func (this *TimeStats) observe(t float64, calls uint64) {
	if calls == 1 {
		this.Total = t
		this.Min = t
		this.Max = t
		this.Mean = t
		this.SumVar = 0.0
		return
	}
	this.Total += t
	delta := t - this.Mean
	this.Mean += delta / float64(calls)
	this.SumVar += delta * (t - this.Mean)
	if t < this.Min {
		this.Min = t
	}
	if t > this.Max {
		this.Max = t
	}
}

// Variance returns the population variance, zero below two samples.
func (this *TimeStats) Variance(calls uint64) float64 {
	if calls <= 1 {
		return 0.0
	}
	return this.SumVar / float64(calls)
}

func (this *TimeStats) StdDev(calls uint64) float64 {
	return math.Sqrt(this.Variance(calls))
}

// BlockCounters is the resource usage counter set, both as the pre-diffed
// per-statement deltas supplied by the host and as the running totals kept
// per entry.
type BlockCounters struct {
	SharedHit     uint64
	SharedRead    uint64
	SharedDirtied uint64
	SharedWritten uint64
	LocalHit      uint64
	LocalRead     uint64
	LocalDirtied  uint64
	LocalWritten  uint64
	TempRead      uint64
	TempWritten   uint64
	ReadTime      float64 // ms
	WriteTime     float64 // ms
	WALBytes      uint64
}

func (this *BlockCounters) add(d *BlockCounters) {
	this.SharedHit += d.SharedHit
	this.SharedRead += d.SharedRead
	this.SharedDirtied += d.SharedDirtied
	this.SharedWritten += d.SharedWritten
	this.LocalHit += d.LocalHit
	this.LocalRead += d.LocalRead
	this.LocalDirtied += d.LocalDirtied
	this.LocalWritten += d.LocalWritten
	this.TempRead += d.TempRead
	this.TempWritten += d.TempWritten
	this.ReadTime += d.ReadTime
	this.WriteTime += d.WriteTime
	this.WALBytes += d.WALBytes
}

// KindCounters is the full counter set one entry keeps for one statement
// kind. The histogram is allocated on the kind's first observation.
type KindCounters struct {
	Calls     uint64
	Rows      uint64
	Time      TimeStats
	Blocks    BlockCounters
	Histogram []uint64
}

func (this *KindCounters) observe(t float64, rows uint64, blocks *BlockCounters,
	histMin, histStep float64, histBuckets int) {
	this.Calls++
	this.Time.observe(t, this.Calls)
	this.Rows += rows
	if blocks != nil {
		this.Blocks.add(blocks)
	}
	if this.Histogram == nil {
		this.Histogram = make([]uint64, histBuckets)
	}
	idx := int((t - histMin) / histStep)
	if idx < 0 {
		idx = 0
	} else if idx >= len(this.Histogram) {
		// overflow clamps into the last bucket
		idx = len(this.Histogram) - 1
	}
	this.Histogram[idx]++
}

// snapshot returns a copy safe to hand out after the entry lock is
// released.
func (this *KindCounters) snapshot() KindCounters {
	c := *this
	if this.Histogram != nil {
		c.Histogram = make([]uint64, len(this.Histogram))
		copy(c.Histogram, this.Histogram)
	}
	return c
}
