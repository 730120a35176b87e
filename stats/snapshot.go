//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package stats

import (
	fmtpkg "fmt"
	"time"

	"github.com/couchbase/querystats/errors"
	"github.com/couchbase/querystats/util"
)

const _REDACTED_QUERY = "<insufficient privilege>"

// Row is one aggregate entry as seen by the read side.
type Row struct {
	Bucket      int
	BucketStart time.Time
	UserID      uint64
	DatabaseID  uint64
	QueryID     string
	Query       string
	ClientHost  string
	Relations   string
	Encoding    string
	CPUUser     float64
	CPUSys      float64
	Counters    [_KIND_COUNT]KindCounters
}

// RollupRow is one roll-up counter as seen by the read side.
type RollupRow struct {
	Bucket      int
	BucketStart time.Time
	Dimension   DimensionType
	Value       string
	QueryID     string
	Count       uint64
}

// FormatQueryID renders a fingerprint the way the read side exposes it.
func FormatQueryID(queryId uint64) string {
	return fmtpkg.Sprintf("%08X", queryId)
}

// Foreach iterates a snapshot of every live entry. Statement text is only
// visible to its owning user unless the caller is privileged; other rows
// carry a fixed placeholder instead. fn returning false stops the
// iteration.
func (this *Store) Foreach(user uint64, privileged bool, fn func(*Row) bool) errors.Error {
	this.RLock()
	if !this.started {
		this.RUnlock()
		return errors.NewMonitorNotStartedError("Foreach")
	}
	rows := make([]*Row, 0, len(this.entries))
	for key, e := range this.entries {
		row := &Row{
			Bucket:      key.Bucket,
			BucketStart: this.bucketTimes[key.Bucket],
			UserID:      key.UserID,
			DatabaseID:  key.DatabaseID,
			QueryID:     FormatQueryID(key.QueryID),
		}
		if privileged || key.UserID == user {
			if text, found := this.textBufs[key.Bucket].lookup(key.QueryID); found {
				row.Query = text
			}
		} else {
			row.Query = _REDACTED_QUERY
		}
		e.Lock()
		row.ClientHost = e.clientHost
		row.Relations = e.relations
		row.Encoding = e.encoding
		row.CPUUser = e.cpuUser
		row.CPUSys = e.cpuSys
		for kind := range e.counters {
			row.Counters[kind] = e.counters[kind].snapshot()
		}
		e.Unlock()
		rows = append(rows, row)
	}
	this.RUnlock()
	for _, row := range rows {
		if !fn(row) {
			break
		}
	}
	return nil
}

// ForeachRollup iterates a snapshot of the roll-up counters.
func (this *Store) ForeachRollup(fn func(*RollupRow) bool) errors.Error {
	this.RLock()
	if !this.started {
		this.RUnlock()
		return errors.NewMonitorNotStartedError("ForeachRollup")
	}
	rows := make([]*RollupRow, 0, len(this.rollups))
	for key, e := range this.rollups {
		rows = append(rows, &RollupRow{
			Bucket:      key.Bucket,
			BucketStart: this.bucketTimes[key.Bucket],
			Dimension:   key.Dimension,
			Value:       key.Value,
			QueryID:     FormatQueryID(key.QueryID),
			Count:       e.load(),
		})
	}
	this.RUnlock()
	for _, row := range rows {
		if !fn(row) {
			break
		}
	}
	return nil
}

// Reset discards every entry, roll-up and stored text and restarts bucket
// numbering at 0, as if the store had just been started.
func (this *Store) Reset() errors.Error {
	this.Lock()
	if !this.started {
		this.Unlock()
		return errors.NewMonitorNotStartedError("Reset")
	}
	this.entries = make(map[AggregateKey]*entry)
	this.rollups = make(map[RollupKey]*rollupEntry)
	for i := range this.bucketCounts {
		this.bucketCounts[i] = 0
	}
	for i := range this.textBufs {
		this.textBufs[i].reset()
	}
	now := this.now()
	this.currentBucket = 0
	this.bucketStart = now
	for i := range this.bucketTimes {
		this.bucketTimes[i] = time.Time{}
	}
	this.bucketTimes[0] = now
	this.overflow = 0
	this.bucketOverflow = 0
	this.textOverflow = 0
	this.Unlock()
	this.relationNames.reset()
	return nil
}

// Vitals reports store occupancy and the counters tracking what has been
// dropped on the floor.
func (this *Store) Vitals() map[string]interface{} {
	this.RLock()
	v := map[string]interface{}{
		"started":          this.started,
		"entries":          len(this.entries),
		"rollups":          len(this.rollups),
		"current.bucket":   this.currentBucket,
		"bucket.start":     this.bucketStart.Format(util.DEFAULT_FORMAT),
		"overflows":        this.overflow,
		"bucket.overflows": this.bucketOverflow,
		"text.overflows":   this.textOverflow,
	}
	if this.started {
		v["start.time"] = this.startTime.Format(util.DEFAULT_FORMAT)
		v["uptime"] = util.Since(this.startMono).String()
	}
	this.RUnlock()
	return v
}
