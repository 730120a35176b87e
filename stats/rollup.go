//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package stats

import (
	"sync/atomic"
)

// DimensionType is the coarse axis a roll-up counts occurrences along.
type DimensionType int

const (
	DIM_DATABASE DimensionType = iota
	DIM_USER
	DIM_HOST
)

var _DIM_NAMES = []string{"database", "user", "host"}

func (this DimensionType) String() string {
	if this < 0 || int(this) >= len(_DIM_NAMES) {
		return "unknown"
	}
	return _DIM_NAMES[this]
}

// RollupKey identifies one roll-up counter. Its lifecycle is independent
// of the detailed aggregate entries but shares their eviction trigger.
type RollupKey struct {
	Bucket    int
	Dimension DimensionType
	Value     string
	QueryID   uint64
}

type rollupEntry struct {
	count uint64
}

func (this *rollupEntry) load() uint64 {
	return atomic.LoadUint64(&this.count)
}

// bump increments the occurrence count for key, creating the counter on
// first sight. Existing counters are incremented under the shared lock;
// only creation takes the exclusive lock.
func (this *Store) bump(key RollupKey) {
	this.RLock()
	e := this.rollups[key]
	this.RUnlock()
	if e == nil {
		this.Lock()
		e = this.rollups[key]
		if e == nil {
			e = &rollupEntry{}
			this.rollups[key] = e
		}
		this.Unlock()
	}
	atomic.AddUint64(&e.count, 1)
}
