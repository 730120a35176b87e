//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package util

// Quick FNV1a hash to distribute keys across shards
// Open coded rather than hash/fnv to avoid pointless memory allocation
func HashUint64(id uint64, hashes int) int {
	var h uint = 2166136261
	for i := 0; i < 8; i++ {
		h ^= uint(id>>(i*8)) & 0xff
		h *= 16777619
	}
	return int(h % uint(hashes))
}
