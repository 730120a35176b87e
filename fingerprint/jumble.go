//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

/*
Package fingerprint derives a 64 bit structural identity ("queryId") and a
literal free normalized text from a parsed statement. Two statements that
differ only in literal values, whitespace or aliases produce the same
fingerprint; statements that differ in structure do not.
*/
package fingerprint

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

const (
	// accumulation buffer for the rolling hash; when full it is folded
	// into a single hash value and accumulation continues from there,
	// bounding memory for arbitrarily deep trees
	_JUMBLE_SIZE = 1024

	// maximum tree depth before fingerprinting gives up
	_MAX_DEPTH = 256
)

// ConstLocation records where a literal appears in the statement text.
// Length is -1 until the normalizer re-lexes the text to measure the token.
type ConstLocation struct {
	Offset int
	Length int
}

// State accumulates the rolling hash and the literal locations for one
// statement. It is produced by Fingerprint and consumed by Normalize.
type State struct {
	jumble    [_JUMBLE_SIZE]byte
	jumbleLen int

	clocations         []ConstLocation
	highestExternParam int
	relations          []string
	depth              int
}

// ConstLocations returns the recorded literal locations in traversal order.
func (this *State) ConstLocations() []ConstLocation {
	return this.clocations
}

// HighestExternParam returns the largest $n parameter number referenced by
// the statement, or 0 when it has none.
func (this *State) HighestExternParam() int {
	return this.highestExternParam
}

// Relations returns the names of the relations the statement references,
// in traversal order, with duplicates removed.
func (this *State) Relations() []string {
	return this.relations
}

func (this *State) appendBytes(b []byte) {
	for len(b) > 0 {
		room := _JUMBLE_SIZE - this.jumbleLen
		if room <= 0 {
			// fold the full buffer into a single hash value and
			// restart accumulation from it
			h := xxhash.Sum64(this.jumble[:])
			binary.LittleEndian.PutUint64(this.jumble[:8], h)
			this.jumbleLen = 8
			room = _JUMBLE_SIZE - this.jumbleLen
		}
		n := len(b)
		if n > room {
			n = room
		}
		copy(this.jumble[this.jumbleLen:], b[:n])
		this.jumbleLen += n
		b = b[n:]
	}
}

func (this *State) appendUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	this.appendBytes(b[:])
}

func (this *State) appendUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	this.appendBytes(b[:])
}

func (this *State) appendInt(v int) {
	this.appendUint64(uint64(v))
}

func (this *State) appendBool(v bool) {
	if v {
		this.appendBytes([]byte{1})
	} else {
		this.appendBytes([]byte{0})
	}
}

func (this *State) appendString(s string) {
	this.appendInt(len(s))
	this.appendBytes([]byte(s))
}

// recordConstant notes a literal's position. The value itself never enters
// the hash. Literals with no textual representation (location -1) are not
// recorded.
func (this *State) recordConstant(location int) {
	if location >= 0 {
		this.clocations = append(this.clocations, ConstLocation{Offset: location, Length: -1})
	}
}

func (this *State) recordRelation(name string) {
	for _, r := range this.relations {
		if r == name {
			return
		}
	}
	this.relations = append(this.relations, name)
}

func (this *State) fold() uint64 {
	return xxhash.Sum64(this.jumble[:this.jumbleLen])
}
