//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package stats

import (
	"strings"
	"testing"
)

func TestTextBufferDedup(t *testing.T) {
	tb := newTextBuffer(1024)
	if !tb.append(1, "SELECT * FROM t WHERE x = $1") {
		t.Fatalf("first append failed")
	}
	if !tb.append(1, "some other text for the same id") {
		t.Fatalf("idempotent re-append must succeed")
	}
	text, found := tb.lookup(1)
	if !found {
		t.Fatalf("lookup missed a stored id")
	}
	if text != "SELECT * FROM t WHERE x = $1" {
		t.Errorf("re-append overwrote the stored copy: %q", text)
	}
	// dedup means the second append wrote nothing
	tail := tb.tail
	tb.append(1, "and again")
	if tb.tail != tail {
		t.Errorf("duplicate append moved the write cursor")
	}
}

func TestTextBufferFull(t *testing.T) {
	tb := newTextBuffer(40)
	if !tb.append(1, "short") {
		t.Fatalf("append within capacity failed")
	}
	if tb.append(2, "this one certainly does not fit anymore") {
		t.Errorf("append past capacity must be rejected")
	}
	// the rejected write must not have disturbed the stored record
	if text, found := tb.lookup(1); !found || text != "short" {
		t.Errorf("rejected write corrupted earlier data: %q %v", text, found)
	}
	if _, found := tb.lookup(2); found {
		t.Errorf("rejected id must not be found")
	}
}

func TestTextBufferMiss(t *testing.T) {
	tb := newTextBuffer(256)
	tb.append(7, "seven")
	if _, found := tb.lookup(8); found {
		t.Errorf("lookup of an absent id must miss")
	}
}

func TestTextBufferCompression(t *testing.T) {
	tb := newTextBuffer(4096)
	long := "SELECT " + strings.Repeat("columns, ", 200) + "more FROM wide_table"
	if len(long) <= _COMPRESS_THRESHOLD {
		t.Fatalf("test text not long enough")
	}
	if !tb.append(9, long) {
		t.Fatalf("append failed")
	}
	// the repetitive text must have been stored compressed
	if tb.tail >= len(long) {
		t.Errorf("long repetitive text was stored uncompressed (%d bytes)", tb.tail)
	}
	text, found := tb.lookup(9)
	if !found || text != long {
		t.Errorf("compressed round trip failed")
	}
}

func TestTextBufferReset(t *testing.T) {
	tb := newTextBuffer(256)
	tb.append(1, "one")
	tb.append(2, "two")
	tb.reset()
	if tb.head != 0 || tb.tail != 0 {
		t.Errorf("reset must zero the cursors")
	}
	if _, found := tb.lookup(1); found {
		t.Errorf("reset buffer must be empty")
	}
	if !tb.append(3, "three") {
		t.Errorf("append after reset failed")
	}
}
