//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package stats

import (
	"encoding/binary"

	"github.com/golang/snappy"
)

const (
	// text longer than this is stored snappy compressed
	_COMPRESS_THRESHOLD = 256

	// queryId + flags + length
	_TEXT_HEADER_SIZE = 8 + 1 + 4

	_TEXT_FLAG_COMPRESSED = 0x01
)

// textBuffer is a bucket's append-only statement text store: a fixed size
// byte slab holding (queryId, flags, length, bytes) records between a read
// and a write cursor. The slab is allocated once and never grows; a write
// that does not fit is rejected rather than wrapping over earlier records.
// The cursors only move back on bucket rotation.
type textBuffer struct {
	buf  []byte
	head int
	tail int
}

func newTextBuffer(size int) *textBuffer {
	return &textBuffer{buf: make([]byte, size)}
}

// append stores text for queryId. Within one bucket at most one copy per
// queryId is kept; re-appending an id already present succeeds without
// writing. Returns false only when the record does not fit.
func (this *textBuffer) append(queryId uint64, text string) bool {
	if _, found := this.lookup(queryId); found {
		return true
	}
	payload := []byte(text)
	flags := byte(0)
	if len(payload) > _COMPRESS_THRESHOLD {
		compressed := snappy.Encode(nil, payload)
		if len(compressed) < len(payload) {
			payload = compressed
			flags = _TEXT_FLAG_COMPRESSED
		}
	}
	need := _TEXT_HEADER_SIZE + len(payload)
	if this.tail+need > len(this.buf) {
		return false
	}
	binary.LittleEndian.PutUint64(this.buf[this.tail:], queryId)
	this.buf[this.tail+8] = flags
	binary.LittleEndian.PutUint32(this.buf[this.tail+9:], uint32(len(payload)))
	copy(this.buf[this.tail+_TEXT_HEADER_SIZE:], payload)
	this.tail += need
	return true
}

// lookup scans from the read cursor for the first record matching queryId.
func (this *textBuffer) lookup(queryId uint64) (string, bool) {
	pos := this.head
	for pos+_TEXT_HEADER_SIZE <= this.tail {
		id := binary.LittleEndian.Uint64(this.buf[pos:])
		flags := this.buf[pos+8]
		length := int(binary.LittleEndian.Uint32(this.buf[pos+9:]))
		next := pos + _TEXT_HEADER_SIZE + length
		if next > this.tail {
			// truncated record, should not happen
			break
		}
		if id == queryId {
			payload := this.buf[pos+_TEXT_HEADER_SIZE : next]
			if flags&_TEXT_FLAG_COMPRESSED != 0 {
				decoded, err := snappy.Decode(nil, payload)
				if err != nil {
					return "", false
				}
				return string(decoded), true
			}
			return string(payload), true
		}
		pos = next
	}
	return "", false
}

func (this *textBuffer) reset() {
	this.head = 0
	this.tail = 0
}
