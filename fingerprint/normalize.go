//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package fingerprint

import (
	"sort"
	"strconv"
	"strings"
)

// Normalize replaces every recorded literal in query with an ordinal $n
// placeholder. The locations were recorded against the source the
// statement was parsed from; offset is the byte position of query's first
// character within that source, so an extracted or whitespace-trimmed
// statement still lines up with its constants. Placeholder numbering
// starts after the highest parameter number already present in the
// statement so real parameter references are never shadowed. Text with no
// recorded literals is returned unchanged, so normalizing already
// normalized text is a no-op.
func (this *State) Normalize(query string, offset int) string {
	if len(this.clocations) == 0 {
		return query
	}

	locs := make([]ConstLocation, 0, len(this.clocations))
	for _, loc := range this.clocations {
		loc.Offset -= offset
		if loc.Offset >= 0 {
			locs = append(locs, loc)
		}
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i].Offset < locs[j].Offset })
	fillConstantLengths(query, locs)

	var buf strings.Builder
	// placeholders can be wider than the literals they replace
	buf.Grow(len(query) + len(locs)*10)

	lastOff := 0
	n := 0
	for _, loc := range locs {
		if loc.Length < 0 {
			// duplicate or unlocatable, already covered or skipped
			continue
		}
		if loc.Offset < lastOff {
			continue
		}
		buf.WriteString(query[lastOff:loc.Offset])
		n++
		buf.WriteByte('$')
		buf.WriteString(strconv.Itoa(n + this.highestExternParam))
		lastOff = loc.Offset + loc.Length
	}
	if lastOff < len(query) {
		buf.WriteString(query[lastOff:])
	}
	return buf.String()
}

// fillConstantLengths re-lexes the query to measure the token at each
// recorded offset. The fingerprint walk only knows where a literal starts;
// the parser that produced the tree has already discarded where it ends.
// A '-' at the recorded offset means the constant folded in a unary minus,
// so the span extends over the following numeric token. Duplicate offsets
// keep length -1 and are skipped by the normalizer.
func fillConstantLengths(query string, locs []ConstLocation) {
	s := newScanner(query)
	tok, ok := s.next()
	lastOff := -1
	for i := range locs {
		off := locs[i].Offset
		if off >= len(query) || off == lastOff {
			continue
		}
		lastOff = off
		for ok && tok.start < off {
			tok, ok = s.next()
		}
		if !ok {
			break
		}
		if tok.start != off {
			continue
		}
		if query[off] == '-' {
			next, more := s.next()
			if more {
				locs[i].Length = next.end - off
				tok, ok = next, more
			} else {
				locs[i].Length = tok.end - off
				ok = false
			}
		} else {
			locs[i].Length = tok.end - tok.start
		}
	}
}
