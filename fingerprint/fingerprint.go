//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package fingerprint

import (
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/couchbase/querystats/ast"
	"github.com/couchbase/querystats/errors"
)

// Fingerprint walks a parsed statement and returns its 64 bit structural
// identity plus the traversal state needed to normalize its text. Utility
// statements carry no useful structure and are hashed from their raw text.
// A zero result is reserved to mean "not tracked" and is remapped.
func Fingerprint(stmt ast.Statement) (uint64, *State, errors.Error) {
	state := &State{}
	if u, ok := stmt.(*ast.UtilityStatement); ok {
		return HashText(u.Text), state, nil
	}
	if err := state.jumbleNode(stmt); err != nil {
		return 0, nil, err
	}
	id := state.fold()
	if id == 0 {
		id = 1
	}
	return id, state, nil
}

// HashText fingerprints a statement from its raw text alone, used for
// statement kinds that are never parsed into a tree. Leading and trailing
// whitespace is not significant.
func HashText(text string) uint64 {
	id := xxhash.Sum64String(strings.TrimSpace(text))
	if id == 0 {
		id = 1
	}
	return id
}
