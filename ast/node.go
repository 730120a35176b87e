//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

/*
Package ast defines the parsed statement tree consumed by the fingerprint
package. Only fields that are semantically significant appear on the nodes:
constant values are deliberately absent, carrying just their source location
so that statements differing only in literals produce the same fingerprint.
*/
package ast

// NodeTag identifies the concrete type of a Node. Tags are stable across
// releases as they feed the statement fingerprint.
type NodeTag uint32

const (
	TAG_SELECT NodeTag = iota + 1
	TAG_INSERT
	TAG_UPDATE
	TAG_DELETE
	TAG_UTILITY

	TAG_CONSTANT
	TAG_PARAMETER
	TAG_COLUMN_REF
	TAG_FUNC_CALL
	TAG_OP_EXPR
	TAG_BOOL_EXPR
	TAG_CASE_EXPR
	TAG_CASE_WHEN
	TAG_SUB_LINK
	TAG_NULL_TEST
	TAG_COALESCE
	TAG_MIN_MAX
	TAG_ARRAY_EXPR
	TAG_ROW_EXPR
	TAG_TYPE_CAST
	TAG_DISTINCT_FROM

	TAG_TARGET_ENTRY
	TAG_TABLE
	TAG_SUBQUERY
	TAG_RANGE_FUNCTION
	TAG_VALUES
	TAG_CTE_REF
	TAG_JOIN_EXPR
	TAG_SORT_GROUP
	TAG_COMMON_TABLE
	TAG_SET_OPERATION
)

// Node is implemented by every element of the statement tree.
type Node interface {
	Tag() NodeTag
}

// Statement is the root of a parsed statement.
type Statement interface {
	Node
	statement()
}
