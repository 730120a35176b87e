//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package ast

// SelectStatement covers plain selects, set operations and CTE queries.
type SelectStatement struct {
	Distinct   bool
	DistinctOn []Node
	Targets    []*TargetEntry
	From       []Node
	Where      Node
	GroupBy    []*SortGroupClause
	Having     Node
	OrderBy    []*SortGroupClause
	Limit      Node
	Offset     Node
	With       []*CommonTableExpr
	SetOp      *SetOperation
	ForUpdate  bool
	LockedRels []*Table
}

func (this *SelectStatement) Tag() NodeTag { return TAG_SELECT }
func (this *SelectStatement) statement()   {}

type InsertStatement struct {
	Relation  *Table
	Columns   []string
	Source    *SelectStatement
	Values    [][]Node
	Returning []*TargetEntry
	With      []*CommonTableExpr
}

func (this *InsertStatement) Tag() NodeTag { return TAG_INSERT }
func (this *InsertStatement) statement()   {}

type UpdateStatement struct {
	Relation  *Table
	Targets   []*TargetEntry
	From      []Node
	Where     Node
	Returning []*TargetEntry
	With      []*CommonTableExpr
}

func (this *UpdateStatement) Tag() NodeTag { return TAG_UPDATE }
func (this *UpdateStatement) statement()   {}

type DeleteStatement struct {
	Relation  *Table
	Using     []Node
	Where     Node
	Returning []*TargetEntry
	With      []*CommonTableExpr
}

func (this *DeleteStatement) Tag() NodeTag { return TAG_DELETE }
func (this *DeleteStatement) statement()   {}

// UtilityStatement wraps anything that isn't one of the four DML forms
// (DDL, SET, EXPLAIN and so on). Such statements are fingerprinted from
// their raw text rather than their structure.
type UtilityStatement struct {
	Text string
}

func (this *UtilityStatement) Tag() NodeTag { return TAG_UTILITY }
func (this *UtilityStatement) statement()   {}
