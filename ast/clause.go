//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package ast

// TargetEntry is one element of a select or returning list. The alias is
// not semantically significant and does not contribute to the fingerprint.
type TargetEntry struct {
	Expr  Node
	Alias string
}

func (this *TargetEntry) Tag() NodeTag { return TAG_TARGET_ENTRY }

// Table is a direct reference to a named relation.
type Table struct {
	Schema string
	Name   string
}

func (this *Table) Tag() NodeTag { return TAG_TABLE }

// QualifiedName returns schema.name, or just name when unqualified.
func (this *Table) QualifiedName() string {
	if this.Schema == "" {
		return this.Name
	}
	return this.Schema + "." + this.Name
}

type Subquery struct {
	Select *SelectStatement
	Alias  string
}

func (this *Subquery) Tag() NodeTag { return TAG_SUBQUERY }

// RangeFunction is a function call in FROM position.
type RangeFunction struct {
	Call  *FuncCall
	Alias string
}

func (this *RangeFunction) Tag() NodeTag { return TAG_RANGE_FUNCTION }

type Values struct {
	Rows [][]Node
}

func (this *Values) Tag() NodeTag { return TAG_VALUES }

// CTERef references a common table expression by name.
type CTERef struct {
	Name string
}

func (this *CTERef) Tag() NodeTag { return TAG_CTE_REF }

type JoinType int

const (
	JOIN_INNER JoinType = iota
	JOIN_LEFT
	JOIN_RIGHT
	JOIN_FULL
	JOIN_CROSS
)

type JoinExpr struct {
	Type      JoinType
	Left      Node
	Right     Node
	Condition Node
	Using     []string
}

func (this *JoinExpr) Tag() NodeTag { return TAG_JOIN_EXPR }

// SortGroupClause is one element of an ORDER BY or GROUP BY list.
type SortGroupClause struct {
	Expr       Node
	Desc       bool
	NullsFirst bool
}

func (this *SortGroupClause) Tag() NodeTag { return TAG_SORT_GROUP }

type CommonTableExpr struct {
	Name      string
	Select    Statement
	Recursive bool
}

func (this *CommonTableExpr) Tag() NodeTag { return TAG_COMMON_TABLE }

type SetOp int

const (
	SETOP_UNION SetOp = iota
	SETOP_INTERSECT
	SETOP_EXCEPT
)

type SetOperation struct {
	Op    SetOp
	All   bool
	Left  *SelectStatement
	Right *SelectStatement
}

func (this *SetOperation) Tag() NodeTag { return TAG_SET_OPERATION }
