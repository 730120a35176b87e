//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package ast

// Constant is a literal. Its value is never part of the fingerprint, only
// its byte offset in the statement text so the normalizer can find it.
// Location is -1 for constants with no textual representation.
type Constant struct {
	Location int
}

func (this *Constant) Tag() NodeTag { return TAG_CONSTANT }

type ParamKind int

const (
	PARAM_EXTERN ParamKind = iota
	PARAM_EXEC
)

// Parameter is a $n placeholder already present in the statement text
// (PARAM_EXTERN) or one produced internally by rewriting (PARAM_EXEC).
type Parameter struct {
	Kind     ParamKind
	ID       int
	Location int
}

func (this *Parameter) Tag() NodeTag { return TAG_PARAMETER }

// ColumnRef names a column, optionally qualified.
type ColumnRef struct {
	Names []string
}

func (this *ColumnRef) Tag() NodeTag { return TAG_COLUMN_REF }

type FuncCall struct {
	Name     []string
	Args     []Node
	Distinct bool
	Star     bool
	OrderBy  []*SortGroupClause
	Filter   Node
}

func (this *FuncCall) Tag() NodeTag { return TAG_FUNC_CALL }

type OpExpr struct {
	Operator string
	Args     []Node
}

func (this *OpExpr) Tag() NodeTag { return TAG_OP_EXPR }

type BoolOp int

const (
	BOOL_AND BoolOp = iota
	BOOL_OR
	BOOL_NOT
)

type BoolExpr struct {
	Op   BoolOp
	Args []Node
}

func (this *BoolExpr) Tag() NodeTag { return TAG_BOOL_EXPR }

type CaseExpr struct {
	Arg   Node
	Whens []*CaseWhen
	Else  Node
}

func (this *CaseExpr) Tag() NodeTag { return TAG_CASE_EXPR }

type CaseWhen struct {
	Condition Node
	Result    Node
}

func (this *CaseWhen) Tag() NodeTag { return TAG_CASE_WHEN }

type SubLinkType int

const (
	SUBLINK_EXISTS SubLinkType = iota
	SUBLINK_ANY
	SUBLINK_ALL
	SUBLINK_EXPR
	SUBLINK_ROWCOMPARE
)

type SubLink struct {
	Type     SubLinkType
	TestExpr Node
	Select   *SelectStatement
}

func (this *SubLink) Tag() NodeTag { return TAG_SUB_LINK }

type NullTest struct {
	Arg Node
	Not bool
}

func (this *NullTest) Tag() NodeTag { return TAG_NULL_TEST }

type Coalesce struct {
	Args []Node
}

func (this *Coalesce) Tag() NodeTag { return TAG_COALESCE }

type MinMaxOp int

const (
	MINMAX_GREATEST MinMaxOp = iota
	MINMAX_LEAST
)

type MinMax struct {
	Op   MinMaxOp
	Args []Node
}

func (this *MinMax) Tag() NodeTag { return TAG_MIN_MAX }

type ArrayExpr struct {
	Elements []Node
}

func (this *ArrayExpr) Tag() NodeTag { return TAG_ARRAY_EXPR }

type RowExpr struct {
	Fields []Node
}

func (this *RowExpr) Tag() NodeTag { return TAG_ROW_EXPR }

type TypeCast struct {
	Arg      Node
	TypeName string
}

func (this *TypeCast) Tag() NodeTag { return TAG_TYPE_CAST }

type DistinctFrom struct {
	Args []Node
}

func (this *DistinctFrom) Tag() NodeTag { return TAG_DISTINCT_FROM }
