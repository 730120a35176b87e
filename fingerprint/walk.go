//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package fingerprint

import (
	"fmt"

	"github.com/couchbase/querystats/ast"
	"github.com/couchbase/querystats/errors"
	"github.com/couchbase/querystats/logging"
)

// jumbleNode feeds one node and its children into the rolling hash. The
// node's type tag always enters the hash before any of its fields, so an
// unknown shape can never alias with a known one.
func (this *State) jumbleNode(node ast.Node) errors.Error {
	if node == nil {
		return nil
	}
	this.depth++
	defer func() { this.depth-- }()
	if this.depth > _MAX_DEPTH {
		return errors.NewStatementTooComplexError(_MAX_DEPTH)
	}

	this.appendUint32(uint32(node.Tag()))

	switch node := node.(type) {
	case *ast.SelectStatement:
		return this.jumbleSelect(node)
	case *ast.InsertStatement:
		this.appendStrings(node.Columns)
		if err := this.jumbleNode(node.Relation); err != nil {
			return err
		}
		if node.Source != nil {
			if err := this.jumbleNode(node.Source); err != nil {
				return err
			}
		}
		for _, row := range node.Values {
			if err := this.jumbleList(row); err != nil {
				return err
			}
		}
		if err := this.jumbleTargets(node.Returning); err != nil {
			return err
		}
		return this.jumbleCTEs(node.With)
	case *ast.UpdateStatement:
		if err := this.jumbleNode(node.Relation); err != nil {
			return err
		}
		if err := this.jumbleTargets(node.Targets); err != nil {
			return err
		}
		if err := this.jumbleList(node.From); err != nil {
			return err
		}
		if err := this.jumbleNode(node.Where); err != nil {
			return err
		}
		if err := this.jumbleTargets(node.Returning); err != nil {
			return err
		}
		return this.jumbleCTEs(node.With)
	case *ast.DeleteStatement:
		if err := this.jumbleNode(node.Relation); err != nil {
			return err
		}
		if err := this.jumbleList(node.Using); err != nil {
			return err
		}
		if err := this.jumbleNode(node.Where); err != nil {
			return err
		}
		if err := this.jumbleTargets(node.Returning); err != nil {
			return err
		}
		return this.jumbleCTEs(node.With)

	case *ast.Constant:
		this.recordConstant(node.Location)
	case *ast.Parameter:
		this.appendUint32(uint32(node.Kind))
		this.appendInt(node.ID)
		if node.Kind == ast.PARAM_EXTERN && node.ID > this.highestExternParam {
			this.highestExternParam = node.ID
		}
	case *ast.ColumnRef:
		this.appendStrings(node.Names)
	case *ast.FuncCall:
		this.appendStrings(node.Name)
		this.appendBool(node.Distinct)
		this.appendBool(node.Star)
		if err := this.jumbleList(node.Args); err != nil {
			return err
		}
		if err := this.jumbleSortGroup(node.OrderBy); err != nil {
			return err
		}
		return this.jumbleNode(node.Filter)
	case *ast.OpExpr:
		this.appendString(node.Operator)
		return this.jumbleList(node.Args)
	case *ast.BoolExpr:
		this.appendUint32(uint32(node.Op))
		return this.jumbleList(node.Args)
	case *ast.CaseExpr:
		if err := this.jumbleNode(node.Arg); err != nil {
			return err
		}
		for _, w := range node.Whens {
			if err := this.jumbleNode(w); err != nil {
				return err
			}
		}
		return this.jumbleNode(node.Else)
	case *ast.CaseWhen:
		if err := this.jumbleNode(node.Condition); err != nil {
			return err
		}
		return this.jumbleNode(node.Result)
	case *ast.SubLink:
		this.appendUint32(uint32(node.Type))
		if err := this.jumbleNode(node.TestExpr); err != nil {
			return err
		}
		return this.jumbleNode(node.Select)
	case *ast.NullTest:
		this.appendBool(node.Not)
		return this.jumbleNode(node.Arg)
	case *ast.Coalesce:
		return this.jumbleList(node.Args)
	case *ast.MinMax:
		this.appendUint32(uint32(node.Op))
		return this.jumbleList(node.Args)
	case *ast.ArrayExpr:
		return this.jumbleList(node.Elements)
	case *ast.RowExpr:
		return this.jumbleList(node.Fields)
	case *ast.TypeCast:
		this.appendString(node.TypeName)
		return this.jumbleNode(node.Arg)
	case *ast.DistinctFrom:
		return this.jumbleList(node.Args)

	case *ast.TargetEntry:
		// the alias is cosmetic and excluded
		return this.jumbleNode(node.Expr)
	case *ast.Table:
		name := node.QualifiedName()
		this.appendString(name)
		this.recordRelation(name)
	case *ast.Subquery:
		return this.jumbleNode(node.Select)
	case *ast.RangeFunction:
		return this.jumbleNode(node.Call)
	case *ast.Values:
		for _, row := range node.Rows {
			if err := this.jumbleList(row); err != nil {
				return err
			}
		}
	case *ast.CTERef:
		this.appendString(node.Name)
	case *ast.JoinExpr:
		this.appendUint32(uint32(node.Type))
		this.appendStrings(node.Using)
		if err := this.jumbleNode(node.Left); err != nil {
			return err
		}
		if err := this.jumbleNode(node.Right); err != nil {
			return err
		}
		return this.jumbleNode(node.Condition)
	case *ast.SortGroupClause:
		this.appendBool(node.Desc)
		this.appendBool(node.NullsFirst)
		return this.jumbleNode(node.Expr)
	case *ast.CommonTableExpr:
		this.appendString(node.Name)
		this.appendBool(node.Recursive)
		return this.jumbleNode(node.Select)
	case *ast.SetOperation:
		this.appendUint32(uint32(node.Op))
		this.appendBool(node.All)
		if err := this.jumbleNode(node.Left); err != nil {
			return err
		}
		return this.jumbleNode(node.Right)

	default:
		// the tag is already in the hash so an unknown shape keeps a
		// distinct fingerprint; losing its fields risks a collision
		// between two unknown shapes, which we accept
		logging.Warnf("statement fingerprint: %v", errors.NewUnrecognizedNodeWarning(fmt.Sprintf("%T", node)))
	}
	return nil
}

func (this *State) jumbleSelect(node *ast.SelectStatement) errors.Error {
	this.appendBool(node.Distinct)
	this.appendBool(node.ForUpdate)
	if err := this.jumbleList(node.DistinctOn); err != nil {
		return err
	}
	if err := this.jumbleTargets(node.Targets); err != nil {
		return err
	}
	if err := this.jumbleList(node.From); err != nil {
		return err
	}
	if err := this.jumbleNode(node.Where); err != nil {
		return err
	}
	if err := this.jumbleSortGroup(node.GroupBy); err != nil {
		return err
	}
	if err := this.jumbleNode(node.Having); err != nil {
		return err
	}
	if err := this.jumbleSortGroup(node.OrderBy); err != nil {
		return err
	}
	if err := this.jumbleNode(node.Limit); err != nil {
		return err
	}
	if err := this.jumbleNode(node.Offset); err != nil {
		return err
	}
	if err := this.jumbleCTEs(node.With); err != nil {
		return err
	}
	for _, r := range node.LockedRels {
		if err := this.jumbleNode(r); err != nil {
			return err
		}
	}
	if node.SetOp != nil {
		return this.jumbleNode(node.SetOp)
	}
	return nil
}

func (this *State) jumbleList(nodes []ast.Node) errors.Error {
	for _, n := range nodes {
		if err := this.jumbleNode(n); err != nil {
			return err
		}
	}
	return nil
}

func (this *State) jumbleTargets(targets []*ast.TargetEntry) errors.Error {
	for _, t := range targets {
		if err := this.jumbleNode(t); err != nil {
			return err
		}
	}
	return nil
}

func (this *State) jumbleSortGroup(clauses []*ast.SortGroupClause) errors.Error {
	for _, c := range clauses {
		if err := this.jumbleNode(c); err != nil {
			return err
		}
	}
	return nil
}

func (this *State) jumbleCTEs(ctes []*ast.CommonTableExpr) errors.Error {
	for _, c := range ctes {
		if err := this.jumbleNode(c); err != nil {
			return err
		}
	}
	return nil
}

func (this *State) appendStrings(list []string) {
	this.appendInt(len(list))
	for _, s := range list {
		this.appendString(s)
	}
}
