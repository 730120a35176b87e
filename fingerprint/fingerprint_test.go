//  Copyright 2024-Present Couchbase, Inc.
//
//  Use of this software is governed by the Business Source License included
//  in the file licenses/BSL-Couchbase.txt.  As of the Change Date specified
//  in that file, in accordance with the Business Source License, use of this
//  software will be governed by the Apache License, Version 2.0, included in
//  the file licenses/APL2.txt.

package fingerprint

import (
	"testing"

	"github.com/couchbase/querystats/ast"
	"github.com/couchbase/querystats/errors"
)

// selectWhere builds SELECT * FROM <table> WHERE x <op> <literal at loc>
func selectWhere(table, op string, loc int) *ast.SelectStatement {
	return &ast.SelectStatement{
		Targets: []*ast.TargetEntry{{Expr: &ast.ColumnRef{Names: []string{"*"}}}},
		From:    []ast.Node{&ast.Table{Name: table}},
		Where: &ast.OpExpr{
			Operator: op,
			Args: []ast.Node{
				&ast.ColumnRef{Names: []string{"x"}},
				&ast.Constant{Location: loc},
			},
		},
	}
}

func TestFingerprintStability(t *testing.T) {
	// same shape, different literal positions (as different literal
	// values would produce)
	a, _, err := Fingerprint(selectWhere("t", "=", 26))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _, err := Fingerprint(selectWhere("t", "=", 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("literal position changed the fingerprint: %x vs %x", a, b)
	}
	if a == 0 {
		t.Errorf("fingerprint must never be zero")
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	base, _, _ := Fingerprint(selectWhere("t", "=", 26))
	otherOp, _, _ := Fingerprint(selectWhere("t", "<", 26))
	otherRel, _, _ := Fingerprint(selectWhere("u", "=", 26))
	if base == otherOp {
		t.Errorf("different operators produced the same fingerprint")
	}
	if base == otherRel {
		t.Errorf("different relations produced the same fingerprint")
	}
	if otherOp == otherRel {
		t.Errorf("structurally different statements collided")
	}
}

func TestFingerprintAliasInsensitive(t *testing.T) {
	stmt := selectWhere("t", "=", 26)
	stmt.Targets[0].Alias = "everything"
	withAlias, _, _ := Fingerprint(stmt)
	without, _, _ := Fingerprint(selectWhere("t", "=", 26))
	if withAlias != without {
		t.Errorf("alias changed the fingerprint")
	}
}

func TestFingerprintRecordsConstants(t *testing.T) {
	_, state, err := Fingerprint(selectWhere("t", "=", 26))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	locs := state.ConstLocations()
	if len(locs) != 1 {
		t.Fatalf("expected 1 constant location, got %d", len(locs))
	}
	if locs[0].Offset != 26 || locs[0].Length != -1 {
		t.Errorf("unexpected location %+v", locs[0])
	}
}

func TestFingerprintRelations(t *testing.T) {
	stmt := selectWhere("t", "=", 26)
	stmt.From = append(stmt.From, &ast.JoinExpr{
		Type:  ast.JOIN_INNER,
		Left:  &ast.Table{Name: "t"},
		Right: &ast.Table{Schema: "s", Name: "u"},
	})
	_, state, _ := Fingerprint(stmt)
	rels := state.Relations()
	if len(rels) != 2 {
		t.Fatalf("expected 2 distinct relations, got %v", rels)
	}
	if rels[0] != "t" || rels[1] != "s.u" {
		t.Errorf("unexpected relations %v", rels)
	}
}

func TestFingerprintExternParams(t *testing.T) {
	stmt := selectWhere("t", "=", -1)
	stmt.Where.(*ast.OpExpr).Args[1] = &ast.Parameter{Kind: ast.PARAM_EXTERN, ID: 2}
	_, state, _ := Fingerprint(stmt)
	if state.HighestExternParam() != 2 {
		t.Errorf("expected highest extern param 2, got %d", state.HighestExternParam())
	}
}

func TestFingerprintUtility(t *testing.T) {
	id, _, err := Fingerprint(&ast.UtilityStatement{Text: "VACUUM t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != HashText("VACUUM t") {
		t.Errorf("utility fingerprint must be the raw text hash")
	}
	if HashText(" VACUUM t\n") != id {
		t.Errorf("surrounding whitespace must not change the text hash")
	}
}

func TestHashTextEmpty(t *testing.T) {
	a := HashText("")
	b := HashText("   \t\n")
	if a != b {
		t.Errorf("whitespace-only text must hash like empty text")
	}
	if a == 0 {
		t.Errorf("text hash must never be zero")
	}
}

func TestFingerprintTooComplex(t *testing.T) {
	var expr ast.Node = &ast.Constant{Location: -1}
	for i := 0; i < _MAX_DEPTH+10; i++ {
		expr = &ast.BoolExpr{Op: ast.BOOL_NOT, Args: []ast.Node{expr}}
	}
	stmt := &ast.SelectStatement{Where: expr}
	_, _, err := Fingerprint(stmt)
	if err == nil {
		t.Fatalf("expected a too complex error")
	}
	if err.Code() != errors.E_STATEMENT_TOO_COMPLEX {
		t.Errorf("unexpected error code %v", err.Code())
	}
}

func TestFingerprintDeepButLegal(t *testing.T) {
	var expr ast.Node = &ast.Constant{Location: -1}
	for i := 0; i < _MAX_DEPTH/2; i++ {
		expr = &ast.BoolExpr{Op: ast.BOOL_NOT, Args: []ast.Node{expr}}
	}
	stmt := &ast.SelectStatement{Where: expr}
	if _, _, err := Fingerprint(stmt); err != nil {
		t.Errorf("unexpected error on a legal depth: %v", err)
	}
}

type unknownNode struct{}

func (this *unknownNode) Tag() ast.NodeTag { return ast.NodeTag(9999) }

func TestFingerprintUnknownNode(t *testing.T) {
	stmt := &ast.SelectStatement{Where: &unknownNode{}}
	a, _, err := Fingerprint(stmt)
	if err != nil {
		t.Fatalf("an unrecognized node must not fail the fingerprint: %v", err)
	}
	b, _, _ := Fingerprint(stmt)
	if a != b {
		t.Errorf("unknown node fingerprint not deterministic: %x vs %x", a, b)
	}
	// the tag still enters the hash, so the shape stays distinct from
	// the same statement without it
	c, _, _ := Fingerprint(&ast.SelectStatement{})
	if a == c {
		t.Errorf("unknown node did not contribute to the fingerprint")
	}
}

func TestJumbleFolding(t *testing.T) {
	// enough material to fold the jumble buffer several times over
	targets := make([]*ast.TargetEntry, 0, 512)
	for i := 0; i < 512; i++ {
		targets = append(targets, &ast.TargetEntry{
			Expr: &ast.ColumnRef{Names: []string{"column_name_with_some_width"}},
		})
	}
	stmt := &ast.SelectStatement{Targets: targets, From: []ast.Node{&ast.Table{Name: "t"}}}
	a, _, err := Fingerprint(stmt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _, _ := Fingerprint(stmt)
	if a != b {
		t.Errorf("folding is not deterministic: %x vs %x", a, b)
	}
	stmt.Targets = stmt.Targets[:511]
	c, _, _ := Fingerprint(stmt)
	if a == c {
		t.Errorf("dropping a target column did not change the fingerprint")
	}
}
