package ast

import (
	"errors"
	"testing"

	ruleerrors "mercator-hq/ruleengine/pkg/rule/errors"
)

func sampleTree() Node {
	return NewConjunction(
		NewDisjunction(NewCondition("age > 18"), NewCondition("vip = true")),
		NewCondition("country = 'US'"),
	)
}

func TestNode_Types(t *testing.T) {
	tests := []struct {
		node Node
		want NodeType
	}{
		{NewConjunction(NewCondition("a = 1"), NewCondition("b = 2")), NodeTypeAnd},
		{NewDisjunction(NewCondition("a = 1"), NewCondition("b = 2")), NodeTypeOr},
		{NewCondition("a = 1"), NodeTypeCondition},
	}

	for _, tt := range tests {
		if got := tt.node.Type(); got != tt.want {
			t.Errorf("Type() = %q, want %q", got, tt.want)
		}
	}
}

func TestNode_String(t *testing.T) {
	got := sampleTree().String()
	want := "age > 18 OR vip = true AND country = 'US'"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestClone_IsDeepAndEqual(t *testing.T) {
	orig := sampleTree()
	clone := Clone(orig)

	if !Equal(orig, clone) {
		t.Fatal("Clone() result is not structurally equal to the original")
	}

	origRoot := orig.(*Conjunction)
	cloneRoot := clone.(*Conjunction)
	if origRoot == cloneRoot {
		t.Error("Clone() returned the same root pointer")
	}
	if origRoot.Right == cloneRoot.Right {
		t.Error("Clone() shares a leaf with the original")
	}

	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Node
		want bool
	}{
		{"both nil", nil, nil, true},
		{"one nil", NewCondition("a = 1"), nil, false},
		{"same leaf", NewCondition("a = 1"), NewCondition("a = 1"), true},
		{"different leaf", NewCondition("a = 1"), NewCondition("a = 2"), false},
		{"and vs or",
			NewConjunction(NewCondition("a = 1"), NewCondition("b = 2")),
			NewDisjunction(NewCondition("a = 1"), NewCondition("b = 2")),
			false},
		{"swapped children",
			NewConjunction(NewCondition("a = 1"), NewCondition("b = 2")),
			NewConjunction(NewCondition("b = 2"), NewCondition("a = 1")),
			false},
		{"same tree", sampleTree(), sampleTree(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	stats := Inspect(sampleTree())

	if stats.Conjunctions != 1 || stats.Disjunctions != 1 || stats.Conditions != 3 {
		t.Errorf("Inspect() counts = %+v, want 1 AND, 1 OR, 3 conditions", stats)
	}
	if stats.Depth != 3 {
		t.Errorf("Depth = %d, want 3", stats.Depth)
	}
	if stats.Nodes() != 5 {
		t.Errorf("Nodes() = %d, want 5", stats.Nodes())
	}
	if Inspect(nil).Depth != 0 {
		t.Error("Inspect(nil).Depth should be 0")
	}
}

func TestConditions_Order(t *testing.T) {
	got := Conditions(sampleTree())
	want := []string{"age > 18", "vip = true", "country = 'US'"}

	if len(got) != len(want) {
		t.Fatalf("Conditions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Conditions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

type stopVisitor struct {
	visited int
}

var errStop = errors.New("stop")

func (v *stopVisitor) VisitConjunction(*Conjunction) error { v.visited++; return nil }
func (v *stopVisitor) VisitDisjunction(*Disjunction) error { v.visited++; return errStop }
func (v *stopVisitor) VisitCondition(*Condition) error     { v.visited++; return nil }

func TestWalk_StopsOnError(t *testing.T) {
	v := &stopVisitor{}
	err := Walk(sampleTree(), v)
	if !errors.Is(err, errStop) {
		t.Fatalf("Walk() error = %v, want errStop", err)
	}
	if v.visited != 2 {
		t.Errorf("visited %d nodes, want 2", v.visited)
	}
}

func TestTypedNilNodes(t *testing.T) {
	tree := NewConjunction(NewCondition("a = 1"), NewDisjunction((*Condition)(nil), (*Conjunction)(nil)))

	got := Conditions(tree)
	if len(got) != 1 || got[0] != "a = 1" {
		t.Errorf("Conditions() = %v, want [a = 1]", got)
	}
	if err := Walk((*Disjunction)(nil), &stopVisitor{}); err != nil {
		t.Errorf("Walk(typed nil) = %v, want nil", err)
	}
	if children := Children((*Conjunction)(nil)); children != nil {
		t.Errorf("Children(typed nil) = %v, want nil", children)
	}
	if stats := Inspect(tree); stats.Nodes() != 3 || stats.Depth != 2 {
		t.Errorf("Inspect() = %+v, want 3 nodes at depth 2", stats)
	}
}

func TestToMap_NilChild(t *testing.T) {
	_, err := ToMap(NewConjunction(NewCondition("a = 1"), nil))
	var nodeErr *ruleerrors.InvalidNodeError
	if !errors.As(err, &nodeErr) {
		t.Fatalf("ToMap() error = %v, want InvalidNodeError", err)
	}
}
