package ast

// Visitor is called for every node during Walk.
type Visitor interface {
	VisitConjunction(*Conjunction) error
	VisitDisjunction(*Disjunction) error
	VisitCondition(*Condition) error
}

// Walk traverses the tree in pre-order (node, left, right) and calls the
// visitor for each node. It returns the first error encountered.
// Nil nodes, including typed nil pointers, are skipped.
func Walk(n Node, visitor Visitor) error {
	if IsNil(n) {
		return nil
	}
	switch v := n.(type) {
	case *Conjunction:
		if err := visitor.VisitConjunction(v); err != nil {
			return err
		}
	case *Disjunction:
		if err := visitor.VisitDisjunction(v); err != nil {
			return err
		}
	case *Condition:
		return visitor.VisitCondition(v)
	default:
		return nil
	}

	for _, child := range Children(n) {
		if err := Walk(child, visitor); err != nil {
			return err
		}
	}
	return nil
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Conjunctions int
	Disjunctions int
	Conditions   int
	Depth        int
}

// Nodes returns the total number of nodes.
func (s Stats) Nodes() int {
	return s.Conjunctions + s.Disjunctions + s.Conditions
}

// Inspect computes Stats for n. A single leaf has depth 1; nil has depth 0.
func Inspect(n Node) Stats {
	var s Stats
	inspect(n, 1, &s)
	return s
}

func inspect(n Node, depth int, s *Stats) {
	if IsNil(n) {
		return
	}
	switch n.(type) {
	case *Conjunction:
		s.Conjunctions++
	case *Disjunction:
		s.Disjunctions++
	case *Condition:
		s.Conditions++
	default:
		return
	}
	if depth > s.Depth {
		s.Depth = depth
	}
	for _, child := range Children(n) {
		inspect(child, depth+1, s)
	}
}

// Conditions returns the text of every leaf, left to right.
func Conditions(n Node) []string {
	c := &conditionCollector{}
	_ = Walk(n, c)
	return c.texts
}

type conditionCollector struct {
	texts []string
}

func (c *conditionCollector) VisitConjunction(*Conjunction) error { return nil }
func (c *conditionCollector) VisitDisjunction(*Disjunction) error { return nil }

func (c *conditionCollector) VisitCondition(n *Condition) error {
	c.texts = append(c.texts, n.Text)
	return nil
}
