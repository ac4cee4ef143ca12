package ast

// NodeType is the tag of a node in the interchange form.
type NodeType string

const (
	NodeTypeAnd       NodeType = "AND"
	NodeTypeOr        NodeType = "OR"
	NodeTypeCondition NodeType = "CONDITION"
)

// Node is a node of a rule AST. It is implemented only by *Conjunction,
// *Disjunction and *Condition.
type Node interface {
	// Type returns the interchange tag of the node.
	Type() NodeType

	// String renders the subtree as rule text without grouping.
	String() string

	node()
}

// Conjunction is the logical AND of two subtrees.
type Conjunction struct {
	Left  Node
	Right Node
}

// Disjunction is the logical OR of two subtrees.
type Disjunction struct {
	Left  Node
	Right Node
}

// Condition is a leaf holding one comparison clause as raw text
// ("attribute operator value").
type Condition struct {
	Text string
}

// NewConjunction returns Left AND Right.
func NewConjunction(left, right Node) *Conjunction {
	return &Conjunction{Left: left, Right: right}
}

// NewDisjunction returns Left OR Right.
func NewDisjunction(left, right Node) *Disjunction {
	return &Disjunction{Left: left, Right: right}
}

// NewCondition returns a leaf for the given clause text.
func NewCondition(text string) *Condition {
	return &Condition{Text: text}
}

func (*Conjunction) Type() NodeType { return NodeTypeAnd }
func (*Disjunction) Type() NodeType { return NodeTypeOr }
func (*Condition) Type() NodeType   { return NodeTypeCondition }

func (n *Conjunction) String() string { return binaryString(n.Left, " AND ", n.Right) }
func (n *Disjunction) String() string { return binaryString(n.Left, " OR ", n.Right) }
func (n *Condition) String() string   { return n.Text }

func (*Conjunction) node() {}
func (*Disjunction) node() {}
func (*Condition) node()   {}

func binaryString(left Node, op string, right Node) string {
	return nodeString(left) + op + nodeString(right)
}

func nodeString(n Node) string {
	if IsNil(n) {
		return "<nil>"
	}
	return n.String()
}

// Children returns the direct children of n, or nil for a leaf or a nil
// node.
func Children(n Node) []Node {
	if IsNil(n) {
		return nil
	}
	switch v := n.(type) {
	case *Conjunction:
		return []Node{v.Left, v.Right}
	case *Disjunction:
		return []Node{v.Left, v.Right}
	default:
		return nil
	}
}

// Clone returns a deep copy of n. Clone of nil is nil.
func Clone(n Node) Node {
	if IsNil(n) {
		return nil
	}
	switch v := n.(type) {
	case *Conjunction:
		return &Conjunction{Left: Clone(v.Left), Right: Clone(v.Right)}
	case *Disjunction:
		return &Disjunction{Left: Clone(v.Left), Right: Clone(v.Right)}
	case *Condition:
		return &Condition{Text: v.Text}
	default:
		return nil
	}
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b Node) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	switch x := a.(type) {
	case *Conjunction:
		y, ok := b.(*Conjunction)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Disjunction:
		y, ok := b.(*Disjunction)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Condition:
		y, ok := b.(*Condition)
		return ok && x.Text == y.Text
	default:
		return false
	}
}

// IsNil reports whether n is nil or a typed nil pointer.
func IsNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Conjunction:
		return v == nil
	case *Disjunction:
		return v == nil
	case *Condition:
		return v == nil
	default:
		return false
	}
}
