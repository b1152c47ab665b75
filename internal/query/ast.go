package query

// Node is the filter AST. The variant set is closed: Cond, And, Or, and
// Group are the only implementations, and consumers switch exhaustively
// over the four concrete types. Trees are immutable once built and owned
// by the parse that created them.
type Node interface {
	node()
}

// Cond is a leaf condition testing one field against one value.
type Cond struct {
	Field   string
	Value   string
	Negated bool
}

// And is a conjunction with exactly two children.
type And struct {
	Left  Node
	Right Node
}

// Or is a disjunction with exactly two children.
type Or struct {
	Left  Node
	Right Node
}

// Group wraps a parenthesized subtree. It is semantically a no-op and
// exists only so explicit parentheses survive re-serialization.
type Group struct {
	Inner Node
}

func (*Cond) node()  {}
func (*And) node()   {}
func (*Or) node()    {}
func (*Group) node() {}

// NewCond builds a leaf condition.
func NewCond(field, value string, negated bool) *Cond {
	return &Cond{Field: field, Value: value, Negated: negated}
}

// NewAnd joins two subtrees conjunctively. A nil side collapses to the
// other, so an And node always holds exactly two children.
func NewAnd(left, right Node) Node {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	return &And{Left: left, Right: right}
}

// NewOr joins two subtrees disjunctively, collapsing nil sides the same
// way NewAnd does.
func NewOr(left, right Node) Node {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	return &Or{Left: left, Right: right}
}

// NewGroup wraps a subtree in an explicit group. An empty group is nil,
// not a Group with a nil child.
func NewGroup(inner Node) Node {
	if inner == nil {
		return nil
	}
	return &Group{Inner: inner}
}

// Equal reports structural equality of two ASTs, grouping included.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case *Cond:
		y, ok := b.(*Cond)
		return ok && *x == *y
	case *And:
		y, ok := b.(*And)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Or:
		y, ok := b.(*Or)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Group:
		y, ok := b.(*Group)
		return ok && Equal(x.Inner, y.Inner)
	}
	return false
}
