package ir

// Selection is an if statement or a ?: expression. For the expression
// form the node carries the type of both branches.
type Selection struct {
	typed
	Condition  Typed
	TrueBlock  Node
	FalseBlock Node
}

// NewSelection creates a selection node of type void.
func NewSelection(cond Typed, trueBlock, falseBlock Node, loc Loc) *Selection {
	n := &Selection{Condition: cond, TrueBlock: trueBlock, FalseBlock: falseBlock}
	n.typ = Scalar(BasicVoid, PrecisionUndefined, QualTemporary)
	n.loc = loc
	return n
}

// LoopKind distinguishes the three loop statements.
type LoopKind uint8

const (
	LoopFor LoopKind = iota
	LoopWhile
	LoopDoWhile
)

func (k LoopKind) String() string {
	switch k {
	case LoopWhile:
		return "while"
	case LoopDoWhile:
		return "do-while"
	}
	return "for"
}

// Loop is a for, while or do-while statement. Init is only set for for
// loops; Condition and Expression may be nil.
type Loop struct {
	base
	Kind       LoopKind
	Init       Node
	Condition  Typed
	Expression Typed
	Body       Node
}

// NewLoop creates a loop node.
func NewLoop(kind LoopKind, init Node, cond, expr Typed, body Node, loc Loc) *Loop {
	n := &Loop{Kind: kind, Init: init, Condition: cond, Expression: expr, Body: body}
	n.loc = loc
	return n
}

// Branch is return, break, continue or discard.
type Branch struct {
	base
	Op         Operator
	Expression Typed
}

// NewBranch creates a branch node; expr is only used by return.
func NewBranch(op Operator, expr Typed, loc Loc) *Branch {
	n := &Branch{Op: op, Expression: expr}
	n.loc = loc
	return n
}
