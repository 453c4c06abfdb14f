package ir

// Visit tells a callback at which point of an interior node it is called.
type Visit uint8

const (
	PreVisit Visit = iota
	InVisit
	PostVisit
)

// Callbacks is a tree visitor described by per-node-kind functions.
// Leaf callbacks are called once. Interior callbacks are called with
// PreVisit and, when they return false, the node's children are skipped.
// InVisit and PostVisit calls are made only when the matching flag is set.
// A nil interior callback descends unconditionally.
type Callbacks struct {
	Symbol        func(*Symbol)
	ConstantUnion func(*ConstantUnion)
	Unary         func(Visit, *Unary) bool
	Binary        func(Visit, *Binary) bool
	Aggregate     func(Visit, *Aggregate) bool
	Selection     func(Visit, *Selection) bool
	Loop          func(Visit, *Loop) bool
	Branch        func(Visit, *Branch) bool

	InVisit   bool
	PostVisit bool

	// Depth is the nesting depth of the node being visited.
	Depth int
}

func call[T Node](fn func(Visit, T) bool, v Visit, n T) bool {
	if fn == nil {
		return true
	}
	return fn(v, n)
}

// Walk traverses the tree rooted at n depth-first in source order.
// Loops visit init, condition, body, then expression.
func Walk(n Node, cb *Callbacks) {
	if IsNil(n) {
		return
	}
	switch n := n.(type) {
	case *Symbol:
		if cb.Symbol != nil {
			cb.Symbol(n)
		}
	case *ConstantUnion:
		if cb.ConstantUnion != nil {
			cb.ConstantUnion(n)
		}
	case *Unary:
		if call(cb.Unary, PreVisit, n) {
			cb.descend(n.Operand)
			if cb.PostVisit {
				call(cb.Unary, PostVisit, n)
			}
		}
	case *Binary:
		if call(cb.Binary, PreVisit, n) {
			visit := true
			cb.descend(n.Left)
			if cb.InVisit {
				visit = call(cb.Binary, InVisit, n)
			}
			if visit {
				cb.descend(n.Right)
			}
			if cb.PostVisit {
				call(cb.Binary, PostVisit, n)
			}
		}
	case *Aggregate:
		if call(cb.Aggregate, PreVisit, n) {
			for i, child := range n.Sequence {
				cb.descend(child)
				if cb.InVisit && i != len(n.Sequence)-1 {
					if !call(cb.Aggregate, InVisit, n) {
						break
					}
				}
			}
			if cb.PostVisit {
				call(cb.Aggregate, PostVisit, n)
			}
		}
	case *Selection:
		if call(cb.Selection, PreVisit, n) {
			cb.descend(n.Condition)
			cb.descend(n.TrueBlock)
			cb.descend(n.FalseBlock)
			if cb.PostVisit {
				call(cb.Selection, PostVisit, n)
			}
		}
	case *Loop:
		if call(cb.Loop, PreVisit, n) {
			cb.descend(n.Init)
			cb.descend(n.Condition)
			cb.descend(n.Body)
			cb.descend(n.Expression)
			if cb.PostVisit {
				call(cb.Loop, PostVisit, n)
			}
		}
	case *Branch:
		if call(cb.Branch, PreVisit, n) {
			cb.descend(n.Expression)
			if cb.PostVisit {
				call(cb.Branch, PostVisit, n)
			}
		}
	}
}

func (cb *Callbacks) descend(n Node) {
	if IsNil(n) {
		return
	}
	cb.Depth++
	Walk(n, cb)
	cb.Depth--
}
