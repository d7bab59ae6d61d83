package lang

// node is a single expression tree node. The node kinds form a closed
// set; evaluation never dispatches outside of them.
type node interface {
	eval(ev *evaluator) (any, error)
}

// litNode is a literal value: string, int64, float64, bool, or nil.
type litNode struct {
	value any
}

// identNode is a variable reference resolved against the environment.
type identNode struct {
	name string
}

// unaryNode is a prefix operation: "not" or numeric negation.
type unaryNode struct {
	op      string
	operand node
}

// binaryNode is an infix operation: or, and, comparison, additive, or
// multiplicative.
type binaryNode struct {
	op    string
	left  node
	right node
}

// condNode is a conditional expression: then if cond else otherwise.
type condNode struct {
	cond      node
	then      node
	otherwise node
}
