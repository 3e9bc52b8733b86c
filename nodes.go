package autodiff

import (
	"strconv"
	"strings"
)

// node is a node in an expression graph. Nodes are immutable once appended
// to their graph; left and right address earlier nodes in the same graph,
// so a graph is acyclic by construction.
type node struct {
	kind nodeKind

	name string  // variable name, for nodeVar
	val  float64 // constant value, for nodeConst
	grad bool

	left  nodeID
	right nodeID
}

// nodeID is a stable handle into a graph's node arena. Per-call caches are
// keyed by nodeID rather than by pointer identity.
type nodeID int32

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeConst // push val
	nodeVar   // push lookup(name)

	nodeNeg  // evaluate left, then negate
	nodeSin  // evaluate left, then sin
	nodeCos  // evaluate left, then cos
	nodeExp  // evaluate left, then e^
	nodeLog  // evaluate left, then natural log
	nodeSqrt // evaluate left, then square root

	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
	nodePow // evaluate left, exp by right
)

var nodeKindNames = [...]string{
	nodeNone:  "None",
	nodeConst: "Const",
	nodeVar:   "Var",
	nodeNeg:   "Neg",
	nodeSin:   "Sin",
	nodeCos:   "Cos",
	nodeExp:   "Exp",
	nodeLog:   "Log",
	nodeSqrt:  "Sqrt",
	nodeAdd:   "Add",
	nodeSub:   "Sub",
	nodeMul:   "Mul",
	nodeDiv:   "Div",
	nodePow:   "Pow",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindNames[k]
}

// funcname is the rendered name of a unary function kind.
var funcname = map[nodeKind]string{
	nodeSin:  "sin",
	nodeCos:  "cos",
	nodeExp:  "exp",
	nodeLog:  "ln",
	nodeSqrt: "sqrt",
}

// binopname is the rendered symbol of a binary operator kind.
var binopname = map[nodeKind]string{
	nodeAdd: " + ",
	nodeSub: " - ",
	nodeMul: " * ",
	nodeDiv: " / ",
	nodePow: " ^ ",
}

// String renders the expression rooted at x as infix text. Every compound
// subexpression is parenthesized, so the output reparses to the same graph
// shape regardless of operator precedence.
func (x Expr) String() string {
	var b strings.Builder
	x.g.fmtnode(&b, x.id)
	return b.String()
}

func (g *Graph) fmtnode(b *strings.Builder, id nodeID) {
	n := &g.nodes[id]
	switch n.kind {
	case nodeConst:
		b.WriteString(strconv.FormatFloat(n.val, 'g', -1, 64))
	case nodeVar:
		b.WriteString(n.name)
	case nodeNeg:
		b.WriteString("(-")
		g.fmtnode(b, n.left)
		b.WriteByte(')')
	case nodeSin, nodeCos, nodeExp, nodeLog, nodeSqrt:
		b.WriteString(funcname[n.kind])
		b.WriteByte('(')
		g.fmtnode(b, n.left)
		b.WriteByte(')')
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		b.WriteByte('(')
		g.fmtnode(b, n.left)
		b.WriteString(binopname[n.kind])
		g.fmtnode(b, n.right)
		b.WriteByte(')')
	default:
		panic("autodiff: invalid node kind " + n.kind.String())
	}
}
