package autodiff

// A Graph owns the nodes of one or more expressions. Expressions built in
// the same graph may share subexpressions freely; the per-call caches used
// by Eval and Diff ensure a shared node is computed once per call.
//
// A Graph is append-only. Building expressions concurrently is not safe,
// but once built, expressions are immutable and may be evaluated from any
// number of goroutines at once.
type Graph struct {
	nodes []node
}

// NewGraph creates an empty expression graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Expr is a handle to an expression: one node of a graph together with
// everything reachable from it. The zero Expr is not a valid expression.
// Expr is comparable; two handles are equal exactly when they name the same
// node of the same graph, which is the identity Env.Bind binds by.
type Expr struct {
	g  *Graph
	id nodeID
}

// Operand is an operand to a builder method: either an Expr or a Lit.
// Builders coerce a Lit to a fresh constant node before constructing the
// operation, so raw numbers can appear on either side of any operator.
type Operand interface {
	lift(g *Graph) Expr
}

// Lit is a numeric literal operand. Using a Lit with a builder allocates a
// new constant node in the builder's graph.
type Lit float64

func (l Lit) lift(g *Graph) Expr {
	return g.Const(float64(l))
}

func (x Expr) lift(g *Graph) Expr {
	if x.g != g {
		panic("autodiff: operand from a different graph")
	}
	return x
}

func (g *Graph) append(n node) Expr {
	g.nodes = append(g.nodes, n)
	return Expr{g: g, id: nodeID(len(g.nodes) - 1)}
}

// Var creates a variable leaf. Its value comes from the Env supplied to
// Eval or Diff, looked up first by the returned handle and then by name.
// Two Var calls with the same name create distinct nodes; they resolve to
// the same value only when bound by name.
func (g *Graph) Var(name string) Expr {
	return g.append(node{kind: nodeVar, name: name, grad: true})
}

// Const creates a constant leaf holding v.
func (g *Graph) Const(v float64) Expr {
	return g.append(node{kind: nodeConst, val: v})
}

// binary allocates an operation node over two operands. The grad flag is
// the AND of the children's flags, recorded at construction; nothing
// consults it to skip work.
func (g *Graph) binary(kind nodeKind, a, b Operand) Expr {
	l := a.lift(g)
	r := b.lift(g)
	return g.append(node{
		kind:  kind,
		grad:  g.nodes[l.id].grad && g.nodes[r.id].grad,
		left:  l.id,
		right: r.id,
	})
}

func (g *Graph) unary(kind nodeKind, a Operand) Expr {
	x := a.lift(g)
	return g.append(node{kind: kind, grad: g.nodes[x.id].grad, left: x.id})
}

// Add creates the sum a + b.
func (g *Graph) Add(a, b Operand) Expr { return g.binary(nodeAdd, a, b) }

// Sub creates the difference a - b.
func (g *Graph) Sub(a, b Operand) Expr { return g.binary(nodeSub, a, b) }

// Mul creates the product a * b. Left and right stay distinguishable; the
// interface makes no commutativity promise, even though float64
// multiplication happens to commute.
func (g *Graph) Mul(a, b Operand) Expr { return g.binary(nodeMul, a, b) }

// Div creates the quotient a / b.
func (g *Graph) Div(a, b Operand) Expr { return g.binary(nodeDiv, a, b) }

// Pow creates the power a ^ b.
func (g *Graph) Pow(a, b Operand) Expr { return g.binary(nodePow, a, b) }

// Neg creates the negation -a.
func (g *Graph) Neg(a Operand) Expr { return g.unary(nodeNeg, a) }

// Sin creates sin(a).
func (g *Graph) Sin(a Operand) Expr { return g.unary(nodeSin, a) }

// Cos creates cos(a).
func (g *Graph) Cos(a Operand) Expr { return g.unary(nodeCos, a) }

// Exp creates e^a.
func (g *Graph) Exp(a Operand) Expr { return g.unary(nodeExp, a) }

// Log creates the natural logarithm ln(a).
func (g *Graph) Log(a Operand) Expr { return g.unary(nodeLog, a) }

// Sqrt creates the square root of a.
func (g *Graph) Sqrt(a Operand) Expr { return g.unary(nodeSqrt, a) }

// NeedsGrad reports the gradient flag recorded when x was constructed:
// true for variables, false for constants, and the AND of the children's
// flags for operations. Evaluation and differentiation do not consult it.
func (x Expr) NeedsGrad() bool {
	return x.g.nodes[x.id].grad
}

// Vars returns the sorted names of the distinct variables reachable from x.
func (x Expr) Vars() []string {
	seen := make(map[string]bool)
	var walk func(id nodeID)
	walk = func(id nodeID) {
		n := &x.g.nodes[id]
		switch n.kind {
		case nodeConst:
		case nodeVar:
			seen[n.name] = true
		case nodeNeg, nodeSin, nodeCos, nodeExp, nodeLog, nodeSqrt:
			walk(n.left)
		default:
			walk(n.left)
			walk(n.right)
		}
	}
	walk(x.id)
	if len(seen) == 0 {
		return nil
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for k := i; k > 0 && names[k] < names[k-1]; k-- {
			names[k], names[k-1] = names[k-1], names[k]
		}
	}
}
