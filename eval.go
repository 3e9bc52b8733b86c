package autodiff

import (
	"math"
	"strconv"
)

// Env supplies values for variables during evaluation and differentiation.
// A variable resolves first through the handle it was created with, then
// through its name; an Env may hold both kinds of binding at once. The nil
// *Env is an empty environment.
//
// An Env may be reused across calls and shared between goroutines as long
// as no Bind runs concurrently with a lookup.
type Env struct {
	byNode map[Expr]float64
	byName map[string]float64
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{}
}

// Bind binds the variable x to val. Returns e for chaining. Bind panics if
// x is not a variable node.
func (e *Env) Bind(x Expr, val float64) *Env {
	if x.g.nodes[x.id].kind != nodeVar {
		panic("autodiff: Bind on non-variable " + x.g.nodes[x.id].kind.String())
	}
	if e.byNode == nil {
		e.byNode = make(map[Expr]float64)
	}
	e.byNode[x] = val
	return e
}

// BindName binds every variable named name to val, unless the variable's
// own handle is also bound, which takes precedence. Returns e for chaining.
func (e *Env) BindName(name string, val float64) *Env {
	if e.byName == nil {
		e.byName = make(map[string]float64)
	}
	e.byName[name] = val
	return e
}

// lookup resolves the variable node x, handle binding first.
func (e *Env) lookup(x Expr) (float64, bool) {
	if e == nil {
		return 0, false
	}
	if v, ok := e.byNode[x]; ok {
		return v, true
	}
	v, ok := e.byName[x.g.nodes[x.id].name]
	return v, ok
}

// Eval computes the value of the expression under env. Every variable
// reachable from x must be bound in env, or Eval fails with
// *UnboundVariableError.
//
// Each call uses a fresh cache keyed by node, so a subexpression shared by
// several parents is computed exactly once per call and no state survives
// between calls. Division by zero is not an error: it yields an infinity
// or NaN per IEEE 754, as do out-of-domain arguments to ln and sqrt.
func (x Expr) Eval(env *Env) (float64, error) {
	vals := make(map[nodeID]float64)
	return x.g.eval(x.id, env, vals)
}

func (g *Graph) eval(id nodeID, env *Env, vals map[nodeID]float64) (float64, error) {
	n := &g.nodes[id]
	switch n.kind {
	case nodeConst:
		return n.val, nil
	case nodeVar:
		v, ok := env.lookup(Expr{g: g, id: id})
		if !ok {
			return 0, &UnboundVariableError{Name: n.name}
		}
		return v, nil
	}
	if v, ok := vals[id]; ok {
		return v, nil
	}
	l, err := g.eval(n.left, env, vals)
	if err != nil {
		return 0, err
	}
	var v float64
	switch n.kind {
	case nodeNeg:
		v = -l
	case nodeSin:
		v = math.Sin(l)
	case nodeCos:
		v = math.Cos(l)
	case nodeExp:
		v = math.Exp(l)
	case nodeLog:
		v = math.Log(l)
	case nodeSqrt:
		v = math.Sqrt(l)
	default:
		r, err := g.eval(n.right, env, vals)
		if err != nil {
			return 0, err
		}
		switch n.kind {
		case nodeAdd:
			v = l + r
		case nodeSub:
			v = l - r
		case nodeMul:
			v = l * r
		case nodeDiv:
			v = l / r
		case nodePow:
			v = math.Pow(l, r)
		default:
			panic("autodiff: invalid node kind " + n.kind.String())
		}
	}
	vals[id] = v
	return v, nil
}

// UnboundVariableError is an error from evaluating or differentiating an
// expression containing a variable that is absent from the environment,
// both by handle and by name.
type UnboundVariableError struct {
	// Name is the variable's name.
	Name string
}

func (err *UnboundVariableError) Error() string {
	return "unbound variable: " + strconv.Quote(err.Name)
}
