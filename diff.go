package autodiff

import "math"

// Diff computes the forward-mode derivative of the expression under env.
//
// The derivative of every variable is 1, so Diff treats the whole
// expression as a function of a single effective independent variable. If
// the expression contains several distinct variables, the result is the
// sum of its sensitivities to all of them, not a partial derivative with
// respect to one name.
//
// Every reachable variable must be bound in env, even when its value does
// not affect the derivative; otherwise Diff fails with
// *UnboundVariableError. The product, quotient, and chain rules need
// operand values, which are computed under env with the same per-call
// memoization as Eval, using caches private to this call. Division by
// zero and out-of-domain arguments propagate as infinities or NaN exactly
// as in Eval.
func (x Expr) Diff(env *Env) (float64, error) {
	vals := make(map[nodeID]float64)
	derivs := make(map[nodeID]float64)
	return x.g.diff(x.id, env, vals, derivs)
}

func (g *Graph) diff(id nodeID, env *Env, vals, derivs map[nodeID]float64) (float64, error) {
	n := &g.nodes[id]
	switch n.kind {
	case nodeConst:
		return 0, nil
	case nodeVar:
		// The derivative of a variable is 1 regardless of its value, but an
		// unbound variable still aborts the whole call.
		if _, ok := env.lookup(Expr{g: g, id: id}); !ok {
			return 0, &UnboundVariableError{Name: n.name}
		}
		return 1, nil
	}
	if d, ok := derivs[id]; ok {
		return d, nil
	}
	dl, err := g.diff(n.left, env, vals, derivs)
	if err != nil {
		return 0, err
	}
	var d float64
	switch n.kind {
	case nodeNeg:
		d = -dl
	case nodeSin, nodeCos, nodeExp, nodeLog, nodeSqrt:
		l, err := g.eval(n.left, env, vals)
		if err != nil {
			return 0, err
		}
		switch n.kind {
		case nodeSin:
			d = math.Cos(l) * dl
		case nodeCos:
			d = -math.Sin(l) * dl
		case nodeExp:
			d = math.Exp(l) * dl
		case nodeLog:
			d = dl / l
		case nodeSqrt:
			d = dl / (2 * math.Sqrt(l))
		}
	case nodeAdd, nodeSub:
		dr, err := g.diff(n.right, env, vals, derivs)
		if err != nil {
			return 0, err
		}
		if n.kind == nodeAdd {
			d = dl + dr
		} else {
			d = dl - dr
		}
	case nodeMul, nodeDiv, nodePow:
		dr, err := g.diff(n.right, env, vals, derivs)
		if err != nil {
			return 0, err
		}
		l, err := g.eval(n.left, env, vals)
		if err != nil {
			return 0, err
		}
		r, err := g.eval(n.right, env, vals)
		if err != nil {
			return 0, err
		}
		switch n.kind {
		case nodeMul:
			d = l*dr + r*dl
		case nodeDiv:
			d = dl/r - dr*l/(r*r)
		case nodePow:
			if dr == 0 {
				// Constant exponent: the power rule avoids ln of a
				// negative base.
				d = r * math.Pow(l, r-1) * dl
			} else {
				d = math.Pow(l, r) * (dr*math.Log(l) + r*dl/l)
			}
		}
	default:
		panic("autodiff: invalid node kind " + n.kind.String())
	}
	derivs[id] = d
	return d, nil
}
