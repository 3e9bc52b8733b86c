package autodiff_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/num/dual"

	autodiff "github.com/CS207-Project-Team-1/project-planning"
)

func TestDiffRules(t *testing.T) {
	const v = 3.0
	g := autodiff.NewGraph()
	x := g.Var("x")
	k := g.Const(5)
	cases := []struct {
		name string
		expr autodiff.Expr
		want float64
	}{
		{"variable", x, 1},
		{"constant", k, 0},
		{"sum", g.Add(x, x), 2},
		{"difference", g.Sub(x, k), 1},
		{"difference-rev", g.Sub(k, x), -1},
		{"product", g.Mul(x, x), 2 * v},
		{"quotient", g.Div(k, x), -5 / (v * v)},
		{"quotient-linear", g.Div(x, k), 1.0 / 5},
		{"negation", g.Neg(x), -1},
		{"sin", g.Sin(x), math.Cos(v)},
		{"cos", g.Cos(x), -math.Sin(v)},
		{"exp", g.Exp(x), math.Exp(v)},
		{"ln", g.Log(x), 1 / v},
		{"sqrt", g.Sqrt(x), 1 / (2 * math.Sqrt(v))},
		{"power", g.Pow(x, g.Const(4)), 4 * v * v * v},
		{"exponential", g.Pow(g.Const(2), x), math.Pow(2, v) * math.Ln2},
	}
	env := autodiff.NewEnv().Bind(x, v)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d, err := c.expr.Diff(env)
			if err != nil {
				t.Fatal("differentiation error:", err)
			}
			if !scalar.EqualWithinAbsOrRel(d, c.want, 1e-14, 1e-14) {
				t.Errorf("d %v: want %g, got %g", c.expr, c.want, d)
			}
		})
	}
}

// TestDiffSumOfPartials pins the documented multi-variable behavior: every
// bound variable differentiates to 1, so the result is the sum of the
// expression's sensitivities to all of its variables.
func TestDiffSumOfPartials(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Var("x")
	y := g.Var("y")
	env := autodiff.NewEnv().Bind(x, 3).Bind(y, 5)
	cases := []struct {
		name string
		expr autodiff.Expr
		want float64
	}{
		{"sum", g.Add(x, y), 2},
		{"product", g.Mul(x, y), 3 + 5},
		{"quotient", g.Div(x, y), 1.0/5 - 3.0/25},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d, err := c.expr.Diff(env)
			if err != nil {
				t.Fatal(err)
			}
			if !scalar.EqualWithinAbsOrRel(d, c.want, 1e-14, 1e-14) {
				t.Errorf("d %v: want %g, got %g", c.expr, c.want, d)
			}
		})
	}
}

// TestDiffDualOracle cross-checks Diff against dual-number forward
// differentiation for composite single-variable expressions.
func TestDiffDualOracle(t *testing.T) {
	cases := []struct {
		src string
		fn  func(x dual.Number) dual.Number
	}{
		{"x*x/2 - x", func(x dual.Number) dual.Number {
			return dual.Sub(dual.Scale(0.5, dual.Mul(x, x)), x)
		}},
		{"exp(5/x) - 5", func(x dual.Number) dual.Number {
			return dual.Sub(dual.Exp(dual.Scale(5, dual.Inv(x))), dual.Number{Real: 5})
		}},
		{"exp(sin x)", func(x dual.Number) dual.Number {
			return dual.Exp(dual.Sin(x))
		}},
		{"sin x / cos x", func(x dual.Number) dual.Number {
			return dual.Mul(dual.Sin(x), dual.Inv(dual.Cos(x)))
		}},
		{"sqrt(x*x + 1)", func(x dual.Number) dual.Number {
			return dual.Sqrt(dual.Add(dual.Mul(x, x), dual.Number{Real: 1}))
		}},
		{"x * ln x", func(x dual.Number) dual.Number {
			return dual.Mul(x, dual.Log(x))
		}},
		{"x^3 + 2*x", func(x dual.Number) dual.Number {
			return dual.Add(dual.PowReal(x, 3), dual.Scale(2, x))
		}},
		{"x^x", func(x dual.Number) dual.Number {
			return dual.Pow(x, x)
		}},
	}
	points := []float64{0.5, 1, 1.5, 2, 3}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			g := autodiff.NewGraph()
			e, err := g.ParseString(c.src)
			if err != nil {
				t.Fatal(c.src, "failed to parse:", err)
			}
			env := autodiff.NewEnv()
			for _, p := range points {
				env.BindName("x", p)
				want := c.fn(dual.Number{Real: p, Emag: 1})
				v, err := e.Eval(env)
				if err != nil {
					t.Fatal(err)
				}
				if !scalar.EqualWithinAbsOrRel(v, want.Real, 1e-12, 1e-12) {
					t.Errorf("value at %g: want %g, got %g", p, want.Real, v)
				}
				d, err := e.Diff(env)
				if err != nil {
					t.Fatal(err)
				}
				if !scalar.EqualWithinAbsOrRel(d, want.Emag, 1e-12, 1e-12) {
					t.Errorf("derivative at %g: want %g, got %g", p, want.Emag, d)
				}
			}
		})
	}
}

// TestDiffUnboundVariable checks that differentiation demands a complete
// environment even though the derivative of a lone variable never reads
// its value.
func TestDiffUnboundVariable(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Var("x3")
	if d, err := x.Diff(autodiff.NewEnv()); err == nil {
		t.Fatalf("differentiating unbound variable gave %g, want error", d)
	} else if u, ok := err.(*autodiff.UnboundVariableError); !ok || u.Name != "x3" {
		t.Errorf("error was %#v, want UnboundVariableError naming x3", err)
	}
}

// TestDiffQuotientByZero checks that the quotient rule inherits division's
// propagation behavior at a zero denominator.
func TestDiffQuotientByZero(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Var("x")
	e := g.Div(g.Const(5), x)
	d, err := e.Diff(autodiff.NewEnv().Bind(x, 0))
	if err != nil {
		t.Fatalf("differentiating at zero denominator gave error %v", err)
	}
	if !math.IsNaN(d) {
		t.Errorf("d(5/x) at x=0 is %g, want NaN from the quotient rule", d)
	}
}
