package autodiff_test

import (
	"errors"
	"fmt"
	"testing"

	autodiff "github.com/CS207-Project-Team-1/project-planning"
)

func TestParse(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1", "1"},
		{"1.5e2", "150"},
		{".5", "0.5"},
		{"x", "x"},
		{"1+2*3", "(1 + (2 * 3))"},
		{"1*2+3", "((1 * 2) + 3)"},
		{"4-5-6", "((4 - 5) - 6)"},
		{"x/y/z", "((x / y) / z)"},
		{"2^3^2", "(2 ^ (3 ^ 2))"},
		{"-x", "(-x)"},
		{"--x", "(-(-x))"},
		{"+x", "x"},
		{"-x^2", "(-(x ^ 2))"},
		{"x - -5", "(x - (-5))"},
		{"sin x", "sin(x)"},
		{"sin(x)", "sin(x)"},
		{"ln x", "ln(x)"},
		{"log x", "ln(x)"},
		{"sqrt(x + 1)", "sqrt((x + 1))"},
		{"sin x + 1", "(sin(x) + 1)"},
		{"exp sin x", "exp(sin(x))"},
		{"(x+1)*2", "((x + 1) * 2)"},
		{"[x+1]*2", "((x + 1) * 2)"},
		{"( [ x ] )", "x"},
		{"1e999", "+Inf"},
		{"inf", "+Inf"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			g := autodiff.NewGraph()
			e, err := g.ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if got := e.String(); got != c.want {
				t.Errorf("%q parsed wrong:\n\twant %s\n\tgot  %s", c.src, c.want, got)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  error
		pos  int
	}{
		{"empty", "", &autodiff.EmptyExpressionError{}, 1},
		{"spaces", "   ", &autodiff.EmptyExpressionError{}, 4},
		{"trailing-op", "1+", &autodiff.EmptyExpressionError{}, 3},
		{"empty-brackets", "()", &autodiff.EmptyExpressionError{}, 2},
		{"unclosed", "(x", &autodiff.BracketError{}, 3},
		{"unopened", "x)", &autodiff.BracketError{}, 2},
		{"mismatched", "(x]", &autodiff.BracketError{}, 3},
		{"unary-mul", "*x", &autodiff.OperatorError{}, 1},
		{"unary-div", "1+/2", &autodiff.OperatorError{}, 3},
		{"juxtaposed", "1 2", &autodiff.TokenError{}, 3},
		{"juxtaposed-brackets", "(1 2)", &autodiff.TokenError{}, 4},
		{"bad-rune", "$", &autodiff.LexError{}, 2},
		{"bad-number", "1..2", &autodiff.LexError{}, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := autodiff.NewGraph()
			if e, err := g.ParseString(c.src); err == nil {
				t.Fatalf("%q parsed to %v, want error", c.src, e)
			} else {
				var ie autodiff.InputError
				if !errors.As(err, &ie) {
					t.Fatalf("%q gave %#v, which is not an InputError", c.src, err)
				}
				if got, want := fmt.Sprintf("%T", err), fmt.Sprintf("%T", c.err); got != want {
					t.Errorf("%q gave %s (%v), want %s", c.src, got, err, want)
				}
				if ie.Pos() != c.pos {
					t.Errorf("%q gave error at %d (%v), want %d", c.src, ie.Pos(), err, c.pos)
				}
			}
		})
	}
}

func TestParseSharing(t *testing.T) {
	g := autodiff.NewGraph()
	e, err := g.ParseString("x*x + x")
	if err != nil {
		t.Fatal(err)
	}
	env := autodiff.NewEnv().BindName("x", 3)
	if v, _ := e.Eval(env); v != 12 {
		t.Errorf("x*x + x at 3 is %g, want 12", v)
	}
	if d, _ := e.Diff(env); d != 7 {
		t.Errorf("d(x*x + x) at 3 is %g, want 7", d)
	}
}
