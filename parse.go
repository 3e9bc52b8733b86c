package autodiff

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// Expr   = Unary | Expr '+' Expr | Expr '-' Expr | Expr '*' Expr | Expr '/' Expr | Expr '^' Expr
// Unary  = Primary | '-' Unary | '+' Unary | funcname Unary
// Primary = num | name | '(' Expr ')' | '[' Expr ']'
//
// '^' binds tightest and associates right; '*' and '/' bind tighter than
// '+' and '-'. funcname is one of sin, cos, exp, ln, log, sqrt; pi and e
// are named constants.

// unaryfns maps function identifiers to the node kinds they construct.
var unaryfns = map[string]nodeKind{
	"sin":  nodeSin,
	"cos":  nodeCos,
	"exp":  nodeExp,
	"ln":   nodeLog,
	"log":  nodeLog,
	"sqrt": nodeSqrt,
}

// namedconsts maps constant identifiers to their values.
var namedconsts = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// Parse reads one expression and builds its nodes into g. Repeated variable
// names within a single Parse resolve to a single node, so the result is a
// DAG and Eval and Diff compute each shared occurrence once per call.
func (g *Graph) Parse(src io.RuneScanner) (Expr, error) {
	p := parser{
		g:    g,
		scan: lex(src),
		vars: make(map[string]Expr),
	}
	e, err := p.parseExpr(1)
	if err != nil {
		return Expr{}, err
	}
	// parseExpr pushes the token that ended the expression.
	switch tok := p.scan.must(); tok.kind {
	case tokenEOF:
		return e, nil
	case tokenClose:
		return Expr{}, &BracketError{Col: tok.pos, Right: tok.text}
	default:
		return Expr{}, &TokenError{Col: tok.pos, Token: tok.text}
	}
}

// ParseString is a shortcut to parse an expression from a string.
func (g *Graph) ParseString(src string) (Expr, error) {
	return g.Parse(strings.NewReader(src))
}

type parser struct {
	g    *Graph
	scan *lexer
	// vars is the variable node for each name seen this parse.
	vars map[string]Expr
}

// binprec returns the precedence of a binary operator; higher binds
// tighter. Zero means op is not a binary operator.
func binprec(op string) int {
	switch op {
	case "+", "-":
		return 1
	case "*", "/":
		return 2
	case "^":
		return 3
	}
	return 0
}

var binkinds = map[string]nodeKind{
	"+": nodeAdd,
	"-": nodeSub,
	"*": nodeMul,
	"/": nodeDiv,
	"^": nodePow,
}

// parseExpr parses an expression whose binary operators all have precedence
// at least min. If there is no error, then parseExpr pushes the last token
// it scans, including EOF.
func (p *parser) parseExpr(min int) (Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return Expr{}, err
	}
	for {
		tok, err := p.scan.next()
		if err != nil {
			return Expr{}, err
		}
		if tok.kind != tokenOp {
			p.scan.push(tok)
			return lhs, nil
		}
		prec := binprec(tok.text)
		if prec < min {
			p.scan.push(tok)
			return lhs, nil
		}
		next := prec + 1
		if tok.text == "^" {
			// Right-associative.
			next = prec
		}
		rhs, err := p.parseExpr(next)
		if err != nil {
			return Expr{}, err
		}
		lhs = p.g.binary(binkinds[tok.text], lhs, rhs)
	}
}

// parseUnary parses a term with any unary prefixes: a negation, a function
// application, or a primary.
func (p *parser) parseUnary() (Expr, error) {
	tok, err := p.scan.next()
	if err != nil {
		return Expr{}, err
	}
	switch tok.kind {
	case tokenOp:
		switch tok.text {
		case "-":
			// Negation applies to the whole power, so -x^2 is -(x^2).
			x, err := p.parseExpr(binprec("^"))
			if err != nil {
				return Expr{}, err
			}
			return p.g.Neg(x), nil
		case "+":
			return p.parseExpr(binprec("^"))
		default:
			return Expr{}, &OperatorError{Col: tok.pos, Operator: tok.text}
		}
	case tokenNum:
		return p.g.Const(parsenum(tok.text)), nil
	case tokenIdent:
		if kind, ok := unaryfns[tok.text]; ok {
			arg, err := p.parseUnary()
			if err != nil {
				return Expr{}, err
			}
			return p.g.unary(kind, arg), nil
		}
		if v, ok := namedconsts[tok.text]; ok {
			return p.g.Const(v), nil
		}
		if x, ok := p.vars[tok.text]; ok {
			return x, nil
		}
		x := p.g.Var(tok.text)
		p.vars[tok.text] = x
		return x, nil
	case tokenOpen:
		return p.parseBracketed(tok)
	case tokenClose:
		return Expr{}, &BracketError{Col: tok.pos, Right: tok.text}
	case tokenEOF:
		return Expr{}, &EmptyExpressionError{Col: tok.pos}
	default:
		panic("autodiff: invalid token " + tok.String())
	}
}

// parseBracketed parses a bracketed subexpression after its open bracket.
func (p *parser) parseBracketed(open lexToken) (Expr, error) {
	tok, err := p.scan.next()
	if err != nil {
		return Expr{}, err
	}
	if tok.kind == tokenClose {
		return Expr{}, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	}
	p.scan.push(tok)
	e, err := p.parseExpr(1)
	if err != nil {
		return Expr{}, err
	}
	switch tok := p.scan.must(); tok.kind {
	case tokenClose:
		if matchbracket(open.text) != tok.text {
			return Expr{}, &BracketError{Col: tok.pos, Left: open.text, Right: tok.text}
		}
		return e, nil
	case tokenEOF:
		return Expr{}, &BracketError{Col: tok.pos, Left: open.text}
	default:
		return Expr{}, &TokenError{Col: tok.pos, Token: tok.text}
	}
}

func matchbracket(open string) string {
	k := strings.Index(OpenBrackets, open)
	return CloseBrackets[k : k+1]
}

// parsenum converts a number token to float64. The lexer has already
// validated the syntax; out-of-range magnitudes become infinities, matching
// the evaluator's overflow behavior.
func parsenum(text string) float64 {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		panic("autodiff: invalid number: " + text + " (" + err.Error() + ")")
	}
	return v
}
