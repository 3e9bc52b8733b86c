// Package autodiff builds arithmetic expressions as graphs of immutable
// nodes and computes both their values and their forward-mode derivatives.
//
// Expressions live in a Graph, which owns every node. Leaves are variables
// and constants; internal nodes apply an arithmetic operation to one or two
// children. A child may be shared by any number of parents, so an expression
// is a DAG rather than a tree, and evaluation and differentiation memoize
// per call so a shared subexpression is computed once no matter how many
// paths reach it.
//
// Values for variables come from an Env supplied at call time. An Env binds
// either a specific variable node or a variable name; node bindings win when
// both are present. Evaluating an expression with an unbound variable fails
// with *UnboundVariableError.
//
// Differentiation is forward-mode with a single effective independent
// variable: the derivative of every variable is 1, so for an expression
// with several distinct variables the result is the sum of its sensitivities
// to all of them. It is not a partial derivative with respect to one name.
//
// Arithmetic is IEEE 754 float64 throughout. Division by zero and
// out-of-domain function arguments are not errors; they produce infinities
// or NaN, which propagate to the result for the caller to detect.
package autodiff
