// Package formula evaluates the arithmetic expressions components use to
// derive a size-dependent standard time, e.g. "diameter * 2 + 5".
//
// Expressions are parsed with go/parser and then lowered into a small
// tagged tree. Only numeric literals, one variable, parentheses, unary
// +/- and the four binary operators survive lowering; anything else is
// rejected before evaluation.
package formula

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"strconv"

	pkgerrors "weld-oee/backend/pkg/errors"
)

type kind uint8

const (
	kindNumber kind = iota
	kindVariable
	kindNeg
	kindAdd
	kindSub
	kindMul
	kindDiv
)

type node struct {
	kind        kind
	value       float64
	left, right *node
}

// Expr a compiled formula
type Expr struct {
	src      string
	variable string
	root     *node
}

// Compile parses src. It fails with ErrFormulaEvaluation when src is not
// plain arithmetic over at most one variable.
func Compile(src string) (*Expr, error) {
	parsed, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", pkgerrors.ErrFormulaEvaluation, src, err)
	}
	e := &Expr{src: src}
	root, err := e.lower(parsed)
	if err != nil {
		return nil, err
	}
	e.root = root
	return e, nil
}

// Variable name of the free variable, empty for constant formulas
func (e *Expr) Variable() string { return e.variable }

// String source text
func (e *Expr) String() string { return e.src }

// Eval binds the variable to value and evaluates. The result must be a
// finite positive number.
func (e *Expr) Eval(value float64) (float64, error) {
	out, err := eval(e.root, value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", pkgerrors.ErrFormulaEvaluation, e.src, err)
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, fmt.Errorf("%w: %q: result is not finite", pkgerrors.ErrFormulaEvaluation, e.src)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%w: %q: result %v is not positive", pkgerrors.ErrFormulaEvaluation, e.src, out)
	}
	return out, nil
}

// Evaluate compiles and evaluates src in one step
func Evaluate(src string, value float64) (float64, error) {
	e, err := Compile(src)
	if err != nil {
		return 0, err
	}
	return e.Eval(value)
}

func (e *Expr) lower(n ast.Expr) (*node, error) {
	switch n := n.(type) {
	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return nil, e.reject("literal %s", n.Value)
		}
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, e.reject("number %s", n.Value)
		}
		return &node{kind: kindNumber, value: v}, nil

	case *ast.Ident:
		if e.variable != "" && e.variable != n.Name {
			return nil, e.reject("second variable %s", n.Name)
		}
		e.variable = n.Name
		return &node{kind: kindVariable}, nil

	case *ast.ParenExpr:
		return e.lower(n.X)

	case *ast.UnaryExpr:
		x, err := e.lower(n.X)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case token.ADD:
			return x, nil
		case token.SUB:
			return &node{kind: kindNeg, left: x}, nil
		}
		return nil, e.reject("operator %s", n.Op)

	case *ast.BinaryExpr:
		var k kind
		switch n.Op {
		case token.ADD:
			k = kindAdd
		case token.SUB:
			k = kindSub
		case token.MUL:
			k = kindMul
		case token.QUO:
			k = kindDiv
		default:
			return nil, e.reject("operator %s", n.Op)
		}
		l, err := e.lower(n.X)
		if err != nil {
			return nil, err
		}
		r, err := e.lower(n.Y)
		if err != nil {
			return nil, err
		}
		return &node{kind: k, left: l, right: r}, nil
	}
	return nil, e.reject("expression %T", n)
}

func (e *Expr) reject(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %q: unsupported %s", pkgerrors.ErrFormulaEvaluation, e.src, fmt.Sprintf(format, args...))
}

func eval(n *node, x float64) (float64, error) {
	switch n.kind {
	case kindNumber:
		return n.value, nil
	case kindVariable:
		return x, nil
	case kindNeg:
		v, err := eval(n.left, x)
		return -v, err
	}

	l, err := eval(n.left, x)
	if err != nil {
		return 0, err
	}
	r, err := eval(n.right, x)
	if err != nil {
		return 0, err
	}
	switch n.kind {
	case kindAdd:
		return l + r, nil
	case kindSub:
		return l - r, nil
	case kindMul:
		return l * r, nil
	case kindDiv:
		if r == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return l / r, nil
	}
	return 0, fmt.Errorf("unknown node kind %d", n.kind)
}
