// Package formula evaluates derived-column expressions of the form
// `NewCol = ColA + ColB * 2`. The right-hand side supports numeric literals,
// column references (bare or backquoted for names with spaces), the four
// arithmetic operators, unary minus, and parentheses, with the usual
// precedence.
package formula

import (
	"errors"
	"fmt"
	"strings"

	"tabwork/internal/frame"
	"tabwork/internal/logging"
)

// ErrParse wraps all syntax errors so callers can distinguish bad input from
// evaluation problems.
var ErrParse = errors.New("formula parse error")

// Formula is a parsed assignment. Apply evaluates it against a frame and
// returns the frame with the target column appended.
type Formula struct {
	Target string
	root   node
}

// Parse splits an assignment on its first '=' and parses the expression.
func Parse(input string) (*Formula, error) {
	eq := strings.Index(input, "=")
	if eq < 0 {
		return nil, fmt.Errorf("%w: missing '=' (want NewCol = expression)", ErrParse)
	}
	target := strings.TrimSpace(input[:eq])
	if target == "" {
		return nil, fmt.Errorf("%w: empty target column name", ErrParse)
	}
	target = strings.Trim(target, "`")

	p := &parser{toks: lex(input[eq+1:])}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, fmt.Errorf("%w: unexpected %q", ErrParse, p.peek().text)
	}
	return &Formula{Target: target, root: root}, nil
}

// Columns returns the column names the expression references.
func (f *Formula) Columns() []string {
	set := make(map[string]bool)
	collectColumns(f.root, set)
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	return out
}

// Apply evaluates the formula row-wise and appends the result as a float
// column. Referenced columns must be numeric. A null operand or a division
// by zero yields a null result cell for that row.
func (f *Formula) Apply(fr *frame.Frame) (*frame.Frame, error) {
	timer := logging.StartTimer(logging.CategoryFrame, "formula.Apply")
	defer timer.Stop()

	env := make(map[string]colData)
	for _, name := range f.Columns() {
		vals, ok, err := fr.NumericColumn(name)
		if err != nil {
			return nil, err
		}
		env[name] = colData{vals: vals, ok: ok}
	}

	cells := make([]any, fr.NumRows())
	for r := range cells {
		v, ok := f.root.eval(env, r)
		if ok {
			cells[r] = v
		}
	}
	return fr.AddColumn(frame.Column{Name: f.Target, Kind: frame.KindFloat}, cells)
}

type colData struct {
	vals []float64
	ok   []bool
}

// --- AST ---

type node interface {
	eval(env map[string]colData, row int) (float64, bool)
}

type numNode float64

func (n numNode) eval(map[string]colData, int) (float64, bool) { return float64(n), true }

type colNode string

func (n colNode) eval(env map[string]colData, row int) (float64, bool) {
	c := env[string(n)]
	if row >= len(c.vals) || !c.ok[row] {
		return 0, false
	}
	return c.vals[row], true
}

type unaryNode struct{ child node }

func (n unaryNode) eval(env map[string]colData, row int) (float64, bool) {
	v, ok := n.child.eval(env, row)
	return -v, ok
}

type binNode struct {
	op          byte
	left, right node
}

func (n binNode) eval(env map[string]colData, row int) (float64, bool) {
	l, lok := n.left.eval(env, row)
	r, rok := n.right.eval(env, row)
	if !lok || !rok {
		return 0, false
	}
	switch n.op {
	case '+':
		return l + r, true
	case '-':
		return l - r, true
	case '*':
		return l * r, true
	case '/':
		if r == 0 {
			return 0, false
		}
		return l / r, true
	}
	return 0, false
}

func collectColumns(n node, set map[string]bool) {
	switch x := n.(type) {
	case colNode:
		set[string(x)] = true
	case unaryNode:
		collectColumns(x.child, set)
	case binNode:
		collectColumns(x.left, set)
		collectColumns(x.right, set)
	}
}
