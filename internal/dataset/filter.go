package dataset

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/bbanalyze/internal/errs"
)

// Op is a comparison operator of a Predicate.
type Op int

const (
	Eq Op = iota
	Ne
	Gt
	Ge
	Lt
	Le
)

var opNames = map[Op]string{Eq: "==", Ne: "!=", Gt: ">", Ge: ">=", Lt: "<", Le: "<="}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// ParseOp maps an operator symbol to an Op.
func ParseOp(s string) (Op, error) {
	for op, name := range opNames {
		if name == s {
			return op, nil
		}
	}
	if s == "=" {
		return Eq, nil
	}
	return 0, fmt.Errorf("%w: unsupported operator %q", errs.ErrInvalidInput, s)
}

// Value is a typed literal compared against column cells.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Num builds a numeric literal.
func Num(v float64) Value { return Value{kind: Numeric, num: v} }

// Str builds a string literal.
func Str(v string) Value { return Value{kind: String, str: v} }

// Kind returns the literal's kind.
func (v Value) Kind() Kind { return v.kind }

func (v Value) String() string {
	if v.kind == Numeric {
		return fmt.Sprintf("%g", v.num)
	}
	return fmt.Sprintf("%q", v.str)
}

// Predicate selects rows where Column Op Value holds.
//
// Numeric columns accept numeric literals with every operator. String columns
// accept string literals with Eq and Ne only. Missing cells never match.
type Predicate struct {
	Column string
	Op     Op
	Value  Value
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s %s %s", p.Column, p.Op, p.Value)
}

// Filter returns the rows satisfying p. The receiver is not modified.
func (d *Dataset) Filter(p Predicate) (*Dataset, error) {
	mask, err := d.match(p)
	if err != nil {
		return nil, err
	}
	return d.keep(mask)
}

// Where returns the rows satisfying every predicate.
func (d *Dataset) Where(preds ...Predicate) (*Dataset, error) {
	keep := make([]bool, d.Len())
	for i := range keep {
		keep[i] = true
	}
	for _, p := range preds {
		mask, err := d.match(p)
		if err != nil {
			return nil, err
		}
		for i := range keep {
			keep[i] = keep[i] && mask[i]
		}
	}
	return d.keep(keep)
}

func (d *Dataset) keep(mask []bool) (*Dataset, error) {
	idx := make([]int, 0, len(mask))
	for i, ok := range mask {
		if ok {
			idx = append(idx, i)
		}
	}
	return d.Rows(idx)
}

func (d *Dataset) match(p Predicate) ([]bool, error) {
	if _, ok := opNames[p.Op]; !ok {
		return nil, errs.Column("filter", p.Column, fmt.Errorf("%w: unsupported operator %v", errs.ErrInvalidInput, p.Op))
	}
	kind, err := d.Kind(p.Column)
	if err != nil {
		return nil, err
	}
	if kind != p.Value.kind {
		return nil, errs.Column("filter", p.Column,
			fmt.Errorf("%w: %s literal %s against %s column", errs.ErrInvalidInput, p.Value.kind, p.Value, kind))
	}
	if kind == String {
		return d.matchString(p)
	}
	vals, err := d.Floats(p.Column)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		out[i] = compare(v, p.Op, p.Value.num)
	}
	return out, nil
}

func (d *Dataset) matchString(p Predicate) ([]bool, error) {
	if p.Op != Eq && p.Op != Ne {
		return nil, errs.Column("filter", p.Column,
			fmt.Errorf("%w: operator %v is not defined for string columns", errs.ErrInvalidInput, p.Op))
	}
	vals, miss, err := d.Strings(p.Column)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(vals))
	for i, v := range vals {
		if miss[i] {
			continue
		}
		out[i] = (v == p.Value.str) == (p.Op == Eq)
	}
	return out, nil
}

func compare(a float64, op Op, b float64) bool {
	switch op {
	case Eq:
		return a == b
	case Ne:
		return a != b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	case Lt:
		return a < b
	case Le:
		return a <= b
	}
	return false
}
