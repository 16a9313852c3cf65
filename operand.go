// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ratsum

// OperandKind identifies the variant held by an Operand.
type OperandKind int

const (
	InvalidOperand OperandKind = iota
	IntegerOperand
	FractionOperand
	ElementsOperand
)

func (k OperandKind) String() string {
	switch k {
	case IntegerOperand:
		return "integer"
	case FractionOperand:
		return "fraction"
	case ElementsOperand:
		return "elements"
	}
	return "invalid"
}

// Operand is the right-hand side of Rational.Add, List.Concat and List.Extend.
// It holds exactly one of an integer, a Rational or a List.
//
// The zero value is an InvalidOperand and is rejected by every operation.
type Operand struct {
	kind OperandKind
	i    int64
	r    Rational
	l    *List
}

// Integer returns an operand holding n.
func Integer(n int64) Operand {
	return Operand{kind: IntegerOperand, i: n}
}

// Fraction returns an operand holding r.
func Fraction(r Rational) Operand {
	return Operand{kind: FractionOperand, r: r}
}

// Elements returns an operand holding the elements of l.
// A nil list is treated as empty.
func Elements(l *List) Operand {
	return Operand{kind: ElementsOperand, l: l}
}

func (op Operand) Kind() OperandKind {
	return op.kind
}
