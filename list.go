// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ratsum

import (
	"fmt"
	"iter"
	"slices"
)

// List is an ordered, growable sequence of Rational values.
// Insertion order is preserved and duplicates are allowed.
//
// Read methods accept a nil *List and treat it as empty.
type List struct {
	elements []Rational
}

// NewList returns a list holding a copy of values.
func NewList(values ...Rational) *List {
	return &List{elements: slices.Clone(values)}
}

// Len returns the number of elements.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.elements)
}

// Get returns the element at index i.
func (l *List) Get(i int) (Rational, error) {
	if i < 0 || i >= l.Len() {
		return Rational{}, fmt.Errorf("get %d: len %d: %w", i, l.Len(), ErrIndexOutOfRange)
	}
	return l.elements[i], nil
}

// Set replaces the element at index i.
func (l *List) Set(i int, v Rational) error {
	if i < 0 || i >= l.Len() {
		return fmt.Errorf("set %d: len %d: %w", i, l.Len(), ErrIndexOutOfRange)
	}
	l.elements[i] = v
	return nil
}

// Append adds v to the end of the list.
func (l *List) Append(v Rational) {
	l.elements = append(l.elements, v)
}

// Concat returns a new list holding the elements of l followed by op.
// Neither l nor op is modified.
func (l *List) Concat(op Operand) (*List, error) {
	nl := NewList(l.Slice()...)
	if _, err := nl.Extend(op); err != nil {
		return nil, err
	}
	return nl, nil
}

// Extend adds op to the end of l and returns l so that calls can be chained.
//
// An Elements operand adds every element of that list, a Fraction adds one
// element and an Integer adds n/1. Anything else returns ErrUnsupportedOperand
// and leaves l unchanged.
func (l *List) Extend(op Operand) (*List, error) {
	switch op.Kind() {
	case ElementsOperand:
		// Slice copies, so extending a list with itself is safe
		l.elements = append(l.elements, op.l.Slice()...)
	case FractionOperand:
		l.elements = append(l.elements, op.r)
	case IntegerOperand:
		l.elements = append(l.elements, FromInt(op.i))
	default:
		return l, fmt.Errorf("list + %s: %w", op.Kind(), ErrUnsupportedOperand)
	}
	return l, nil
}

// Sum returns the exact sum of the elements, folding left to right from 0/1.
// The sum of an empty list is 0/1.
func (l *List) Sum() (Rational, error) {
	total := FromInt(0)
	for i, v := range l.All() {
		var err error
		if total, err = total.Plus(v); err != nil {
			return Rational{}, fmt.Errorf("sum: element %d: %w", i, err)
		}
	}
	return total, nil
}

// All returns an iterator over the index and value of each element in
// insertion order. The iterator may be used more than once.
func (l *List) All() iter.Seq2[int, Rational] {
	return func(yield func(int, Rational) bool) {
		for i := 0; i < l.Len(); i++ {
			if !yield(i, l.elements[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements in insertion order.
func (l *List) Values() iter.Seq[Rational] {
	return func(yield func(Rational) bool) {
		for _, v := range l.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Slice returns a copy of the elements.
func (l *List) Slice() []Rational {
	if l == nil {
		return nil
	}
	return slices.Clone(l.elements)
}
