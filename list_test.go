// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ratsum_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mdhender/ratsum"
)

func rationals(t *testing.T, values ...string) []ratsum.Rational {
	t.Helper()
	var list []ratsum.Rational
	for _, s := range values {
		r, err := ratsum.ParseLiteral(s)
		if err != nil {
			t.Fatalf("%q: %v", s, err)
		}
		list = append(list, r)
	}
	return list
}

func TestList_SumEmpty(t *testing.T) {
	sum, err := ratsum.NewList().Sum()
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if !sum.Equal(ratsum.FromInt(0)) {
		t.Errorf("sum = %v, want 0/1", sum)
	}

	var nilList *ratsum.List
	if sum, err = nilList.Sum(); err != nil || sum.String() != "0/1" {
		t.Errorf("nil list: sum = %v, %v, want 0/1", sum, err)
	}
}

func TestList_Sum(t *testing.T) {
	for _, tc := range []struct {
		values []string
		want   string
	}{
		{[]string{"1/2", "1/3"}, "5/6"},
		{[]string{"1", "1/2", "-3"}, "-3/2"},
		{[]string{"1/4", "1/4", "1/4", "1/4"}, "1/1"},
		{[]string{"-1/-2", "1/-2"}, "0/1"},
	} {
		sum, err := ratsum.NewList(rationals(t, tc.values...)...).Sum()
		if err != nil {
			t.Errorf("%v: sum: %v", tc.values, err)
			continue
		}
		if sum.String() != tc.want {
			t.Errorf("%v: sum = %v, want %s", tc.values, sum, tc.want)
		}
	}
}

func TestList_GetSet(t *testing.T) {
	l := ratsum.NewList(rationals(t, "1/2", "2/3")...)
	if got, err := l.Get(1); err != nil || got.String() != "2/3" {
		t.Errorf("Get(1) = %v, %v, want 2/3", got, err)
	}
	if err := l.Set(0, ratsum.FromInt(7)); err != nil {
		t.Fatalf("Set(0): %v", err)
	}
	if got, _ := l.Get(0); got.String() != "7/1" {
		t.Errorf("after Set, Get(0) = %v, want 7/1", got)
	}
	for _, i := range []int{-1, 2, 100} {
		if _, err := l.Get(i); !errors.Is(err, ratsum.ErrIndexOutOfRange) {
			t.Errorf("Get(%d): err = %v, want ErrIndexOutOfRange", i, err)
		}
		if err := l.Set(i, ratsum.FromInt(1)); !errors.Is(err, ratsum.ErrIndexOutOfRange) {
			t.Errorf("Set(%d): err = %v, want ErrIndexOutOfRange", i, err)
		}
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
}

func TestList_Concat(t *testing.T) {
	a := ratsum.NewList(rationals(t, "1/2")...)
	b := ratsum.NewList(rationals(t, "1/3", "1/4")...)

	got, err := a.Concat(ratsum.Elements(b))
	if err != nil {
		t.Fatalf("concat list: %v", err)
	}
	if diff := cmp.Diff(rationals(t, "1/2", "1/3", "1/4"), got.Slice()); diff != "" {
		t.Errorf("concat list: mismatch (-want +got):\n%s", diff)
	}

	got, err = a.Concat(ratsum.Fraction(ratsum.MustParse("3/4")))
	if err != nil {
		t.Fatalf("concat fraction: %v", err)
	}
	if diff := cmp.Diff(rationals(t, "1/2", "3/4"), got.Slice()); diff != "" {
		t.Errorf("concat fraction: mismatch (-want +got):\n%s", diff)
	}

	got, err = a.Concat(ratsum.Integer(5))
	if err != nil {
		t.Fatalf("concat integer: %v", err)
	}
	if diff := cmp.Diff(rationals(t, "1/2", "5/1"), got.Slice()); diff != "" {
		t.Errorf("concat integer: mismatch (-want +got):\n%s", diff)
	}

	if _, err = a.Concat(ratsum.Operand{}); !errors.Is(err, ratsum.ErrUnsupportedOperand) {
		t.Errorf("concat invalid: err = %v, want ErrUnsupportedOperand", err)
	}

	// operands are never modified
	if a.Len() != 1 || b.Len() != 2 {
		t.Errorf("concat modified its operands: len(a) = %d, len(b) = %d", a.Len(), b.Len())
	}
}

func TestList_Extend(t *testing.T) {
	l := ratsum.NewList()
	got, err := l.Extend(ratsum.Integer(5))
	if err != nil {
		t.Fatalf("extend integer: %v", err)
	}
	if got != l {
		t.Errorf("extend did not return the receiver")
	}
	if _, err = l.Extend(ratsum.Fraction(ratsum.MustParse("1/2"))); err != nil {
		t.Fatalf("extend fraction: %v", err)
	}
	if _, err = l.Extend(ratsum.Elements(l)); err != nil {
		t.Fatalf("extend self: %v", err)
	}
	if diff := cmp.Diff(rationals(t, "5", "1/2", "5", "1/2"), l.Slice()); diff != "" {
		t.Errorf("extend: mismatch (-want +got):\n%s", diff)
	}

	if _, err = l.Extend(ratsum.Operand{}); !errors.Is(err, ratsum.ErrUnsupportedOperand) {
		t.Errorf("extend invalid: err = %v, want ErrUnsupportedOperand", err)
	}
	if l.Len() != 4 {
		t.Errorf("failed extend changed the list: len = %d, want 4", l.Len())
	}
}

func TestList_ExtendChained(t *testing.T) {
	l := ratsum.NewList()
	if _, err := l.Extend(ratsum.Integer(1)); err != nil {
		t.Fatal(err)
	}
	next, err := l.Extend(ratsum.Integer(2))
	if err != nil {
		t.Fatal(err)
	}
	if _, err = next.Extend(ratsum.Integer(3)); err != nil {
		t.Fatal(err)
	}
	if sum, _ := l.Sum(); sum.String() != "6/1" {
		t.Errorf("sum = %v, want 6/1", sum)
	}
}

func TestList_IterationIsRestartable(t *testing.T) {
	l := ratsum.NewList(rationals(t, "1", "1/2", "-3")...)
	for pass := 0; pass < 2; pass++ {
		var got []ratsum.Rational
		for v := range l.Values() {
			got = append(got, v)
		}
		if diff := cmp.Diff(l.Slice(), got); diff != "" {
			t.Errorf("pass %d: mismatch (-want +got):\n%s", pass, diff)
		}
	}

	// stopping early must not panic
	for i := range l.All() {
		if i == 1 {
			break
		}
	}
}
