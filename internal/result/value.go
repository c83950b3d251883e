// Package result holds the rows produced by block executions and the
// append-only table they accumulate in. Tables are the hand-off shape to
// whatever plots or stores the data; this package ends at columns and CSV.
package result

import (
	"fmt"
	"strconv"
)

// Kind discriminates the scalar types a row field can hold.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindBool
	KindString
)

// Value is a single scalar cell: numeric or categorical.
type Value struct {
	kind Kind
	f    float64
	i    int64
	b    bool
	s    string
}

// Float wraps a float64.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Int wraps an int64.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Bool wraps a bool.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Str wraps a string.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// Kind reports the value's scalar kind.
func (v Value) Kind() Kind { return v.kind }

// Float64 returns the value as a float64. Int values convert; other kinds
// report false.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// Int64 returns the integer value, or false for non-int kinds.
func (v Value) Int64() (int64, bool) {
	if v.kind == KindInt {
		return v.i, true
	}
	return 0, false
}

// Bool returns the boolean value, or false for non-bool kinds.
func (v Value) Bool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

// Str returns the string value, or false for non-string kinds.
func (v Value) Str() (string, bool) {
	if v.kind == KindString {
		return v.s, true
	}
	return "", false
}

// String renders the value for CSV cells and log output.
func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	}
	return fmt.Sprintf("invalid(%d)", int(v.kind))
}
