// Package sweep enumerates parameter combinations and drives them, one at
// a time, through a block executor, collecting the resulting rows.
package sweep

import (
	"errors"
	"fmt"
	"math"

	"github.com/fecworks/fecsweep/internal/config"
)

// ErrInvalidSpec marks sweep specifications that are rejected before any
// executor call is made.
var ErrInvalidSpec = errors.New("invalid sweep spec")

// Order selects how multiple axes combine.
type Order string

const (
	// OrderProduct walks the cross product of all axes. Axes vary in
	// declaration order with the first axis slowest.
	OrderProduct Order = "product"
	// OrderZip advances all axes in lockstep; every axis must have the
	// same number of values.
	OrderZip Order = "zip"
)

// Axis is one varying parameter: the configuration field it overrides and
// the ordered candidate values. Values may be listed explicitly or, for
// numeric fields, generated from an inclusive From/To range with a
// positive Step.
type Axis struct {
	Field  string
	Values []any

	From float64
	To   float64
	Step float64
}

// materialize returns the axis's ordered values, expanding a range axis.
func (a Axis) materialize() ([]any, error) {
	if len(a.Values) > 0 {
		if a.Step != 0 {
			return nil, fmt.Errorf("axis %q: values and from/to/step are mutually exclusive", a.Field)
		}
		return a.Values, nil
	}
	if a.Step <= 0 {
		return nil, fmt.Errorf("axis %q: step must be positive, got %v", a.Field, a.Step)
	}
	if a.To < a.From {
		return nil, fmt.Errorf("axis %q: to (%v) is below from (%v)", a.Field, a.To, a.From)
	}
	// The epsilon keeps To itself in the sequence despite float rounding.
	n := int(math.Floor((a.To-a.From)/a.Step+1e-9)) + 1
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, a.From+float64(i)*a.Step)
	}
	return out, nil
}

// Spec describes a sweep: the axes to vary and the order to combine them.
// Enumeration is deterministic for a given spec, so reruns visit the same
// combinations in the same sequence.
type Spec struct {
	Axes  []Axis
	Order Order
}

// Override is one field assignment applied on top of the base
// configuration for a single combination.
type Override struct {
	Field string
	Value any
}

// Combination is one fully determined set of overrides, numbered in
// enumeration order.
type Combination struct {
	Index     int
	Overrides []Override
}

// Combinations validates the spec and enumerates every combination in
// deterministic order. All validation failures are reported as
// ErrInvalidSpec before the first combination exists, never mid-sweep.
func (s Spec) Combinations() ([]Combination, error) {
	if len(s.Axes) == 0 {
		return nil, fmt.Errorf("%w: no axes", ErrInvalidSpec)
	}
	order := s.Order
	if order == "" {
		order = OrderProduct
	}
	if order != OrderProduct && order != OrderZip {
		return nil, fmt.Errorf("%w: unknown order %q", ErrInvalidSpec, string(s.Order))
	}

	values := make([][]any, len(s.Axes))
	seen := make(map[string]bool, len(s.Axes))
	for i, axis := range s.Axes {
		kind, ok := config.FieldKind(axis.Field)
		if !ok {
			return nil, fmt.Errorf("%w: axis %q does not name a configuration field", ErrInvalidSpec, axis.Field)
		}
		if seen[axis.Field] {
			return nil, fmt.Errorf("%w: axis %q appears twice", ErrInvalidSpec, axis.Field)
		}
		seen[axis.Field] = true

		vals, err := axis.materialize()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
		}
		if len(vals) == 0 {
			return nil, fmt.Errorf("%w: axis %q has no values", ErrInvalidSpec, axis.Field)
		}
		for _, v := range vals {
			if err := checkValueKind(axis.Field, kind, v); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
			}
		}
		values[i] = vals
	}

	if order == OrderZip {
		return zipCombinations(s.Axes, values)
	}
	return productCombinations(s.Axes, values), nil
}

func zipCombinations(axes []Axis, values [][]any) ([]Combination, error) {
	n := len(values[0])
	for i, vals := range values {
		if len(vals) != n {
			return nil, fmt.Errorf("%w: zip order needs equal-length axes, %q has %d values but %q has %d",
				ErrInvalidSpec, axes[0].Field, n, axes[i].Field, len(vals))
		}
	}
	combos := make([]Combination, 0, n)
	for i := 0; i < n; i++ {
		overrides := make([]Override, len(axes))
		for j, axis := range axes {
			overrides[j] = Override{Field: axis.Field, Value: values[j][i]}
		}
		combos = append(combos, Combination{Index: i, Overrides: overrides})
	}
	return combos, nil
}

func productCombinations(axes []Axis, values [][]any) []Combination {
	total := 1
	for _, vals := range values {
		total *= len(vals)
	}
	combos := make([]Combination, 0, total)
	idx := make([]int, len(axes))
	for i := 0; i < total; i++ {
		overrides := make([]Override, len(axes))
		for j, axis := range axes {
			overrides[j] = Override{Field: axis.Field, Value: values[j][idx[j]]}
		}
		combos = append(combos, Combination{Index: i, Overrides: overrides})

		// Odometer increment, last axis fastest.
		for j := len(idx) - 1; j >= 0; j-- {
			idx[j]++
			if idx[j] < len(values[j]) {
				break
			}
			idx[j] = 0
		}
	}
	return combos
}

// checkValueKind rejects axis values whose type cannot serve the target
// field, so kind mismatches surface as spec errors rather than per-row
// failures mid-sweep.
func checkValueKind(field string, kind config.Kind, v any) error {
	switch kind {
	case config.KindFloat:
		switch v.(type) {
		case float64, float32, int, int64:
			return nil
		}
	case config.KindInt:
		switch x := v.(type) {
		case int, int64:
			return nil
		case float64:
			if x == math.Trunc(x) {
				return nil
			}
		}
	case config.KindBool:
		if _, ok := v.(bool); ok {
			return nil
		}
	case config.KindString:
		if s, ok := v.(string); ok {
			if field == "modulation" {
				_, err := config.ParseModulation(s)
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("axis %q: value %v (%T) does not fit a %s field", field, v, v, kind)
}
