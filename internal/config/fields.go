package config

import (
	"fmt"
	"math"
)

// Kind describes the value type a sweepable field accepts.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindBool
	KindString
)

// String renders the kind for error messages.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	}
	return "unknown"
}

// fieldKinds is the registry of sweepable configuration fields. Axis names
// in a sweep spec must resolve here before any executor call is made.
var fieldKinds = map[string]Kind{
	"modulation":     KindString,
	"zero_data":      KindBool,
	"block_count":    KindInt,
	"code":           KindString,
	"max_iterations": KindInt,
	"term_on_pass":   KindBool,
	"snr_db":         KindFloat,
	"skip_channel":   KindBool,
}

// FieldKind reports the value kind of a named field, and whether the name
// refers to a sweepable field at all.
func FieldKind(name string) (Kind, bool) {
	k, ok := fieldKinds[name]
	return k, ok
}

// ErrUnknownField is returned by Apply for names outside the registry.
type ErrUnknownField struct {
	Name string
}

func (e *ErrUnknownField) Error() string {
	return fmt.Sprintf("unknown configuration field %q", e.Name)
}

// Apply sets the named field on cfg to value, converting the dynamically
// typed value to the field's kind. It is the single override point used by
// sweep axes, so the set of addressable fields lives in exactly one place.
func Apply(cfg *RunConfiguration, name string, value any) error {
	switch name {
	case "modulation":
		s, err := toString(name, value)
		if err != nil {
			return err
		}
		m, err := ParseModulation(s)
		if err != nil {
			return err
		}
		cfg.Source.Modulation = m
	case "zero_data":
		b, err := toBool(name, value)
		if err != nil {
			return err
		}
		cfg.Source.ZeroData = b
	case "block_count":
		n, err := toInt(name, value)
		if err != nil {
			return err
		}
		cfg.Source.BlockCount = n
	case "code":
		s, err := toString(name, value)
		if err != nil {
			return err
		}
		cfg.Pipeline.Code = s
	case "max_iterations":
		n, err := toInt(name, value)
		if err != nil {
			return err
		}
		cfg.Pipeline.MaxIterations = n
	case "term_on_pass":
		b, err := toBool(name, value)
		if err != nil {
			return err
		}
		cfg.Pipeline.TermOnPass = b
	case "snr_db":
		f, err := toFloat(name, value)
		if err != nil {
			return err
		}
		cfg.Channel.SNRdB = f
	case "skip_channel":
		b, err := toBool(name, value)
		if err != nil {
			return err
		}
		cfg.Channel.SkipChannel = b
	default:
		return &ErrUnknownField{Name: name}
	}
	return nil
}

func toFloat(name string, v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	}
	return 0, fmt.Errorf("field %q expects a float, got %T", name, v)
}

func toInt(name string, v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("field %q expects an integer, got %v", name, x)
		}
		return int(x), nil
	}
	return 0, fmt.Errorf("field %q expects an integer, got %T", name, v)
}

func toBool(name string, v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("field %q expects a bool, got %T", name, v)
}

func toString(name string, v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("field %q expects a string, got %T", name, v)
}
