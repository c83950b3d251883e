package gridfile

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/fecworks/fecsweep/internal/config"
	"github.com/fecworks/fecsweep/internal/sweep"
)

// translateSweep converts a decoded sweep block into a runnable
// definition, building the base configuration and the sweep spec.
func translateSweep(s *sweepSchema, filePath string) (Definition, error) {
	def := Definition{Name: s.Name}

	if s.Source == nil || s.Pipeline == nil || s.Channel == nil {
		return def, fmt.Errorf("sweep %q in %s: source, pipeline and channel blocks are all required", s.Name, filePath)
	}

	mod, err := config.ParseModulation(s.Source.Modulation)
	if err != nil {
		return def, fmt.Errorf("sweep %q in %s: %w", s.Name, filePath, err)
	}

	def.Base = config.RunConfiguration{
		Source: config.SourceParams{
			Modulation: mod,
			ZeroData:   boolOr(s.Source.ZeroData, false),
			BlockCount: s.Source.BlockCount,
		},
		Pipeline: config.PipelineParams{
			Code:          s.Pipeline.Code,
			MaxIterations: s.Pipeline.MaxIterations,
			TermOnPass:    boolOr(s.Pipeline.TermOnPass, true),
		},
		Channel: config.ChannelParams{
			SNRdB:       s.Channel.SNRdB,
			SkipChannel: boolOr(s.Channel.SkipChannel, false),
		},
	}
	if err := def.Base.Validate(); err != nil {
		return def, fmt.Errorf("sweep %q in %s: %w", s.Name, filePath, err)
	}

	def.Spec.Order = sweep.Order(s.Order)
	if len(s.Axes) == 0 {
		return def, fmt.Errorf("sweep %q in %s: at least one axis is required", s.Name, filePath)
	}
	for _, a := range s.Axes {
		axis, err := translateAxis(a)
		if err != nil {
			return def, fmt.Errorf("sweep %q in %s: %w", s.Name, filePath, err)
		}
		def.Spec.Axes = append(def.Spec.Axes, axis)
	}

	return def, nil
}

func translateAxis(a *axisSchema) (sweep.Axis, error) {
	axis := sweep.Axis{Field: a.Field}

	kind, ok := config.FieldKind(a.Field)
	if !ok {
		return axis, fmt.Errorf("axis %q does not name a configuration field", a.Field)
	}

	if a.From != nil || a.To != nil || a.Step != nil {
		if a.From == nil || a.To == nil || a.Step == nil {
			return axis, fmt.Errorf("axis %q: from, to and step must be given together", a.Field)
		}
		axis.From, axis.To, axis.Step = *a.From, *a.To, *a.Step
	}

	if a.Values != nil {
		val, diags := a.Values.Value(nil)
		if diags.HasErrors() {
			return axis, fmt.Errorf("axis %q: evaluating values: %w", a.Field, diags)
		}
		if val.IsNull() {
			return axis, nil
		}
		if !val.CanIterateElements() {
			return axis, fmt.Errorf("axis %q: values must be a list", a.Field)
		}
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			v, err := elementValue(elem, kind)
			if err != nil {
				return axis, fmt.Errorf("axis %q: %w", a.Field, err)
			}
			axis.Values = append(axis.Values, v)
		}
	}

	return axis, nil
}

// elementValue converts one axis element to the Go type the target field
// expects.
func elementValue(elem cty.Value, kind config.Kind) (any, error) {
	var want cty.Type
	switch kind {
	case config.KindFloat, config.KindInt:
		want = cty.Number
	case config.KindBool:
		want = cty.Bool
	case config.KindString:
		want = cty.String
	default:
		return nil, fmt.Errorf("unhandled field kind %v", kind)
	}

	conv, err := convert.Convert(elem, want)
	if err != nil {
		return nil, fmt.Errorf("value %v does not fit a %s field: %w", elem.GoString(), kind, err)
	}
	switch kind {
	case config.KindFloat, config.KindInt:
		f, _ := conv.AsBigFloat().Float64()
		return f, nil
	case config.KindBool:
		return conv.True(), nil
	default:
		return conv.AsString(), nil
	}
}

func boolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
