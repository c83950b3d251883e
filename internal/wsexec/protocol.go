package wsexec

import (
	"fmt"

	"github.com/fecworks/fecsweep/internal/codetable"
	"github.com/fecworks/fecsweep/internal/config"
	"github.com/fecworks/fecsweep/internal/result"
)

// Message types exchanged with the board-side control daemon. Every
// request is answered by exactly one response on the same connection.
const (
	typeExecute      = "execute"
	typeListCodes    = "list_codes"
	typeRegisterCode = "register_code"

	typeResult   = "result"
	typeCodes    = "codes"
	typeOK       = "ok"
	typeRejected = "rejected"
	typeFault    = "fault"
)

type request struct {
	Type   string                `json:"type"`
	Config *wireConfig           `json:"config,omitempty"`
	Slot   int                   `json:"slot,omitempty"`
	Code   *codetable.Descriptor `json:"code,omitempty"`
}

type response struct {
	Type   string                 `json:"type"`
	Fields []wireField            `json:"fields,omitempty"`
	Codes  []codetable.Descriptor `json:"codes,omitempty"`
	Field  string                 `json:"field,omitempty"`
	Reason string                 `json:"reason,omitempty"`
}

// wireConfig flattens a RunConfiguration for the wire.
type wireConfig struct {
	Modulation    string  `json:"modulation"`
	ZeroData      bool    `json:"zero_data"`
	BlockCount    int     `json:"block_count"`
	Code          string  `json:"code"`
	MaxIterations int     `json:"max_iterations"`
	TermOnPass    bool    `json:"term_on_pass"`
	SNRdB         float64 `json:"snr_db"`
	SkipChannel   bool    `json:"skip_channel"`
}

func toWireConfig(cfg config.RunConfiguration) *wireConfig {
	return &wireConfig{
		Modulation:    string(cfg.Source.Modulation),
		ZeroData:      cfg.Source.ZeroData,
		BlockCount:    cfg.Source.BlockCount,
		Code:          cfg.Pipeline.Code,
		MaxIterations: cfg.Pipeline.MaxIterations,
		TermOnPass:    cfg.Pipeline.TermOnPass,
		SNRdB:         cfg.Channel.SNRdB,
		SkipChannel:   cfg.Channel.SkipChannel,
	}
}

// wireField is one result cell. Kind selects which value member is live;
// explicit kinds keep int fields from coming back as floats after a JSON
// round trip.
type wireField struct {
	Name string  `json:"name"`
	Kind string  `json:"kind"`
	Num  float64 `json:"num,omitempty"`
	Int  int64   `json:"int,omitempty"`
	Bool bool    `json:"bool,omitempty"`
	Str  string  `json:"str,omitempty"`
}

// rowFromWire rebuilds a result row, preserving the field order the board
// reported.
func rowFromWire(fields []wireField) (result.Row, error) {
	row := result.NewRow()
	for _, f := range fields {
		switch f.Kind {
		case "float":
			row = row.With(f.Name, result.Float(f.Num))
		case "int":
			row = row.With(f.Name, result.Int(f.Int))
		case "bool":
			row = row.With(f.Name, result.Bool(f.Bool))
		case "string":
			row = row.With(f.Name, result.Str(f.Str))
		default:
			return result.Row{}, fmt.Errorf("field %q has unknown kind %q", f.Name, f.Kind)
		}
	}
	return row, nil
}
