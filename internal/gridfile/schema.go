package gridfile

import "github.com/hashicorp/hcl/v2"

// fileSchema is the top-level shape of a sweep file. Anything outside
// these blocks is a decode error: sweep files have a fixed vocabulary and
// unknown attributes are rejected up front rather than ignored.
type fileSchema struct {
	Sweeps []*sweepSchema `hcl:"sweep,block"`
}

// sweepSchema is one `sweep "name" { ... }` block.
type sweepSchema struct {
	Name     string          `hcl:"name,label"`
	Order    string          `hcl:"order,optional"`
	Source   *sourceSchema   `hcl:"source,block"`
	Pipeline *pipelineSchema `hcl:"pipeline,block"`
	Channel  *channelSchema  `hcl:"channel,block"`
	Axes     []*axisSchema   `hcl:"axis,block"`
}

type sourceSchema struct {
	Modulation string `hcl:"modulation"`
	ZeroData   *bool  `hcl:"zero_data,optional"`
	BlockCount int    `hcl:"block_count"`
}

type pipelineSchema struct {
	Code          string `hcl:"code"`
	MaxIterations int    `hcl:"max_iterations"`
	TermOnPass    *bool  `hcl:"term_on_pass,optional"`
}

type channelSchema struct {
	SNRdB       float64 `hcl:"snr_db"`
	SkipChannel *bool   `hcl:"skip_channel,optional"`
}

// axisSchema is one `axis "field" { ... }` block. Values stays an HCL
// expression so its elements can be converted per the target field's kind
// during translation.
type axisSchema struct {
	Field  string         `hcl:"field,label"`
	Values hcl.Expression `hcl:"values,optional"`
	From   *float64       `hcl:"from,optional"`
	To     *float64       `hcl:"to,optional"`
	Step   *float64       `hcl:"step,optional"`
}
