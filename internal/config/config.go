// Package config defines the typed run configuration for a single pass
// through the encode / channel / decode pipeline. The shape is fixed:
// unknown parameters are rejected when a configuration is built, never
// silently carried along to fail at execution time.
package config

import (
	"fmt"
	"strings"
)

// Modulation identifies the symbol mapping used by the data source.
type Modulation string

const (
	BPSK  Modulation = "bpsk"
	QPSK  Modulation = "qpsk"
	QAM16 Modulation = "qam16"
	QAM64 Modulation = "qam64"
)

// ParseModulation converts a user-supplied name into a Modulation.
func ParseModulation(s string) (Modulation, error) {
	switch Modulation(strings.ToLower(s)) {
	case BPSK:
		return BPSK, nil
	case QPSK:
		return QPSK, nil
	case QAM16:
		return QAM16, nil
	case QAM64:
		return QAM64, nil
	}
	return "", fmt.Errorf("unknown modulation %q (expected bpsk, qpsk, qam16 or qam64)", s)
}

// BitsPerSymbol returns the number of bits carried by one symbol.
func (m Modulation) BitsPerSymbol() int {
	switch m {
	case BPSK:
		return 1
	case QPSK:
		return 2
	case QAM16:
		return 4
	case QAM64:
		return 6
	}
	return 0
}

// SourceParams configures the block data source.
type SourceParams struct {
	Modulation Modulation
	ZeroData   bool
	BlockCount int
}

// PipelineParams configures the encode/decode pipeline.
type PipelineParams struct {
	Code          string
	MaxIterations int
	TermOnPass    bool
}

// ChannelParams configures the noise channel between encoder and decoder.
type ChannelParams struct {
	SNRdB       float64
	SkipChannel bool
}

// RunConfiguration is the complete parameter set for one executor call. It
// is a plain value: the sweep driver hands every call its own copy, so an
// executor never observes another combination's overrides.
type RunConfiguration struct {
	Source   SourceParams
	Pipeline PipelineParams
	Channel  ChannelParams
}

// Validate checks the cross-field invariants that the type system cannot.
func (c RunConfiguration) Validate() error {
	if c.Source.Modulation.BitsPerSymbol() == 0 {
		return fmt.Errorf("source: unknown modulation %q", string(c.Source.Modulation))
	}
	if c.Source.BlockCount <= 0 {
		return fmt.Errorf("source: block_count must be positive, got %d", c.Source.BlockCount)
	}
	if c.Pipeline.Code == "" {
		return fmt.Errorf("pipeline: code must not be empty")
	}
	if c.Pipeline.MaxIterations <= 0 {
		return fmt.Errorf("pipeline: max_iterations must be positive, got %d", c.Pipeline.MaxIterations)
	}
	return nil
}
