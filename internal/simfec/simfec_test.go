package simfec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fecworks/fecsweep/internal/codetable"
	"github.com/fecworks/fecsweep/internal/config"
	"github.com/fecworks/fecsweep/internal/executor"
	"github.com/fecworks/fecsweep/internal/result"
)

func testRegistry(t *testing.T) *codetable.Registry {
	t.Helper()
	reg := &codetable.Registry{}
	require.NoError(t, reg.Insert(0, codetable.Descriptor{Name: "wifi_648", N: 648, K: 324, P: 27}))
	return reg
}

func testConfig(snrDb float64) config.RunConfiguration {
	return config.RunConfiguration{
		Source:   config.SourceParams{Modulation: config.QPSK, BlockCount: 50},
		Pipeline: config.PipelineParams{Code: "wifi_648", MaxIterations: 8, TermOnPass: true},
		Channel:  config.ChannelParams{SNRdB: snrDb},
	}
}

func intField(t *testing.T, row result.Row, name string) int64 {
	t.Helper()
	v, ok := row.Get(name)
	require.True(t, ok, "row missing %q", name)
	n, ok := v.Int64()
	require.True(t, ok, "%q is not an int", name)
	return n
}

func floatField(t *testing.T, row result.Row, name string) float64 {
	t.Helper()
	v, ok := row.Get(name)
	require.True(t, ok, "row missing %q", name)
	f, ok := v.Float64()
	require.True(t, ok, "%q is not numeric", name)
	return f
}

func TestExecuteBlockRowShape(t *testing.T) {
	t.Parallel()

	e := New(testRegistry(t), 1)
	row, err := e.ExecuteBlock(context.Background(), testConfig(3.0))
	require.NoError(t, err)

	for _, name := range []string{
		"modulation", "code", "snr_db", "block_count", "max_iterations",
		"term_on_pass", "zero_data", "skip_channel",
		"bit_errors_pre", "bit_errors_post", "pre_ber", "post_ber",
		"pre_fer", "post_fer", "avg_iterations", "throughput_mbps",
	} {
		_, ok := row.Get(name)
		assert.True(t, ok, "row missing %q", name)
	}

	assert.GreaterOrEqual(t, intField(t, row, "bit_errors_pre"), intField(t, row, "bit_errors_post"),
		"decoding must never add errors")
	assert.Greater(t, floatField(t, row, "throughput_mbps"), 0.0)
	assert.GreaterOrEqual(t, floatField(t, row, "avg_iterations"), 1.0)
}

func TestExecuteBlockDeterministicPerSeed(t *testing.T) {
	t.Parallel()

	run := func(seed uint64) result.Row {
		row, err := New(testRegistry(t), seed).ExecuteBlock(context.Background(), testConfig(2.0))
		require.NoError(t, err)
		return row
	}

	a, b := run(42), run(42)
	assert.Equal(t, intField(t, a, "bit_errors_pre"), intField(t, b, "bit_errors_pre"))
	assert.Equal(t, intField(t, a, "bit_errors_post"), intField(t, b, "bit_errors_post"))
}

func TestExecuteBlockSNRTrend(t *testing.T) {
	t.Parallel()

	e := New(testRegistry(t), 7)
	noisy, err := e.ExecuteBlock(context.Background(), testConfig(0.0))
	require.NoError(t, err)
	quiet, err := e.ExecuteBlock(context.Background(), testConfig(10.0))
	require.NoError(t, err)

	assert.Greater(t, intField(t, noisy, "bit_errors_pre"), intField(t, quiet, "bit_errors_pre"))
}

func TestExecuteBlockSkipChannel(t *testing.T) {
	t.Parallel()

	cfg := testConfig(0.0)
	cfg.Channel.SkipChannel = true

	row, err := New(testRegistry(t), 3).ExecuteBlock(context.Background(), cfg)
	require.NoError(t, err)

	assert.Zero(t, intField(t, row, "bit_errors_pre"))
	assert.Zero(t, intField(t, row, "bit_errors_post"))
	assert.Equal(t, 0.0, floatField(t, row, "post_fer"))
	// TermOnPass exits after the single passing iteration.
	assert.Equal(t, 1.0, floatField(t, row, "avg_iterations"))
}

func TestExecuteBlockRejections(t *testing.T) {
	t.Parallel()

	e := New(testRegistry(t), 1)

	t.Run("unknown code", func(t *testing.T) {
		cfg := testConfig(3.0)
		cfg.Pipeline.Code = "dvb_s2"

		_, err := e.ExecuteBlock(context.Background(), cfg)
		var rej *executor.ConfigRejected
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, "code", rej.Field)
	})

	t.Run("unknown modulation", func(t *testing.T) {
		cfg := testConfig(3.0)
		cfg.Source.Modulation = "fm"

		_, err := e.ExecuteBlock(context.Background(), cfg)
		var rej *executor.ConfigRejected
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, "modulation", rej.Field)
	})
}

func TestExecuteBlockCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testRegistry(t), 1).ExecuteBlock(ctx, testConfig(3.0))
	var fault *executor.HardwareFault
	require.ErrorAs(t, err, &fault)
}

func TestCodeTablePassthrough(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := New(testRegistry(t), 1)
	codes, err := e.ListCodes(ctx)
	require.NoError(t, err)
	require.Len(t, codes, 1)

	d := codetable.Descriptor{Name: "docsis_short", N: 1120, K: 840, P: 56}
	require.NoError(t, e.RegisterCode(ctx, 0, d))

	codes, err = e.ListCodes(ctx)
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, "docsis_short", codes[0].Name, "registered code goes ahead of existing entries")
}

func TestDecodeModel(t *testing.T) {
	t.Parallel()

	code := codetable.Descriptor{Name: "c", N: 648, K: 324, P: 27}
	pipe := config.PipelineParams{MaxIterations: 8, TermOnPass: true}

	t.Run("clean frame passes in one iteration", func(t *testing.T) {
		post, iters := decode(0, code, pipe)
		assert.Zero(t, post)
		assert.Equal(t, 1, iters)
	})

	t.Run("correctable frame converges", func(t *testing.T) {
		post, iters := decode(20, code, pipe)
		assert.Zero(t, post)
		assert.LessOrEqual(t, iters, pipe.MaxIterations)
	})

	t.Run("overloaded frame is left unchanged", func(t *testing.T) {
		capacity := (code.N - code.K) / 2
		post, iters := decode(capacity+1, code, pipe)
		assert.Equal(t, capacity+1, post)
		assert.Equal(t, pipe.MaxIterations, iters)
	})

	t.Run("without early termination all iterations run", func(t *testing.T) {
		noTerm := config.PipelineParams{MaxIterations: 8, TermOnPass: false}
		_, iters := decode(2, code, noTerm)
		assert.Equal(t, 8, iters)
	})
}
