// Package simfec is a software stand-in for the hardware encode / channel
// / decode path, so sweeps can be developed and tested away from the
// board. It models an AWGN channel and a bounded iterative decoder; the
// numbers it produces follow the usual BER-vs-SNR shape but make no claim
// to match any particular code's waterfall.
package simfec

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/fecworks/fecsweep/internal/codetable"
	"github.com/fecworks/fecsweep/internal/config"
	"github.com/fecworks/fecsweep/internal/executor"
	"github.com/fecworks/fecsweep/internal/result"
)

// coreClockHz is the modeled decoder core clock used for the throughput
// figure.
const coreClockHz = 122.88e6

// exactBitLimit caps the workload for per-bit channel simulation; larger
// blocks fall back to sampling the error count directly.
const exactBitLimit = 1 << 16

// Executor implements executor.BlockExecutor in software.
type Executor struct {
	codes *codetable.Registry
	rng   *rand.Rand
}

// New returns a simulator over the given code table. The seed fixes the
// noise sequence: two executors with the same seed and workload produce
// identical rows.
func New(codes *codetable.Registry, seed uint64) *Executor {
	return &Executor{
		codes: codes,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// ListCodes returns the simulator's code table in slot order.
func (e *Executor) ListCodes(ctx context.Context) ([]codetable.Descriptor, error) {
	return e.codes.List(), nil
}

// RegisterCode inserts a code parameter set ahead of existing entries.
func (e *Executor) RegisterCode(ctx context.Context, slot int, d codetable.Descriptor) error {
	return e.codes.Insert(slot, d)
}

// ExecuteBlock runs BlockCount codewords through the modeled channel and
// decoder and returns the aggregated statistics.
func (e *Executor) ExecuteBlock(ctx context.Context, cfg config.RunConfiguration) (result.Row, error) {
	if err := ctx.Err(); err != nil {
		return result.Row{}, &executor.HardwareFault{Op: "execute", Err: err}
	}

	code, ok := e.codes.Lookup(cfg.Pipeline.Code)
	if !ok {
		return result.Row{}, &executor.ConfigRejected{
			Field:  "code",
			Reason: fmt.Sprintf("no code named %q in the loaded table", cfg.Pipeline.Code),
		}
	}
	bps := cfg.Source.Modulation.BitsPerSymbol()
	if bps == 0 {
		return result.Row{}, &executor.ConfigRejected{
			Field:  "modulation",
			Reason: fmt.Sprintf("modulation %q not supported", string(cfg.Source.Modulation)),
		}
	}

	p := e.rawBitErrorProb(cfg)

	var (
		totalPre, totalPost   int
		framesPre, framesPost int
		iterSum               int
	)
	for b := 0; b < cfg.Source.BlockCount; b++ {
		pre := e.channelErrors(code.N, p)
		post, iters := decode(pre, code, cfg.Pipeline)
		totalPre += pre
		totalPost += post
		iterSum += iters
		if pre > 0 {
			framesPre++
		}
		if post > 0 {
			framesPost++
		}
	}

	totalBits := float64(code.N * cfg.Source.BlockCount)
	blocks := float64(cfg.Source.BlockCount)
	avgIters := float64(iterSum) / blocks

	// Decode latency scales with iterations over N/P layer passes.
	cyclesPerFrame := math.Max(avgIters, 1) * float64(code.N) / float64(code.P)
	throughputMbps := float64(code.K) / cyclesPerFrame * coreClockHz / 1e6

	row := result.NewRow().
		With("modulation", result.Str(string(cfg.Source.Modulation))).
		With("code", result.Str(code.Name)).
		With("snr_db", result.Float(cfg.Channel.SNRdB)).
		With("block_count", result.Int(int64(cfg.Source.BlockCount))).
		With("max_iterations", result.Int(int64(cfg.Pipeline.MaxIterations))).
		With("term_on_pass", result.Bool(cfg.Pipeline.TermOnPass)).
		With("zero_data", result.Bool(cfg.Source.ZeroData)).
		With("skip_channel", result.Bool(cfg.Channel.SkipChannel)).
		With("bit_errors_pre", result.Int(int64(totalPre))).
		With("bit_errors_post", result.Int(int64(totalPost))).
		With("pre_ber", result.Float(float64(totalPre)/totalBits)).
		With("post_ber", result.Float(float64(totalPost)/totalBits)).
		With("pre_fer", result.Float(float64(framesPre)/blocks)).
		With("post_fer", result.Float(float64(framesPost)/blocks)).
		With("avg_iterations", result.Float(avgIters)).
		With("throughput_mbps", result.Float(throughputMbps))
	return row, nil
}

// rawBitErrorProb gives the uncoded bit error probability of the Gray
// mapped constellation over AWGN at the configured SNR.
func (e *Executor) rawBitErrorProb(cfg config.RunConfiguration) float64 {
	if cfg.Channel.SkipChannel {
		return 0
	}
	snr := math.Pow(10, cfg.Channel.SNRdB/10)
	switch cfg.Source.Modulation {
	case config.BPSK, config.QPSK:
		return 0.5 * math.Erfc(math.Sqrt(snr))
	case config.QAM16:
		return (3.0 / 8.0) * math.Erfc(math.Sqrt(snr*(2.0/5.0)))
	case config.QAM64:
		return (7.0 / 24.0) * math.Erfc(math.Sqrt(snr*(1.0/7.0)))
	}
	return 0
}

// channelErrors draws the number of corrupted bits in one n-bit codeword.
// Small codewords are simulated bit by bit with Gaussian noise on the
// decision variable; larger ones sample the count from the matching
// binomial distribution.
func (e *Executor) channelErrors(n int, p float64) int {
	if p <= 0 {
		return 0
	}
	if n <= exactBitLimit && p < 0.5 {
		// P(1 + noise < 0) = p when sigma is chosen from p's quantile.
		sigma := -1.0 / distuv.UnitNormal.Quantile(p)
		noise := distuv.Normal{Mu: 0, Sigma: sigma, Src: e.rng}
		errs := 0
		for i := 0; i < n; i++ {
			if 1.0+noise.Rand() < 0 {
				errs++
			}
		}
		return errs
	}
	bin := distuv.Binomial{N: float64(n), P: p, Src: e.rng}
	return int(bin.Rand())
}

// decode models the bounded iterative decoder: codewords inside the code's
// correction capability shed half their remaining errors per iteration;
// codewords beyond it are returned unchanged. Returns the residual error
// count and the iterations spent.
func decode(pre int, code codetable.Descriptor, p config.PipelineParams) (int, int) {
	if pre == 0 {
		if p.TermOnPass {
			return 0, 1
		}
		return 0, p.MaxIterations
	}

	capacity := (code.N - code.K) / 2
	if pre > capacity {
		return pre, p.MaxIterations
	}

	errs := pre
	iters := 0
	for iters < p.MaxIterations && errs > 0 {
		errs /= 2
		iters++
	}
	if errs == 0 && !p.TermOnPass {
		iters = p.MaxIterations
	}
	return errs, iters
}
