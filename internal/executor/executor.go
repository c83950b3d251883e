// Package executor defines the boundary to the block that actually runs
// data through the encode / channel / decode path, whether that is SD-FEC
// hardware reached over a control link or the in-process simulator. The
// sweep driver only ever talks to this interface.
package executor

import (
	"context"

	"github.com/fecworks/fecsweep/internal/codetable"
	"github.com/fecworks/fecsweep/internal/config"
	"github.com/fecworks/fecsweep/internal/result"
)

// BlockExecutor runs one block of data through the pipeline and reports
// the measured statistics as a result row.
//
// ExecuteBlock is synchronous and may block for seconds to minutes while
// the underlying device works. Repeated calls with an identical
// configuration are expected to differ statistically: the channel model
// is stochastic. Only one logical pipeline exists behind a handle, so a
// handle must not be shared by concurrent sweeps.
type BlockExecutor interface {
	// ExecuteBlock runs cfg and returns the measured statistics. It fails
	// with *HardwareFault when the device is unreachable or mis-programmed
	// and with *ConfigRejected when the requested code or modulation is
	// not present in the loaded parameter tables.
	ExecuteBlock(ctx context.Context, cfg config.RunConfiguration) (result.Row, error)

	// ListCodes returns the currently loaded code descriptors in slot order.
	ListCodes(ctx context.Context) ([]codetable.Descriptor, error)

	// RegisterCode inserts an additional precomputed code parameter set at
	// the given slot, ahead of existing entries.
	RegisterCode(ctx context.Context, slot int, d codetable.Descriptor) error
}
