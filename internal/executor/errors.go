package executor

import "fmt"

// HardwareFault reports that the device behind the executor is unreachable
// or mis-programmed. It is fatal to the sweep that observes it: the driver
// stops immediately and surfaces the rows collected so far.
type HardwareFault struct {
	// Op names the operation that failed, e.g. "execute" or "dial".
	Op  string
	Err error
}

func (e *HardwareFault) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("hardware fault during %s", e.Op)
	}
	return fmt.Sprintf("hardware fault during %s: %v", e.Op, e.Err)
}

func (e *HardwareFault) Unwrap() error { return e.Err }

// ConfigRejected reports that a requested parameter — typically the code
// name or modulation — is not present in the currently loaded tables. It
// only disqualifies the one combination that asked for it; sweeps skip and
// continue.
type ConfigRejected struct {
	// Field is the configuration field the executor objected to.
	Field  string
	Reason string
}

func (e *ConfigRejected) Error() string {
	return fmt.Sprintf("configuration rejected: %s: %s", e.Field, e.Reason)
}
