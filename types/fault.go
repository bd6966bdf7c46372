package types

import "fmt"

// FaultKind classifies a non-fatal failure somewhere in the pipeline.
type FaultKind string

const (
	// FaultEnumeration covers device or partition listing failures.
	FaultEnumeration FaultKind = "enumeration"
	// FaultDiagnostic covers a health query that failed to run or
	// produced unparseable output.
	FaultDiagnostic FaultKind = "diagnostic"
	// FaultLogSource covers log retrieval failures.
	FaultLogSource FaultKind = "logsource"
	// FaultTransport covers alert delivery failures.
	FaultTransport FaultKind = "transport"
	// FaultRepairTool covers unmount or filesystem-check tool failures.
	FaultRepairTool FaultKind = "repairtool"
)

// Fault is an explicit, non-fatal failure value. Components return it
// instead of throwing across boundaries; the orchestrator aggregates faults
// and always completes the run with whatever partial results are possible.
type Fault struct {
	Kind FaultKind
	Op   string
	Err  error
}

func NewFault(kind FaultKind, op string, err error) *Fault {
	return &Fault{Kind: kind, Op: op, Err: err}
}

func (f *Fault) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %s", f.Kind, f.Op)
	}
	return fmt.Sprintf("%s: %s: %v", f.Kind, f.Op, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
