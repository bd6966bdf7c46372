package types

// Disk is a whole block device as reported by the host's block-device
// registry, e.g. /dev/sda. Partitions are discovered on demand, not here.
type Disk struct {
	Path string
}

// Partition is a single partition of a Disk, e.g. /dev/sda1. Mount state is
// deliberately not a field: it can change between queries, so callers ask the
// mounter every time instead of trusting a snapshot.
type Partition struct {
	Path string
	Disk string
}

// HealthStatus is the vendor self-assessment verdict for one disk.
type HealthStatus string

const (
	// HealthPassed means the self-assessment ran and reported a pass.
	HealthPassed HealthStatus = "passed"
	// HealthFailed means the self-assessment ran and reported anything
	// other than a pass.
	HealthFailed HealthStatus = "failed"
	// HealthUnknown means the tool ran but its output carried no
	// recognizable verdict token.
	HealthUnknown HealthStatus = "unknown"
	// HealthError means the tool could not be run at all.
	HealthError HealthStatus = "error"
)

// DiskHealth pairs a disk with its status for one run. Enumeration order is
// preserved so reports are stable across identical runs.
type DiskHealth struct {
	Disk   Disk
	Status HealthStatus
}

// Anomaly is a log line that matched the failure-indicator vocabulary,
// together with the keyword that matched it.
type Anomaly struct {
	Line    string
	Keyword string
}

// Notifier delivers a composed alert payload. The pipeline's obligation ends
// at producing subject and body; delivery details live behind this interface.
type Notifier interface {
	Notify(subject, body string) *Fault
}

// Confirmer yields yes/no decisions for the repair workflow. Production
// wiring reads the terminal; tests supply scripted answers.
type Confirmer interface {
	Confirm(prompt string) bool
}
