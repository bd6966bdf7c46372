package repair

import (
	"fmt"

	"github.com/pterm/pterm"
	mount "k8s.io/mount-utils"

	"github.com/diskwatch-io/diskwatch/types"
)

// Outcome is the terminal state of one repair attempt.
type Outcome string

const (
	// OutcomeSkipped means the user declined the repair.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeUnmountFailed means the partition was mounted and the unmount
	// returned nonzero; no filesystem check was attempted.
	OutcomeUnmountFailed Outcome = "unmount-failed"
	// OutcomeRepaired means the filesystem check reported no uncorrected
	// errors.
	OutcomeRepaired Outcome = "repaired"
	// OutcomeCheckFailed means the check tool ran and exited nonzero. The
	// exit code is surfaced verbatim in Detail, without reinterpretation.
	OutcomeCheckFailed Outcome = "check-failed"
	// OutcomeToolError means a tool process could not be launched at all.
	OutcomeToolError Outcome = "tool-error"
)

// Attempt records one user-confirmed repair action. Never persisted.
type Attempt struct {
	Partition  types.Partition
	WasMounted bool
	Outcome    Outcome
	Detail     string
}

// Workflow walks the partitions of a flagged disk through a guarded
// unmount-then-check sequence. It is strictly sequential: it mutates live
// mount state and runs destructive tools, so concurrent repair across
// partitions of one disk is disallowed by design.
type Workflow struct {
	runner    types.Runner
	mounter   mount.Interface
	confirmer types.Confirmer
	logger    types.Logger
}

func NewWorkflow(runner types.Runner, mounter mount.Interface, confirmer types.Confirmer, logger types.Logger) *Workflow {
	return &Workflow{runner: runner, mounter: mounter, confirmer: confirmer, logger: logger}
}

// RepairPartitions prompts for and runs a repair on each partition in order.
// Failure on one partition never blocks attempting the next; one Attempt is
// recorded per partition.
func (w *Workflow) RepairPartitions(parts []types.Partition) []Attempt {
	attempts := make([]Attempt, 0, len(parts))
	for _, p := range parts {
		attempts = append(attempts, w.repairOne(p))
	}
	return attempts
}

func (w *Workflow) repairOne(p types.Partition) Attempt {
	// Mount state is queried fresh for every partition, never cached.
	mounted, mountPoint := w.mountState(p)
	if mounted {
		pterm.Info.Printfln("Partition %s is mounted at %s.", p.Path, mountPoint)
	} else {
		pterm.Info.Printfln("Partition %s is not mounted.", p.Path)
	}

	if !w.confirmer.Confirm(fmt.Sprintf("Run filesystem repair on %s?", p.Path)) {
		pterm.Info.Printfln("Skipping repair on %s.", p.Path)
		return Attempt{Partition: p, WasMounted: mounted, Outcome: OutcomeSkipped}
	}

	attempt := Attempt{Partition: p, WasMounted: mounted}

	// A filesystem check must never run against a mounted partition, so a
	// mounted one is unmounted first, and any unmount failure is terminal
	// for this partition. No force, no fallback.
	if mounted {
		res := w.runner.Run("umount", p.Path)
		if res.LaunchErr != nil {
			w.logger.Logger.Error().Err(res.LaunchErr).Str("partition", p.Path).Msg("Cannot launch umount")
			attempt.Outcome = OutcomeToolError
			attempt.Detail = res.LaunchErr.Error()
			return attempt
		}
		if res.ExitCode != 0 {
			pterm.Warning.Printfln("Failed to unmount %s, skipping repair.", p.Path)
			w.logger.Logger.Warn().Str("partition", p.Path).Int("exit", res.ExitCode).Str("stderr", res.Stderr).Msg("Unmount failed")
			attempt.Outcome = OutcomeUnmountFailed
			attempt.Detail = fmt.Sprintf("umount exited %d", res.ExitCode)
			return attempt
		}
		pterm.Success.Printfln("Unmounted %s.", p.Path)
	}

	pterm.Info.Printfln("Running fsck on %s...", p.Path)
	res := w.runner.Run("fsck", "-y", p.Path)
	if res.LaunchErr != nil {
		w.logger.Logger.Error().Err(res.LaunchErr).Str("partition", p.Path).Msg("Cannot launch fsck")
		attempt.Outcome = OutcomeToolError
		attempt.Detail = res.LaunchErr.Error()
		return attempt
	}
	if res.ExitCode != 0 {
		pterm.Warning.Printfln("fsck on %s exited %d, review its output.", p.Path, res.ExitCode)
		attempt.Outcome = OutcomeCheckFailed
		attempt.Detail = fmt.Sprintf("fsck exited %d", res.ExitCode)
		return attempt
	}

	pterm.Success.Printfln("Filesystem on %s repaired or clean.", p.Path)
	attempt.Outcome = OutcomeRepaired
	return attempt
}

// mountState reports whether p is currently mounted and where. A mount table
// read failure is treated as not mounted; the subsequent fsck run still fails
// safely in that case because fsck itself refuses mounted filesystems.
func (w *Workflow) mountState(p types.Partition) (bool, string) {
	mps, err := w.mounter.List()
	if err != nil {
		w.logger.Logger.Warn().Err(err).Str("partition", p.Path).Msg("Cannot read mount table")
		return false, ""
	}
	for _, mp := range mps {
		if mp.Device == p.Path {
			return true, mp.Path
		}
	}
	return false, ""
}
