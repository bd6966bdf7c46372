package monitor

import (
	"errors"

	"github.com/hashicorp/go-multierror"
	"github.com/pterm/pterm"

	"github.com/diskwatch-io/diskwatch/alert"
	"github.com/diskwatch-io/diskwatch/inventory"
	"github.com/diskwatch-io/diskwatch/logscan"
	"github.com/diskwatch-io/diskwatch/repair"
	"github.com/diskwatch-io/diskwatch/smart"
	"github.com/diskwatch-io/diskwatch/types"
)

// Monitor wires the detection-decision-repair pipeline for one invocation.
// Each run is stateless: nothing carries over between invocations.
type Monitor struct {
	Logger     types.Logger
	Inventory  *inventory.Inventory
	Classifier *smart.Classifier
	Scanner    *logscan.Scanner
	Notifier   types.Notifier
	Workflow   *repair.Workflow
	Host       string
	// SkipRepair suppresses the interactive repair phase; the alert is
	// still decided and delivered.
	SkipRepair bool
}

// Summary is everything one run produced.
type Summary struct {
	Statuses []types.DiskHealth
	Report   alert.Report
	Attempts []repair.Attempt
}

// Run executes the whole pipeline: enumerate, classify every disk in order,
// scan the logs once, decide, and on an alert notify and offer repair. No
// fault anywhere aborts the run; they are aggregated into the returned error
// and the best possible partial result is always produced.
func (m *Monitor) Run() (Summary, error) {
	var faults error
	summary := Summary{}

	disks, fault := m.Inventory.ListDisks()
	if fault != nil {
		faults = multierror.Append(faults, fault)
	}
	if len(disks) == 0 {
		pterm.Info.Println("No disks found.")
		return summary, faults
	}

	// Every enumerated disk gets exactly one status; none is omitted.
	for _, d := range disks {
		status := m.Classifier.Classify(d)
		summary.Statuses = append(summary.Statuses, types.DiskHealth{Disk: d, Status: status})
		pterm.Info.Printfln("%s: SMART status = %s", d.Path, status)
	}

	anomalies, fault := m.Scanner.Scan()
	if fault != nil {
		faults = multierror.Append(faults, fault)
	}
	if len(anomalies) > 0 {
		pterm.Warning.Printfln("Found %d disk-related errors in system logs.", len(anomalies))
		for _, a := range anomalies {
			pterm.Println(" " + a.Line)
		}
	}

	summary.Report = alert.Decide(summary.Statuses, anomalies)
	if !summary.Report.Fires() {
		pterm.Success.Println("All disks passed SMART checks and no disk errors found in logs.")
		return summary, faults
	}

	subject, body := alert.Compose(summary.Report, m.describeAll(summary.Report), m.Host)
	if fault := m.Notifier.Notify(subject, body); fault != nil {
		// Delivery failure is reported locally, never retried, and never
		// blocks the repair phase.
		pterm.Warning.Printfln("Failed to send alert: %v", fault)
		m.Logger.Logger.Error().Err(fault).Msg("Alert delivery failed")
		faults = multierror.Append(faults, fault)
	} else {
		pterm.Success.Println("Alert email sent.")
	}

	if m.SkipRepair {
		m.Logger.Logger.Info().Msg("Repair phase disabled")
		return summary, faults
	}

	for _, dh := range summary.Report.FailedDisks {
		pterm.Println()
		pterm.Info.Printfln("Disk %s has issues. Checking partitions for repair...", dh.Disk.Path)
		parts, fault := m.Inventory.ListPartitions(dh.Disk)
		if fault != nil {
			faults = multierror.Append(faults, fault)
		}
		if len(parts) == 0 {
			pterm.Info.Printfln("No partitions found on %s.", dh.Disk.Path)
			continue
		}
		attempts := m.Workflow.RepairPartitions(parts)
		summary.Attempts = append(summary.Attempts, attempts...)
		for _, a := range attempts {
			if a.Outcome == repair.OutcomeToolError {
				faults = multierror.Append(faults, types.NewFault(types.FaultRepairTool, "repair "+a.Partition.Path, errors.New(a.Detail)))
			}
		}
	}

	return summary, faults
}

func (m *Monitor) describeAll(r alert.Report) map[string]string {
	details := map[string]string{}
	for _, dh := range r.FailedDisks {
		if d := m.Inventory.Describe(dh.Disk); d != "" {
			details[dh.Disk.Path] = d
		}
	}
	return details
}
