package alert

import (
	"fmt"
	"os"
	"strings"

	"github.com/zcalusic/sysinfo"

	"github.com/diskwatch-io/diskwatch/types"
)

// Report is the aggregated alert decision for one run. It is non-empty if
// and only if an alert fires.
type Report struct {
	FailedDisks []types.DiskHealth
	Anomalies   []types.Anomaly
}

// Fires reports whether the run produced any alert-worthy evidence. The two
// signals are independent; either one alone fires the alert.
func (r Report) Fires() bool {
	return len(r.FailedDisks) > 0 || len(r.Anomalies) > 0
}

// Decide folds the per-disk statuses and the anomaly scan into a Report.
// Every status other than passed counts as failed: unknown and error mean
// "we could not tell", and the decision deliberately errs toward alerting on
// ambiguous diagnostics.
func Decide(statuses []types.DiskHealth, anomalies []types.Anomaly) Report {
	r := Report{Anomalies: anomalies}
	for _, dh := range statuses {
		if dh.Status != types.HealthPassed {
			r.FailedDisks = append(r.FailedDisks, dh)
		}
	}
	return r
}

// Compose renders the alert payload. details optionally maps a disk path to a
// short hardware description for the body; missing entries degrade to the
// bare path. Failed disks come first, then anomalous log lines; a category
// with nothing to say is omitted entirely.
func Compose(r Report, details map[string]string, host string) (subject, body string) {
	subject = fmt.Sprintf("Disk health alert on %s", host)

	var b strings.Builder
	b.WriteString("The following disk issues were detected:\n\n")
	if len(r.FailedDisks) > 0 {
		b.WriteString("Failed or failing disks (SMART):\n")
		for _, dh := range r.FailedDisks {
			if d := details[dh.Disk.Path]; d != "" {
				fmt.Fprintf(&b, " - %s (%s): %s\n", dh.Disk.Path, d, dh.Status)
			} else {
				fmt.Fprintf(&b, " - %s: %s\n", dh.Disk.Path, dh.Status)
			}
		}
		b.WriteString("\n")
	}
	if len(r.Anomalies) > 0 {
		b.WriteString("Disk-related errors from system logs:\n")
		for _, a := range r.Anomalies {
			fmt.Fprintf(&b, " - %s\n", a.Line)
		}
	}
	return subject, b.String()
}

// HostLabel identifies the host for the alert subject, "hostname (OS name)"
// when the system inventory is readable, plain hostname otherwise.
func HostLabel() string {
	var si sysinfo.SysInfo
	si.GetSysInfo()
	if si.Node.Hostname != "" {
		if si.OS.Name != "" {
			return fmt.Sprintf("%s (%s)", si.Node.Hostname, si.OS.Name)
		}
		return si.Node.Hostname
	}
	if hn, err := os.Hostname(); err == nil && hn != "" {
		return hn
	}
	return "unknown host"
}
