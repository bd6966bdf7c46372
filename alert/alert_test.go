package alert_test

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/diskwatch-io/diskwatch/alert"
	"github.com/diskwatch-io/diskwatch/types"
)

func TestAlert(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Alert test suite")
}

var _ = Describe("Decide", func() {
	diskA := types.Disk{Path: "/dev/sda"}
	diskB := types.Disk{Path: "/dev/sdb"}

	It("does not fire when everything passed and the logs are clean", func() {
		r := alert.Decide([]types.DiskHealth{
			{Disk: diskA, Status: types.HealthPassed},
			{Disk: diskB, Status: types.HealthPassed},
		}, nil)
		Expect(r.Fires()).To(BeFalse())
		Expect(r.FailedDisks).To(BeEmpty())
	})

	It("fires on a failed disk alone, listing only that disk", func() {
		r := alert.Decide([]types.DiskHealth{
			{Disk: diskA, Status: types.HealthPassed},
			{Disk: diskB, Status: types.HealthFailed},
		}, nil)
		Expect(r.Fires()).To(BeTrue())
		Expect(r.FailedDisks).To(HaveLen(1))
		Expect(r.FailedDisks[0].Disk).To(Equal(diskB))
	})

	It("fires on anomalies alone", func() {
		r := alert.Decide([]types.DiskHealth{
			{Disk: diskA, Status: types.HealthPassed},
		}, []types.Anomaly{{Line: "sda offline", Keyword: "offline"}})
		Expect(r.Fires()).To(BeTrue())
		Expect(r.FailedDisks).To(BeEmpty())
	})

	It("treats unknown and error statuses as alert-worthy", func() {
		// Conservative by design: "we could not tell" raises an alert too.
		r := alert.Decide([]types.DiskHealth{
			{Disk: diskA, Status: types.HealthUnknown},
			{Disk: diskB, Status: types.HealthError},
		}, nil)
		Expect(r.FailedDisks).To(HaveLen(2))
	})

	It("preserves enumeration order in the failed set", func() {
		r := alert.Decide([]types.DiskHealth{
			{Disk: diskB, Status: types.HealthFailed},
			{Disk: diskA, Status: types.HealthFailed},
		}, nil)
		Expect(r.FailedDisks[0].Disk).To(Equal(diskB))
		Expect(r.FailedDisks[1].Disk).To(Equal(diskA))
	})
})

var _ = Describe("Compose", func() {
	failed := []types.DiskHealth{{Disk: types.Disk{Path: "/dev/sdb"}, Status: types.HealthFailed}}
	anomalies := []types.Anomaly{
		{Line: "ata2: link is slow to respond", Keyword: "fail"},
		{Line: "sdb: I/O error", Keyword: "I/O error"},
	}

	It("puts failed disks before log anomalies", func() {
		_, body := alert.Compose(alert.Report{FailedDisks: failed, Anomalies: anomalies}, nil, "host")
		disksAt := strings.Index(body, "Failed or failing disks (SMART):")
		logsAt := strings.Index(body, "Disk-related errors from system logs:")
		Expect(disksAt).To(BeNumerically(">=", 0))
		Expect(logsAt).To(BeNumerically(">", disksAt))
		Expect(body).To(ContainSubstring(" - /dev/sdb: failed\n"))
		Expect(body).To(ContainSubstring(" - sdb: I/O error\n"))
	})

	It("omits empty categories entirely", func() {
		_, body := alert.Compose(alert.Report{Anomalies: anomalies}, nil, "host")
		Expect(body).ToNot(ContainSubstring("Failed or failing disks"))
		Expect(body).To(ContainSubstring("Disk-related errors from system logs:"))

		_, body = alert.Compose(alert.Report{FailedDisks: failed}, nil, "host")
		Expect(body).ToNot(ContainSubstring("Disk-related errors"))
	})

	It("decorates disks with hardware details when available", func() {
		details := map[string]string{"/dev/sdb": "WDC WD40EFRX, 4TB"}
		_, body := alert.Compose(alert.Report{FailedDisks: failed}, details, "host")
		Expect(body).To(ContainSubstring(" - /dev/sdb (WDC WD40EFRX, 4TB): failed\n"))
	})

	It("names the host in the subject", func() {
		subject, _ := alert.Compose(alert.Report{FailedDisks: failed}, nil, "nas01 (Rocky Linux)")
		Expect(subject).To(Equal("Disk health alert on nas01 (Rocky Linux)"))
	})
})

var _ = Describe("HostLabel", func() {
	It("always yields something usable", func() {
		Expect(alert.HostLabel()).ToNot(BeEmpty())
	})
})
