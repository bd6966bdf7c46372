package inventory_test

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/diskwatch-io/diskwatch/inventory"
	"github.com/diskwatch-io/diskwatch/types"
	"github.com/diskwatch-io/diskwatch/types/mocks"
)

func TestInventory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Inventory test suite")
}

var _ = Describe("Inventory", func() {
	var runner *mocks.FakeRunner
	var inv *inventory.Inventory

	BeforeEach(func() {
		runner = mocks.NewFakeRunner()
		inv = inventory.New(runner, types.NewNullLogger())
	})

	Describe("ListDisks", func() {
		It("returns whole disks only, in registry order", func() {
			runner.Results["lsblk -dn -o NAME,TYPE"] = types.RunResult{
				Stdout: "sda  disk\nsdb  disk\nsr0  rom\nloop0 loop\n",
			}
			disks, fault := inv.ListDisks()
			Expect(fault).To(BeNil())
			Expect(disks).To(Equal([]types.Disk{
				{Path: "/dev/sda"},
				{Path: "/dev/sdb"},
			}))
		})

		It("skips malformed rows without aborting the enumeration", func() {
			runner.Results["lsblk -dn -o NAME,TYPE"] = types.RunResult{
				Stdout: "sda disk\nbrokenrow\nsdb disk\n",
			}
			disks, fault := inv.ListDisks()
			Expect(fault).To(BeNil())
			Expect(disks).To(HaveLen(2))
			Expect(disks[1].Path).To(Equal("/dev/sdb"))
		})

		It("degrades to no disks when the tool cannot launch", func() {
			runner.Default = types.RunResult{LaunchErr: errors.New("no such file")}
			disks, fault := inv.ListDisks()
			Expect(disks).To(BeEmpty())
			Expect(fault).ToNot(BeNil())
			Expect(fault.Kind).To(Equal(types.FaultEnumeration))
		})

		It("degrades to no disks on a nonzero exit", func() {
			runner.Default = types.RunResult{ExitCode: 32, Stderr: "lsblk: cannot open /sys\n"}
			disks, fault := inv.ListDisks()
			Expect(disks).To(BeEmpty())
			Expect(fault).ToNot(BeNil())
			Expect(fault.Error()).To(ContainSubstring("exited 32"))
		})
	})

	Describe("ListPartitions", func() {
		It("returns partition rows belonging to the disk", func() {
			runner.Results["lsblk -ln -o NAME,TYPE /dev/sda"] = types.RunResult{
				Stdout: "sda  disk\nsda1 part\nsda2 part\n",
			}
			parts, fault := inv.ListPartitions(types.Disk{Path: "/dev/sda"})
			Expect(fault).To(BeNil())
			Expect(parts).To(Equal([]types.Partition{
				{Path: "/dev/sda1", Disk: "/dev/sda"},
				{Path: "/dev/sda2", Disk: "/dev/sda"},
			}))
		})

		It("skips rows with fewer than two fields", func() {
			runner.Results["lsblk -ln -o NAME,TYPE /dev/sda"] = types.RunResult{
				Stdout: "sda disk\nsda1\nsda2 part\n",
			}
			parts, fault := inv.ListPartitions(types.Disk{Path: "/dev/sda"})
			Expect(fault).To(BeNil())
			Expect(parts).To(HaveLen(1))
			Expect(parts[0].Path).To(Equal("/dev/sda2"))
		})

		It("surfaces a fault when listing fails", func() {
			runner.Default = types.RunResult{LaunchErr: errors.New("boom")}
			parts, fault := inv.ListPartitions(types.Disk{Path: "/dev/sda"})
			Expect(parts).To(BeEmpty())
			Expect(fault.Kind).To(Equal(types.FaultEnumeration))
		})
	})

	Describe("Describe", func() {
		It("returns nothing when the hardware probe finds no matching disk", func() {
			inv.Chroot = GinkgoT().TempDir()
			Expect(inv.Describe(types.Disk{Path: "/dev/sda"})).To(BeEmpty())
		})
	})
})
