package inventory

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/unitutil"

	"github.com/diskwatch-io/diskwatch/types"
)

// Inventory enumerates block devices through lsblk. Results hold device paths
// only; nothing about a device is cached between calls.
type Inventory struct {
	runner types.Runner
	logger types.Logger
	// Chroot redirects the hardware probe in Describe to an alternate
	// root, the same way GHW_CHROOT does. Tests point it at a fake tree.
	Chroot string
}

func New(runner types.Runner, logger types.Logger) *Inventory {
	return &Inventory{runner: runner, logger: logger}
}

// ListDisks returns every device the registry classifies as a whole disk, in
// registry order. Listing failures degrade to an empty slice plus a fault;
// callers treat that as "no disks found", never as fatal.
func (i *Inventory) ListDisks() ([]types.Disk, *types.Fault) {
	res := i.runner.Run("lsblk", "-dn", "-o", "NAME,TYPE")
	if res.LaunchErr != nil {
		i.logger.Logger.Error().Err(res.LaunchErr).Msg("Failed to run lsblk")
		return nil, types.NewFault(types.FaultEnumeration, "list disks", res.LaunchErr)
	}
	if res.ExitCode != 0 {
		err := fmt.Errorf("lsblk exited %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
		i.logger.Logger.Error().Err(err).Msg("Disk listing failed")
		return nil, types.NewFault(types.FaultEnumeration, "list disks", err)
	}

	var disks []types.Disk
	for _, row := range rows(res.Stdout) {
		name, kind, ok := splitRow(row)
		if !ok {
			i.logger.Logger.Debug().Str("row", row).Msg("Skipping malformed lsblk row")
			continue
		}
		if kind != "disk" {
			continue
		}
		disks = append(disks, types.Disk{Path: filepath.Join("/dev", name)})
	}
	i.logger.Logger.Debug().Int("count", len(disks)).Msg("Enumerated disks")
	return disks, nil
}

// ListPartitions returns the partitions of disk in registry order. Malformed
// rows are skipped individually rather than aborting the enumeration.
func (i *Inventory) ListPartitions(disk types.Disk) ([]types.Partition, *types.Fault) {
	res := i.runner.Run("lsblk", "-ln", "-o", "NAME,TYPE", disk.Path)
	if res.LaunchErr != nil {
		i.logger.Logger.Error().Err(res.LaunchErr).Str("disk", disk.Path).Msg("Failed to run lsblk")
		return nil, types.NewFault(types.FaultEnumeration, "list partitions of "+disk.Path, res.LaunchErr)
	}
	if res.ExitCode != 0 {
		err := fmt.Errorf("lsblk exited %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
		i.logger.Logger.Error().Err(err).Str("disk", disk.Path).Msg("Partition listing failed")
		return nil, types.NewFault(types.FaultEnumeration, "list partitions of "+disk.Path, err)
	}

	var parts []types.Partition
	for _, row := range rows(res.Stdout) {
		name, kind, ok := splitRow(row)
		if !ok {
			i.logger.Logger.Debug().Str("row", row).Str("disk", disk.Path).Msg("Skipping malformed lsblk row")
			continue
		}
		if kind != "part" {
			continue
		}
		parts = append(parts, types.Partition{Path: filepath.Join("/dev", name), Disk: disk.Path})
	}
	return parts, nil
}

// Describe returns a short human label for disk ("MODEL, SIZE") from the
// hardware registry, or "" when probing fails. Used only to decorate alert
// bodies, so any failure here is silent by design of the alert format.
func (i *Inventory) Describe(disk types.Disk) string {
	var opts []*ghw.WithOption
	if i.Chroot != "" {
		opts = append(opts, ghw.WithChroot(i.Chroot))
	}
	block, err := ghw.Block(opts...)
	if err != nil {
		i.logger.Logger.Debug().Err(err).Msg("Hardware probe unavailable")
		return ""
	}
	name := strings.TrimPrefix(disk.Path, "/dev/")
	for _, d := range block.Disks {
		if d.Name != name {
			continue
		}
		unit, unitStr := unitutil.AmountString(int64(d.SizeBytes))
		size := fmt.Sprintf("%d%s", uint64(d.SizeBytes)/uint64(unit), unitStr)
		model := strings.TrimSpace(d.Model)
		if model == "" || model == "unknown" {
			return size
		}
		return fmt.Sprintf("%s, %s", model, size)
	}
	return ""
}

func rows(out string) []string {
	var r []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			r = append(r, line)
		}
	}
	return r
}

// splitRow parses one "NAME TYPE" lsblk row. Rows with fewer than two fields
// are malformed; extra fields are tolerated.
func splitRow(row string) (name, kind string, ok bool) {
	fields := strings.Fields(row)
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}
