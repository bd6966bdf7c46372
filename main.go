package main

import (
	"fmt"
	"os"

	vfs "github.com/twpayne/go-vfs/v4"
	"github.com/urfave/cli/v2"
	mount "k8s.io/mount-utils"

	"github.com/diskwatch-io/diskwatch/alert"
	"github.com/diskwatch-io/diskwatch/config"
	"github.com/diskwatch-io/diskwatch/inventory"
	"github.com/diskwatch-io/diskwatch/logscan"
	"github.com/diskwatch-io/diskwatch/mail"
	"github.com/diskwatch-io/diskwatch/monitor"
	"github.com/diskwatch-io/diskwatch/repair"
	"github.com/diskwatch-io/diskwatch/smart"
	"github.com/diskwatch-io/diskwatch/types"
)

var version = "v0.0.0-dev"

func main() {
	app := &cli.App{
		Name:    "diskwatch",
		Version: version,
		Usage:   "detect failing disks and walk their partitions through a guarded repair",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: config.DefaultPath,
				Usage: "path to the configuration file",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "do not log to the console",
			},
			&cli.BoolFlag{
				Name:  "no-repair",
				Usage: "detect and alert only, skip the interactive repair phase",
			},
			&cli.BoolFlag{
				Name:  "yes",
				Usage: "assume yes on every repair prompt (unattended runs)",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	// Missing configuration is the only fatal condition, checked before any
	// device scan happens.
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	level := "info"
	if c.Bool("debug") {
		level = "debug"
	}
	logger := types.NewLogger("diskwatch", level, c.Bool("quiet"))
	defer logger.Cleanup()

	runner := types.ExecRunner{}

	var source logscan.LineSource
	if cfg.LogFile != "" {
		source = logscan.FileSource{FS: vfs.OSFS, Path: cfg.LogFile}
	} else {
		source = logscan.JournalSourceOrDefault(runner, cfg.JournalCommand, logger)
	}

	var confirmer types.Confirmer = repair.TerminalConfirmer{}
	if c.Bool("yes") {
		confirmer = repair.AlwaysYes{}
	}

	m := &monitor.Monitor{
		Logger:     logger,
		Inventory:  inventory.New(runner, logger),
		Classifier: smart.New(runner, logger),
		Scanner:    logscan.NewScanner(source, logger),
		Notifier:   mail.New(cfg.Mail, logger),
		Workflow:   repair.NewWorkflow(runner, mount.New(""), confirmer, logger),
		Host:       alert.HostLabel(),
		SkipRepair: c.Bool("no-repair"),
	}

	// Faults are best-effort diagnostics; the run still exits 0 having
	// produced whatever partial report was possible.
	if _, faults := m.Run(); faults != nil {
		logger.Logger.Warn().Err(faults).Msg("Run completed with diagnostics")
	}
	return nil
}
