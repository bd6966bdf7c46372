package logscan

import (
	"fmt"
	"strings"

	"github.com/google/shlex"
	vfs "github.com/twpayne/go-vfs/v4"

	"github.com/diskwatch-io/diskwatch/types"
)

// DefaultJournalCommand queries the kernel ring of the journal for the last
// hour, matching the window the scanner is interested in.
const DefaultJournalCommand = `journalctl -k --since "1 hour ago"`

// LineSource produces the sequence of recent log lines to scan. The scanner
// is indifferent to where the lines come from; file tail and journal query
// are interchangeable behind this contract.
type LineSource interface {
	Lines() ([]string, *types.Fault)
}

// FileSource reads a whole log file.
type FileSource struct {
	FS   vfs.FS
	Path string
}

var _ LineSource = FileSource{}

func (s FileSource) Lines() ([]string, *types.Fault) {
	data, err := s.FS.ReadFile(s.Path)
	if err != nil {
		return nil, types.NewFault(types.FaultLogSource, "read "+s.Path, err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n"), nil
}

// JournalSource queries the system journal through the Runner.
type JournalSource struct {
	Runner types.Runner
	Argv   []string
}

var _ LineSource = JournalSource{}

// NewJournalSource builds a journal source from a command line string. An
// empty command falls back to DefaultJournalCommand.
func NewJournalSource(runner types.Runner, command string) (JournalSource, error) {
	if command == "" {
		command = DefaultJournalCommand
	}
	argv, err := shlex.Split(command)
	if err != nil {
		return JournalSource{}, fmt.Errorf("cannot parse journal command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return JournalSource{}, fmt.Errorf("empty journal command")
	}
	return JournalSource{Runner: runner, Argv: argv}, nil
}

// JournalSourceOrDefault builds a journal source from command, falling back
// to DefaultJournalCommand with a logged warning when command cannot be
// parsed. A bad override is log-source trouble, and log-source trouble is
// never fatal.
func JournalSourceOrDefault(runner types.Runner, command string, logger types.Logger) JournalSource {
	src, err := NewJournalSource(runner, command)
	if err != nil {
		logger.Logger.Warn().Err(err).Str("command", command).Msg("Invalid journal command, using default")
		src, _ = NewJournalSource(runner, "")
	}
	return src
}

func (s JournalSource) Lines() ([]string, *types.Fault) {
	res := s.Runner.Run(s.Argv[0], s.Argv[1:]...)
	if res.LaunchErr != nil {
		return nil, types.NewFault(types.FaultLogSource, "query journal", res.LaunchErr)
	}
	if res.ExitCode != 0 {
		err := fmt.Errorf("%s exited %d: %s", s.Argv[0], res.ExitCode, strings.TrimSpace(res.Stderr))
		return nil, types.NewFault(types.FaultLogSource, "query journal", err)
	}
	return strings.Split(strings.TrimRight(res.Stdout, "\n"), "\n"), nil
}
