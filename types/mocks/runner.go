package mocks

import (
	"strings"

	"github.com/diskwatch-io/diskwatch/types"
)

// FakeRunner replays scripted results for external commands and records
// every call so tests can assert on invocation order.
type FakeRunner struct {
	// Results maps a full command line ("name arg1 arg2") to its result.
	Results map[string]types.RunResult
	// Default is returned for command lines with no scripted result.
	Default types.RunResult
	// Calls is every command line run, in order.
	Calls []string
}

var _ types.Runner = &FakeRunner{}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Results: map[string]types.RunResult{}}
}

func (r *FakeRunner) Run(name string, args ...string) types.RunResult {
	line := strings.Join(append([]string{name}, args...), " ")
	r.Calls = append(r.Calls, line)
	if res, ok := r.Results[line]; ok {
		return res
	}
	return r.Default
}

// CalledWith reports whether any recorded call starts with prefix.
func (r *FakeRunner) CalledWith(prefix string) bool {
	for _, c := range r.Calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}
