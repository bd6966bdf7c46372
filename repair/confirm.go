package repair

import (
	"strings"

	"github.com/pterm/pterm"

	"github.com/diskwatch-io/diskwatch/types"
)

// TerminalConfirmer asks yes/no questions interactively. Unrecognized answers
// re-ask; only yes/y and no/n (any case) are accepted.
type TerminalConfirmer struct{}

var _ types.Confirmer = TerminalConfirmer{}

func (TerminalConfirmer) Confirm(prompt string) bool {
	for {
		answer, _ := pterm.DefaultInteractiveTextInput.Show(prompt + " (yes/no)")
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "yes", "y":
			return true
		case "no", "n":
			return false
		}
		pterm.Warning.Println("Please answer 'yes' or 'no'.")
	}
}

// AlwaysYes confirms everything, for unattended runs (--yes).
type AlwaysYes struct{}

var _ types.Confirmer = AlwaysYes{}

func (AlwaysYes) Confirm(string) bool { return true }

// Scripted replays a fixed list of answers, re-asking past unrecognized ones
// the same way the terminal does. Exhausting the script answers no.
type Scripted struct {
	Answers []string
	Asked   []string
}

var _ types.Confirmer = &Scripted{}

func (s *Scripted) Confirm(prompt string) bool {
	s.Asked = append(s.Asked, prompt)
	for len(s.Answers) > 0 {
		answer := s.Answers[0]
		s.Answers = s.Answers[1:]
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "yes", "y":
			return true
		case "no", "n":
			return false
		}
	}
	return false
}
