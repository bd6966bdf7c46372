package logscan

import (
	"strings"

	"github.com/diskwatch-io/diskwatch/types"
)

// Keywords is the failure-indicator vocabulary. Matching is substring, not
// word-boundary: "error" also flags "errorless". That false-positive bias is
// deliberate, the scanner would rather over-report than miss a real fault.
var Keywords = []string{"I/O error", "ata_error", "fail", "error", "unresponsive", "offline", "faulty"}

// Scanner flags log lines matching the failure vocabulary.
type Scanner struct {
	source LineSource
	logger types.Logger
}

func NewScanner(source LineSource, logger types.Logger) *Scanner {
	return &Scanner{source: source, logger: logger}
}

// Scan reads the source once and returns the anomalies in source order. A
// source failure degrades to an empty result plus a fault; it is never fatal.
func (s *Scanner) Scan() ([]types.Anomaly, *types.Fault) {
	lines, fault := s.source.Lines()
	if fault != nil {
		s.logger.Logger.Warn().Err(fault).Msg("Log source unavailable")
		return nil, fault
	}

	var anomalies []types.Anomaly
	for _, line := range lines {
		if kw, ok := Match(line); ok {
			anomalies = append(anomalies, types.Anomaly{Line: strings.TrimSpace(line), Keyword: kw})
		}
	}
	s.logger.Logger.Debug().Int("lines", len(lines)).Int("anomalies", len(anomalies)).Msg("Log scan complete")
	return anomalies, nil
}

// Match reports whether line contains any keyword, case-insensitively, and
// returns the first keyword that matched.
func Match(line string) (string, bool) {
	lower := strings.ToLower(line)
	for _, kw := range Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return kw, true
		}
	}
	return "", false
}
