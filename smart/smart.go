package smart

import (
	"regexp"
	"strings"

	"github.com/diskwatch-io/diskwatch/types"
)

// verdictRe extracts the overall verdict token from smartctl -H output.
var verdictRe = regexp.MustCompile(`SMART overall-health self-assessment test result: (\w+)`)

// Classifier maps a disk's vendor self-assessment to a HealthStatus. It never
// returns an error past its boundary: every invocation path, including a tool
// that cannot be launched, yields exactly one of the four statuses.
type Classifier struct {
	runner types.Runner
	logger types.Logger
}

func New(runner types.Runner, logger types.Logger) *Classifier {
	return &Classifier{runner: runner, logger: logger}
}

// Classify runs the vendor health query against disk. A nonzero exit with a
// parseable verdict is data, not an error: smartctl encodes findings in its
// exit bits even when the query itself succeeded.
func (c *Classifier) Classify(disk types.Disk) types.HealthStatus {
	res := c.runner.Run("smartctl", "-H", disk.Path)
	if res.LaunchErr != nil {
		c.logger.Logger.Error().Err(res.LaunchErr).Str("disk", disk.Path).Msg("Cannot run smartctl")
		return types.HealthError
	}

	m := verdictRe.FindStringSubmatch(res.Stdout)
	if m == nil {
		c.logger.Logger.Warn().Str("disk", disk.Path).Int("exit", res.ExitCode).Msg("No health verdict in smartctl output")
		return types.HealthUnknown
	}

	token := m[1]
	c.logger.Logger.Debug().Str("disk", disk.Path).Str("verdict", token).Msg("SMART verdict")
	if strings.EqualFold(token, "PASSED") {
		return types.HealthPassed
	}
	return types.HealthFailed
}
