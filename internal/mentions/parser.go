// Package mentions provides sources and parsing for the external
// mention stream that drives automatic token launches.
package mentions

import (
	"regexp"
	"strings"

	"solana-launch-pilot/internal/domain"
)

// Launch command patterns: "<name> + <symbol>" or "<name> $<symbol>".
// The first matching separator wins.
var (
	plusPattern   = regexp.MustCompile(`^(.+?)\s*\+\s*([A-Za-z0-9]{1,10})\s*$`)
	dollarPattern = regexp.MustCompile(`^(.+?)\s*\$([A-Za-z0-9]{1,10})\s*$`)
)

// Parse extracts a launch command from mention text. ok is false when
// the text carries no recognizable command.
func Parse(text string) (cmd domain.ParsedCommand, ok bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.ParsedCommand{}, false
	}

	for _, pattern := range []*regexp.Regexp{plusPattern, dollarPattern} {
		if m := pattern.FindStringSubmatch(trimmed); m != nil {
			name := strings.TrimSpace(m[1])
			if name == "" {
				continue
			}
			return domain.ParsedCommand{
				Name:   name,
				Symbol: strings.ToUpper(m[2]),
			}, true
		}
	}

	return domain.ParsedCommand{}, false
}
