// Package synthesis turns a PromptAnalysis into concrete token
// suggestions: name, symbol, description, marketing copy, and a
// risk/virality rubric.
package synthesis

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"solana-launch-pilot/internal/domain"
)

// Rand is the random source used for uniform picks. Injectable so tests
// can assert exact output for seeded runs.
type Rand interface {
	Intn(n int) int
}

// Synthesizer generates token suggestion variants.
type Synthesizer struct {
	rng Rand
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithRand sets a custom random source.
func WithRand(rng Rand) Option {
	return func(s *Synthesizer) {
		s.rng = rng
	}
}

// New creates a Synthesizer with a time-seeded random source.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generation strategies, cycled by variant index.
const (
	strategyKeywordDirect = iota
	strategyPrefixSuffix
	strategyThemedName
	strategyCount
)

// Synthesize produces count independent suggestion variants for a
// prompt. Output is structurally valid regardless of input: non-empty
// name and description, 1-8 character uppercase symbol.
func (s *Synthesizer) Synthesize(prompt string, analysis domain.PromptAnalysis, count int) []domain.TokenSuggestion {
	theme := analysis.PrimaryTheme()
	if theme == "" {
		theme = FallbackTheme
	}

	suggestions := make([]domain.TokenSuggestion, 0, count)
	for i := 0; i < count; i++ {
		name := s.generateName(i%strategyCount, theme, analysis)
		suggestions = append(suggestions, domain.TokenSuggestion{
			Name:           name,
			Symbol:         DeriveSymbol(name),
			Description:    s.describe(name, analysis),
			Category:       theme,
			Tags:           buildTags(theme, analysis),
			MarketingHooks: s.pickHooks(),
			RiskLevel:      riskLevel(analysis),
			ViralPotential: ViralPotential(analysis),
		})
	}
	return suggestions
}

// generateName picks a name by strategy index.
func (s *Synthesizer) generateName(strategy int, theme domain.Theme, analysis domain.PromptAnalysis) string {
	switch strategy {
	case strategyKeywordDirect:
		if len(analysis.Keywords) > 0 {
			kw := analysis.Keywords[s.rng.Intn(len(analysis.Keywords))]
			suffix := themeSuffixes[theme][s.rng.Intn(len(themeSuffixes[theme]))]
			return titleCase(kw) + " " + suffix
		}
		fallthrough
	case strategyPrefixSuffix:
		prefix := themePrefixes[theme][s.rng.Intn(len(themePrefixes[theme]))]
		suffix := themeSuffixes[theme][s.rng.Intn(len(themeSuffixes[theme]))]
		return prefix + " " + suffix
	default:
		names := themedNames[theme]
		return names[s.rng.Intn(len(names))]
	}
}

func (s *Synthesizer) describe(name string, analysis domain.PromptAnalysis) string {
	tpl := descriptionTemplates[s.rng.Intn(len(descriptionTemplates))]
	return fmt.Sprintf(tpl, name, analysis.TargetAudience)
}

func (s *Synthesizer) pickHooks() []string {
	hooks := make([]string, 0, domain.MaxHooks)
	used := make(map[int]bool)
	for len(hooks) < domain.MaxHooks {
		i := s.rng.Intn(len(hookTemplates))
		if used[i] {
			continue
		}
		used[i] = true
		hooks = append(hooks, hookTemplates[i])
	}
	return hooks
}

// DeriveSymbol derives a ticker symbol from a token name.
// Single word: first 6 characters. Two words: first 3 of each.
// Three or more words: initials of the first three. Always uppercase,
// truncated to MaxSymbolLen.
func DeriveSymbol(name string) string {
	words := strings.Fields(name)

	var symbol string
	switch {
	case len(words) == 0:
		symbol = "TOKEN"
	case len(words) == 1:
		symbol = truncate(words[0], 6)
	case len(words) == 2:
		symbol = truncate(words[0], 3) + truncate(words[1], 3)
	default:
		symbol = firstRune(words[0]) + firstRune(words[1]) + firstRune(words[2])
	}

	return truncate(strings.ToUpper(symbol), domain.MaxSymbolLen)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// buildTags collects deduplicated tags from the category and matched
// keywords, capped at MaxTags.
func buildTags(theme domain.Theme, analysis domain.PromptAnalysis) []string {
	tags := []string{string(theme), "meme"}
	seen := map[string]bool{string(theme): true, "meme": true}

	for _, kw := range analysis.Keywords {
		if len(tags) >= domain.MaxTags {
			break
		}
		if seen[kw] {
			continue
		}
		seen[kw] = true
		tags = append(tags, kw)
	}
	return tags
}

// High-virality threshold above which risk reads as high.
const highRiskThreshold = 7

// ViralPotential scores a prompt 1-10 using a weighted rubric over
// detected themes, sentiment, and viral keywords.
func ViralPotential(analysis domain.PromptAnalysis) int {
	score := 5
	for _, theme := range analysis.Themes {
		switch theme {
		case primaryViralityTheme:
			score += 3
		case secondaryViralityTheme:
			score += 2
		}
	}
	if analysis.Sentiment == domain.SentimentPositive {
		score += 2
	}
	for _, kw := range analysis.Keywords {
		if viralKeywords[kw] {
			score++
		}
	}

	if score < domain.MinViralScore {
		score = domain.MinViralScore
	}
	if score > domain.MaxViralScore {
		score = domain.MaxViralScore
	}
	return score
}

func riskLevel(analysis domain.PromptAnalysis) domain.RiskLevel {
	for _, theme := range analysis.Themes {
		if theme == primaryViralityTheme {
			return domain.RiskHigh
		}
	}
	if ViralPotential(analysis) > highRiskThreshold {
		return domain.RiskHigh
	}
	for _, theme := range analysis.Themes {
		if stabilityThemes[theme] {
			return domain.RiskLow
		}
	}
	return domain.RiskMedium
}
