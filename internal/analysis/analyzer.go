// Package analysis extracts themes, sentiment, and keywords from
// free-text token prompts. Analysis is pure and deterministic: the same
// input always yields the same PromptAnalysis.
package analysis

import (
	"strings"

	"solana-launch-pilot/internal/domain"
)

// themeOrder fixes the taxonomy iteration order. It doubles as the
// audience priority order: the first detected theme picks the audience.
var themeOrder = []domain.Theme{
	domain.ThemeAnimals,
	domain.ThemeSpace,
	domain.ThemeFood,
	domain.ThemeTech,
	domain.ThemeGaming,
	domain.ThemeFinance,
	domain.ThemeMystical,
	domain.ThemeSeasonal,
}

// themeKeywords maps each theme to its trigger keywords. A theme is
// detected when any keyword appears as a substring of the lowered text.
var themeKeywords = map[domain.Theme][]string{
	domain.ThemeAnimals:  {"dog", "doge", "cat", "shiba", "inu", "frog", "pepe", "sheep", "hamster", "monkey", "ape", "bird"},
	domain.ThemeSpace:    {"moon", "mars", "rocket", "star", "galaxy", "cosmic", "orbit", "astronaut", "alien"},
	domain.ThemeFood:     {"pizza", "burger", "taco", "sushi", "banana", "cheese", "donut", "coffee", "snack"},
	domain.ThemeTech:     {"ai", "robot", "cyber", "quantum", "neural", "crypto", "chain", "code", "algorithm"},
	domain.ThemeGaming:   {"game", "gamer", "pixel", "arcade", "quest", "loot", "boss", "speedrun"},
	domain.ThemeFinance:  {"bank", "yield", "stable", "vault", "treasury", "dividend", "bond", "hedge"},
	domain.ThemeMystical: {"wizard", "magic", "dragon", "mystic", "oracle", "rune", "spell", "crystal"},
	domain.ThemeSeasonal: {"christmas", "halloween", "summer", "winter", "easter", "valentine", "holiday"},
}

var positiveWords = []string{
	"moon", "pump", "bull", "win", "great", "epic", "legendary", "amazing",
	"love", "best", "huge", "rich", "gem", "based", "wagmi",
}

var negativeWords = []string{
	"dump", "crash", "bear", "rug", "scam", "dead", "fail", "rekt",
	"fear", "loss", "bad", "worst",
}

// audiences maps a primary theme to its target-audience description.
var audiences = map[domain.Theme]string{
	domain.ThemeAnimals:  "meme coin collectors and animal meme communities",
	domain.ThemeSpace:    "moonshot hunters and space meme enthusiasts",
	domain.ThemeFood:     "casual traders who love food memes",
	domain.ThemeTech:     "tech-savvy degens and AI narrative traders",
	domain.ThemeGaming:   "gamers and play-to-earn communities",
	domain.ThemeFinance:  "yield farmers and DeFi power users",
	domain.ThemeMystical: "fantasy fans and lore-driven communities",
	domain.ThemeSeasonal: "event traders chasing seasonal narratives",
}

const defaultAudience = "general crypto traders and meme enthusiasts"

// Analyze derives a PromptAnalysis from raw prompt text. It never fails:
// empty or garbage input yields neutral sentiment, no themes, no
// keywords, and the default audience.
func Analyze(text string) domain.PromptAnalysis {
	lowered := strings.ToLower(text)

	var themes []domain.Theme
	var keywords []string
	for _, theme := range themeOrder {
		matched := false
		for _, kw := range themeKeywords[theme] {
			if strings.Contains(lowered, kw) {
				keywords = append(keywords, kw)
				matched = true
			}
		}
		if matched {
			themes = append(themes, theme)
		}
	}

	return domain.PromptAnalysis{
		Sentiment:      scoreSentiment(lowered),
		Themes:         themes,
		Keywords:       keywords,
		TargetAudience: pickAudience(themes),
	}
}

// scoreSentiment compares positive and negative word-list match counts.
// Ties and all-zero counts are neutral.
func scoreSentiment(lowered string) domain.Sentiment {
	var pos, neg int
	for _, w := range positiveWords {
		if strings.Contains(lowered, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lowered, w) {
			neg++
		}
	}

	switch {
	case pos > neg:
		return domain.SentimentPositive
	case neg > pos:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func pickAudience(themes []domain.Theme) string {
	for _, theme := range themeOrder {
		for _, detected := range themes {
			if detected == theme {
				return audiences[theme]
			}
		}
	}
	return defaultAudience
}
