package domain

// Sentiment classifies the overall tone of a prompt.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Theme is a tag from the fixed prompt taxonomy.
type Theme string

const (
	ThemeAnimals  Theme = "animals"
	ThemeSpace    Theme = "space"
	ThemeFood     Theme = "food"
	ThemeTech     Theme = "tech"
	ThemeGaming   Theme = "gaming"
	ThemeFinance  Theme = "finance"
	ThemeMystical Theme = "mystical"
	ThemeSeasonal Theme = "seasonal"
)

// PromptAnalysis is the result of analyzing a free-text prompt.
// It is a pure function of the input text and is never mutated.
type PromptAnalysis struct {
	Sentiment      Sentiment `json:"sentiment"`
	Themes         []Theme   `json:"themes"`  // ordered by taxonomy priority
	Keywords       []string  `json:"keywords"` // matched keywords, in match order
	TargetAudience string    `json:"targetAudience"`
}

// PrimaryTheme returns the first detected theme, or empty when none matched.
func (a PromptAnalysis) PrimaryTheme() Theme {
	if len(a.Themes) == 0 {
		return ""
	}
	return a.Themes[0]
}
