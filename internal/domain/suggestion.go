package domain

// RiskLevel classifies how speculative a suggested token is.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Suggestion limits.
const (
	MaxSymbolLen    = 8
	MaxTags         = 6
	MaxHooks        = 3
	MinViralScore   = 1
	MaxViralScore   = 10
)

// TokenSuggestion is one generated token concept for a prompt.
// One prompt yields N independent variants.
type TokenSuggestion struct {
	Name           string    `json:"name"`
	Symbol         string    `json:"symbol"` // 1-8 uppercase characters
	Description    string    `json:"description"`
	Category       Theme     `json:"category"`
	Tags           []string  `json:"tags"`           // deduplicated, at most MaxTags
	MarketingHooks []string  `json:"marketingHooks"` // at most MaxHooks
	RiskLevel      RiskLevel `json:"riskLevel"`
	ViralPotential int       `json:"viralPotential"` // 1-10
}
