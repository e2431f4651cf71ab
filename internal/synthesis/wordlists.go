package synthesis

import "solana-launch-pilot/internal/domain"

// Per-theme word material for name generation. FallbackTheme is used
// when analysis detected nothing.
const FallbackTheme = domain.ThemeAnimals

var themePrefixes = map[domain.Theme][]string{
	domain.ThemeAnimals:  {"Doge", "Shiba", "Pepe", "Cat", "Ape", "Hamster"},
	domain.ThemeSpace:    {"Moon", "Astro", "Cosmo", "Star", "Galactic", "Orbit"},
	domain.ThemeFood:     {"Pizza", "Taco", "Banana", "Sushi", "Donut", "Spicy"},
	domain.ThemeTech:     {"Cyber", "Quantum", "Neural", "Robo", "Giga", "Turbo"},
	domain.ThemeGaming:   {"Pixel", "Arcade", "Loot", "Quest", "Boss", "Combo"},
	domain.ThemeFinance:  {"Vault", "Yield", "Stable", "Treasury", "Prime", "Anchor"},
	domain.ThemeMystical: {"Wizard", "Dragon", "Mystic", "Oracle", "Rune", "Arcane"},
	domain.ThemeSeasonal: {"Santa", "Spooky", "Summer", "Frost", "Festive", "Golden"},
}

var themeSuffixes = map[domain.Theme][]string{
	domain.ThemeAnimals:  {"Coin", "Inu", "Token", "Club", "Army", "Gang"},
	domain.ThemeSpace:    {"Rocket", "Lander", "Mission", "Launch", "Voyager", "Coin"},
	domain.ThemeFood:     {"Bite", "Feast", "Coin", "Snack", "Chef", "Token"},
	domain.ThemeTech:     {"Protocol", "Net", "Core", "Bot", "Chain", "Coin"},
	domain.ThemeGaming:   {"Play", "Rush", "Points", "Coin", "Mode", "Level"},
	domain.ThemeFinance:  {"Fund", "Reserve", "Coin", "Note", "Bond", "Capital"},
	domain.ThemeMystical: {"Spell", "Realm", "Portal", "Coin", "Relic", "Order"},
	domain.ThemeSeasonal: {"Season", "Party", "Gift", "Coin", "Special", "Drop"},
}

// themedNames are complete names used by the lookup strategy.
var themedNames = map[domain.Theme][]string{
	domain.ThemeAnimals:  {"Good Boy Points", "Much Wow", "Alpha Ape Squad", "Hamster Wheel"},
	domain.ThemeSpace:    {"Moon Rocket", "Mars Millionaire", "Cosmic Drift", "Lunar Lander"},
	domain.ThemeFood:     {"Midnight Snack", "Extra Cheese", "Taco Tuesday", "Banana Bread"},
	domain.ThemeTech:     {"Skynet Savings", "Quantum Leap", "Neural Gains", "Robot Uprising"},
	domain.ThemeGaming:   {"Final Boss", "Speedrun Season", "Loot Drop", "Extra Life"},
	domain.ThemeFinance:  {"Safe Harbor", "Compound Daily", "Steady Hands", "Rainy Day Fund"},
	domain.ThemeMystical: {"Dragon Hoard", "Wizard Wealth", "Crystal Ball", "Midnight Oracle"},
	domain.ThemeSeasonal: {"Snow Day", "Pumpkin Spice", "Beach Money", "Holiday Bonus"},
}

var descriptionTemplates = []string{
	"%s is the next big thing on the bonding curve, made for %s.",
	"Born from pure meme energy, %s speaks directly to %s.",
	"%s turns a simple idea into a movement for %s.",
	"No roadmap, no promises, just vibes: %s is here for %s.",
}

var hookTemplates = []string{
	"The curve only knows one direction.",
	"Get in before the normies find it.",
	"Community first, everything else second.",
	"One chart. One dream.",
	"Built different, priced early.",
	"Your future self says thanks.",
}

// Virality weighting. Animals carries the meme-coin market; space is the
// strongest secondary narrative.
const (
	primaryViralityTheme   = domain.ThemeAnimals
	secondaryViralityTheme = domain.ThemeSpace
)

// stabilityThemes mark concepts whose risk profile reads as low.
var stabilityThemes = map[domain.Theme]bool{
	domain.ThemeFinance: true,
}

// viralKeywords add +1 each to the viral-potential score. Every entry
// must be a keyword the analyzer can emit, or it never fires.
var viralKeywords = map[string]bool{
	"doge":  true,
	"pepe":  true,
	"moon":  true,
	"shiba": true,
	"ape":   true,
}
