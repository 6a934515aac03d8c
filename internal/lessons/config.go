package lessons

// Config holds lesson generation settings.
type Config struct {
	MaxTokens     int
	Temperature   float64
	NewVocabCount int // not-yet-learned words offered to the oracle
}

// DefaultConfig returns sensible defaults for lesson generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     2048,
		Temperature:   0.7,
		NewVocabCount: 5,
	}
}
