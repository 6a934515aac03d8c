package exercises

// Config holds exercise generation settings.
type Config struct {
	MaxTokens     int
	Temperature   float64
	DrillingCount int // vocabulary words woven into the exercise
	Validators    []Validator
}

// DefaultConfig returns sensible defaults for exercise generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     1024,
		Temperature:   0.7,
		DrillingCount: 5,
		Validators: []Validator{
			&StructuralValidator{},
			&HangulValidator{},
		},
	}
}
