package mastery

// BandOf maps a mastery score to its band. The drilling band is closed on
// both ends to match SelectVocabForDrilling.
func BandOf(score float64) Band {
	switch {
	case score < NewVocabMax:
		return BandNew
	case score < DrillingMin:
		return BandLearning
	case score <= DrillingMax:
		return BandDrilling
	case score < MasteredMin:
		return BandStrong
	default:
		return BandMastered
	}
}

// Symbol returns a one-rune marker for the band, used in CLI tables.
func (b Band) Symbol() string {
	switch b {
	case BandNew:
		return "·"
	case BandLearning:
		return "○"
	case BandDrilling:
		return "◐"
	case BandStrong:
		return "◕"
	case BandMastered:
		return "●"
	default:
		return "?"
	}
}
