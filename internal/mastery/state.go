package mastery

// Band is a coarse label for where a mastery score sits.
type Band string

const (
	BandNew      Band = "new"      // score < 0.2, not yet learned
	BandLearning Band = "learning" // 0.2 <= score < 0.4
	BandDrilling Band = "drilling" // 0.4 <= score <= 0.7
	BandStrong   Band = "strong"   // 0.7 < score < 0.8
	BandMastered Band = "mastered" // score >= 0.8
)

// Score thresholds used by selection and reporting.
const (
	NewVocabMax = 0.2
	DrillingMin = 0.4
	DrillingMax = 0.7
	KnownMin    = 0.7
	MasteredMin = 0.8
)
