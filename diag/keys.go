package diag

import "strings"

// Source names the diagnostics record a feature is read from.
type Source int

const (
	Text Source = iota
	Audio
)

func (s Source) String() string {
	if s == Audio {
		return "audio"
	}
	return "text"
}

// Feature is a path into a diagnostics record.
type Feature []string

// --- Text analyser keys ---
var (
	VocabularyDiversity  = Feature{"vocabulary-diversity"}
	EmojiRate            = Feature{"emoji-rate"}
	CapitalizationRatio  = Feature{"capitalization-ratio"}
	PunctuationFrequency = Feature{"punctuation-frequency"}
	TyposRate            = Feature{"typos-rate"}
)

// --- Audio analyser keys ---
var (
	JitterLocalPct    = Feature{"idiosyncrasies", "jitter_local_pct"}
	ShimmerLocalPct   = Feature{"idiosyncrasies", "shimmer_local_pct"}
	IntensityMeanDB   = Feature{"intensity", "mean_db"}
	SyllabicRateProxy = Feature{"rhythm", "syllabic_rate_proxy"}
	PitchStdevF0Hz    = Feature{"pitch", "stdev_f0_hz"}
)

func (f Feature) String() string { return strings.Join(f, ".") }
