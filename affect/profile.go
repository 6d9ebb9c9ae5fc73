package affect

import (
	"fmt"

	"github.com/maastricht-university/gprf/config"
	"github.com/maastricht-university/gprf/diag"
)

// Dimension indexes a JAST-V vector.
type Dimension int

const (
	Joy Dimension = iota
	Anger
	Surprise
	Trust
)

func (d Dimension) String() string { return config.Canonical[d] }

// --- Fallback policy ---

type fallbackKind int

const (
	literal fallbackKind = iota
	coefficient
	required
)

// Fallback decides the value substituted for a missing feature.
type Fallback struct {
	kind  fallbackKind
	value float64
	dim   Dimension
}

// Literal substitutes a fixed value.
func Literal(v float64) Fallback { return Fallback{kind: literal, value: v} }

// Coefficient substitutes the profile's own coefficient for dim.
func Coefficient(dim Dimension) Fallback { return Fallback{kind: coefficient, dim: dim} }

// Required makes a missing feature an error.
func Required() Fallback { return Fallback{kind: required} }

func (f Fallback) resolve(c Coefficients) (float64, bool) {
	switch f.kind {
	case literal:
		return f.value, true
	case coefficient:
		return c[f.dim], true
	}
	return 0, false
}

func (f Fallback) String() string {
	switch f.kind {
	case literal:
		return fmt.Sprintf("%g", f.value)
	case coefficient:
		return "coefficient(" + f.dim.String() + ")"
	}
	return "required"
}

// --- Terms ---

// Reducer turns the feature at a path into a number.
type Reducer int

const (
	Value Reducer = iota // numeric leaf
	Sum                  // sum of a mapping's values
)

// Term contributes Weight * v/Divisor, or Weight * (1 - v/Divisor) when Invert
// is set, where v is the feature value or its fallback.
type Term struct {
	Source   diag.Source
	Feature  diag.Feature
	Reduce   Reducer
	Fallback Fallback
	Divisor  float64
	Weight   float64
	Invert   bool
}

func (t Term) eval(text, audio diag.Record, c Coefficients) (float64, error) {
	rec := text
	if t.Source == diag.Audio {
		rec = audio
	}
	var (
		v  float64
		ok bool
	)
	if t.Reduce == Sum {
		v, ok = rec.Sum(t.Feature...)
	} else {
		v, ok = rec.Float(t.Feature...)
	}
	if !ok {
		v, ok = t.Fallback.resolve(c)
		if !ok {
			return 0, fmt.Errorf("%w: %s %s", ErrMissingFeature, t.Source, t.Feature)
		}
	}
	x := v / t.Divisor
	if t.Invert {
		x = 1 - x
	}
	return t.Weight * x, nil
}

// Coefficients are the per-dimension weights in Joy/Anger/Surprise/Trust order.
type Coefficients [4]float64

// FromThresholds orders configured thresholds for the mapper.
func FromThresholds(th config.Thresholds) Coefficients {
	return Coefficients{th.Joy, th.Anger, th.Surprise, th.Trust}
}

// Profile is a complete feature-to-affect formula set.
type Profile struct {
	Name         string
	Coefficients Coefficients
	Terms        [4][]Term
	Clip         Clip
}

// FallbackEntry is one row of a profile's default policy table.
type FallbackEntry struct {
	Dimension Dimension
	Source    diag.Source
	Feature   string
	Fallback  Fallback
}

// Fallbacks lists, in formula order, what each term substitutes when its
// feature is missing.
func (p Profile) Fallbacks() []FallbackEntry {
	var out []FallbackEntry
	for d, terms := range p.Terms {
		for _, t := range terms {
			out = append(out, FallbackEntry{
				Dimension: Dimension(d),
				Source:    t.Source,
				Feature:   t.Feature.String(),
				Fallback:  t.Fallback,
			})
		}
	}
	return out
}

// Unsatisfied returns the features of src that the profile requires but
// that are absent from have.
func (p Profile) Unsatisfied(src diag.Source, have []diag.Feature) []diag.Feature {
	got := map[string]bool{}
	for _, f := range have {
		got[f.String()] = true
	}
	var out []diag.Feature
	for _, terms := range p.Terms {
		for _, t := range terms {
			if t.Source == src && t.Fallback.kind == required && !got[t.Feature.String()] {
				out = append(out, t.Feature)
			}
		}
	}
	return out
}

// CoreProfile is the configuration-driven mapping. typos-rate falls back to
// the trust coefficient rather than a constant.
func CoreProfile(th config.Thresholds) Profile {
	return Profile{
		Name:         "core",
		Coefficients: FromThresholds(th),
		Clip:         UpperClip,
		Terms: [4][]Term{
			Joy: {
				{Source: diag.Text, Feature: diag.VocabularyDiversity, Fallback: Literal(0), Divisor: 1, Weight: th.Joy},
				{Source: diag.Text, Feature: diag.EmojiRate, Fallback: Literal(0), Divisor: 1, Weight: 10},
				{Source: diag.Audio, Feature: diag.JitterLocalPct, Fallback: Literal(50), Divisor: 100, Weight: 1, Invert: true},
			},
			Anger: {
				{Source: diag.Text, Feature: diag.CapitalizationRatio, Fallback: Literal(0), Divisor: 1, Weight: th.Anger},
				{Source: diag.Audio, Feature: diag.IntensityMeanDB, Fallback: Literal(40), Divisor: 100, Weight: 1},
				{Source: diag.Audio, Feature: diag.SyllabicRateProxy, Fallback: Literal(0), Divisor: 10, Weight: 1},
			},
			Surprise: {
				{Source: diag.Text, Feature: diag.PunctuationFrequency, Reduce: Sum, Fallback: Literal(0), Divisor: 1, Weight: th.Surprise},
				{Source: diag.Audio, Feature: diag.PitchStdevF0Hz, Fallback: Literal(0), Divisor: 100, Weight: 1},
			},
			Trust: {
				{Source: diag.Text, Feature: diag.TyposRate, Fallback: Coefficient(Trust), Divisor: 1, Weight: 1, Invert: true},
				{Source: diag.Audio, Feature: diag.ShimmerLocalPct, Fallback: Literal(50), Divisor: 100, Weight: 1, Invert: true},
			},
		},
	}
}

// ServiceCoefficients are the constants hardcoded at the HTTP boundary.
// Surprise has no weight of its own there; 1 reproduces that.
var ServiceCoefficients = Coefficients{0.7, 0.8, 1, 0.6}

// ServiceProfile is the HTTP boundary variant. Its formulas differ from
// CoreProfile: jitter and shimmer are not scaled by 100, emoji and syllabic
// rate are ignored, pitch is divided by 50, the trust weight multiplies the
// typo term and every text feature is required.
func ServiceProfile() Profile {
	c := ServiceCoefficients
	return Profile{
		Name:         "service",
		Coefficients: c,
		Clip:         UpperClip,
		Terms: [4][]Term{
			Joy: {
				{Source: diag.Text, Feature: diag.VocabularyDiversity, Fallback: Required(), Divisor: 1, Weight: c[Joy]},
				{Source: diag.Audio, Feature: diag.JitterLocalPct, Fallback: Literal(0.5), Divisor: 1, Weight: 1, Invert: true},
			},
			Anger: {
				{Source: diag.Text, Feature: diag.CapitalizationRatio, Fallback: Required(), Divisor: 1, Weight: c[Anger]},
				{Source: diag.Audio, Feature: diag.IntensityMeanDB, Fallback: Literal(50), Divisor: 100, Weight: 1},
			},
			Surprise: {
				{Source: diag.Audio, Feature: diag.PitchStdevF0Hz, Fallback: Literal(0), Divisor: 50, Weight: 1},
				{Source: diag.Text, Feature: diag.PunctuationFrequency, Reduce: Sum, Fallback: Required(), Divisor: 1, Weight: c[Surprise]},
			},
			Trust: {
				{Source: diag.Text, Feature: diag.TyposRate, Fallback: Required(), Divisor: 1, Weight: c[Trust], Invert: true},
				{Source: diag.Audio, Feature: diag.ShimmerLocalPct, Fallback: Literal(0.5), Divisor: 1, Weight: 1, Invert: true},
			},
		},
	}
}

// ProfileByName resolves the server.profile setting.
func ProfileByName(name string, th config.Thresholds) (Profile, error) {
	switch name {
	case "", "service":
		return ServiceProfile(), nil
	case "core":
		return CoreProfile(th), nil
	}
	return Profile{}, fmt.Errorf("unknown affect profile %q", name)
}
