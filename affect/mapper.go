package affect

import (
	"errors"
	"math"

	"github.com/maastricht-university/gprf/diag"
)

// ErrMissingFeature is returned when a Required feature is absent.
var ErrMissingFeature = errors.New("missing feature")

// Vector is a JAST-V score vector in Joy/Anger/Surprise/Trust order.
type Vector [4]float64

func (v Vector) Slice() []float64 { return v[:] }

// Clip bounds each score independently.
type Clip struct {
	Lower, Upper float64
}

// UpperClip caps scores at 1.0 and leaves negative scores untouched.
var UpperClip = Clip{Lower: math.Inf(-1), Upper: 1.0}

// Apply bounds x. NaN is capped to Upper.
func (c Clip) Apply(x float64) float64 {
	if !(x < c.Upper) {
		return c.Upper
	}
	if x < c.Lower {
		return c.Lower
	}
	return x
}

// Mapper evaluates a Profile. It holds no state besides the profile and is
// safe for concurrent use.
type Mapper struct {
	profile Profile
}

func NewMapper(p Profile) *Mapper { return &Mapper{profile: p} }

func (m *Mapper) Profile() Profile { return m.profile }

// Map computes the clipped JAST-V vector for one pair of diagnostics records.
// A nil record is treated as empty.
func (m *Mapper) Map(text, audio diag.Record) (Vector, error) {
	var out Vector
	for d, terms := range m.profile.Terms {
		raw := 0.0
		for _, t := range terms {
			x, err := t.eval(text, audio, m.profile.Coefficients)
			if err != nil {
				return Vector{}, err
			}
			raw += x
		}
		out[d] = m.profile.Clip.Apply(raw)
	}
	return out, nil
}
