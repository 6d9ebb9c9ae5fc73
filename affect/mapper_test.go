package affect

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maastricht-university/gprf/config"
	"github.com/maastricht-university/gprf/diag"
)

var testThresholds = config.Thresholds{Joy: 0.7, Anger: 0.8, Surprise: 0.6, Trust: 0.5}

func assertVector(t *testing.T, want, got Vector) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "%s", Dimension(i))
	}
}

func hiText() diag.Record {
	return diag.Record{
		"vocabulary-diversity":  0.5,
		"emoji-rate":            0.0,
		"capitalization-ratio":  0.0,
		"punctuation-frequency": map[string]any{"!": 2},
		"typos-rate":            0.0,
	}
}

func TestCoreTextOnly(t *testing.T) {
	m := NewMapper(CoreProfile(testThresholds))
	v, err := m.Map(hiText(), diag.Empty())
	require.NoError(t, err)
	assertVector(t, Vector{0.85, 0.4, 1.0, 1.0}, v)
}

func TestCoreDefaultsOnly(t *testing.T) {
	m := NewMapper(CoreProfile(testThresholds))
	v, err := m.Map(nil, nil)
	require.NoError(t, err)
	// joy: 1-50/100; anger: 40/100; trust: (1-c_trust) + (1-50/100)
	assertVector(t, Vector{0.5, 0.4, 0, 1.0}, v)
}

func TestCoreTyposFallsBackToTrustCoefficient(t *testing.T) {
	th := testThresholds
	th.Trust = 0.9
	m := NewMapper(CoreProfile(th))
	v, err := m.Map(diag.Empty(), diag.Empty())
	require.NoError(t, err)
	assert.InDelta(t, (1-0.9)+(1-0.5), v[Trust], 1e-9)
}

func TestCoreAudioOnly(t *testing.T) {
	audio := diag.Record{
		"idiosyncrasies": map[string]any{"jitter_local_pct": 1.0, "shimmer_local_pct": 4.0},
		"intensity":      map[string]any{"mean_db": 65.0},
		"rhythm":         map[string]any{"syllabic_rate_proxy": 4.0},
		"pitch":          map[string]any{"stdev_f0_hz": 20.0},
	}
	m := NewMapper(CoreProfile(testThresholds))
	v, err := m.Map(nil, audio)
	require.NoError(t, err)
	assertVector(t, Vector{0.99, 1.0, 0.2, 1.0}, v)
}

func TestNoLowerClamp(t *testing.T) {
	text := diag.Record{"typos-rate": 3.0, "vocabulary-diversity": -1.0}
	audio := diag.Record{"idiosyncrasies": map[string]any{"jitter_local_pct": 300.0}}
	m := NewMapper(CoreProfile(testThresholds))
	v, err := m.Map(text, audio)
	require.NoError(t, err)

	assert.InDelta(t, -0.7+(1-3), v[Joy], 1e-9)
	assert.InDelta(t, (1-3)+(1-0.5), v[Trust], 1e-9)
	assert.Less(t, v[Joy], 0.0)
	assert.Less(t, v[Trust], 0.0)
}

func TestUpperBound(t *testing.T) {
	text := diag.Record{
		"vocabulary-diversity":  50.0,
		"emoji-rate":            3.0,
		"capitalization-ratio":  9.0,
		"punctuation-frequency": map[string]any{"?": 40, "!": 12},
		"typos-rate":            -5.0,
	}
	audio := diag.Record{"pitch": map[string]any{"stdev_f0_hz": 900.0}}
	for _, p := range []Profile{CoreProfile(testThresholds), ServiceProfile()} {
		v, err := NewMapper(p).Map(text, audio)
		require.NoError(t, err, p.Name)
		for d, x := range v {
			assert.LessOrEqual(t, x, 1.0, "%s %s", p.Name, Dimension(d))
		}
	}
}

func TestMapIsDeterministic(t *testing.T) {
	text := hiText()
	audio := diag.Record{"pitch": map[string]any{"stdev_f0_hz": 12.5}}

	m := NewMapper(CoreProfile(testThresholds))
	a, err := m.Map(text, audio)
	require.NoError(t, err)
	b, err := m.Map(text, audio)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, hiText(), text, "input record mutated")
}

func TestServiceProfile(t *testing.T) {
	m := NewMapper(ServiceProfile())

	v, err := m.Map(hiText(), nil)
	require.NoError(t, err)
	assertVector(t, Vector{0.85, 0.5, 1.0, 1.0}, v)

	text := diag.Record{
		"vocabulary-diversity":  0.2,
		"capitalization-ratio":  0.1,
		"punctuation-frequency": map[string]any{},
		"typos-rate":            0.5,
	}
	audio := diag.Record{
		"idiosyncrasies": map[string]any{"jitter_local_pct": 0.2, "shimmer_local_pct": 0.3},
		"intensity":      map[string]any{"mean_db": 70.0},
		"pitch":          map[string]any{"stdev_f0_hz": 10.0},
	}
	v, err = m.Map(text, audio)
	require.NoError(t, err)
	assertVector(t, Vector{0.94, 0.78, 0.2, 1.0}, v)
}

func TestServiceProfileRequiresTextFeatures(t *testing.T) {
	m := NewMapper(ServiceProfile())
	_, err := m.Map(diag.Empty(), diag.Empty())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingFeature)
	assert.Contains(t, err.Error(), "vocabulary-diversity")
}

func TestProfilesDiverge(t *testing.T) {
	core, err := NewMapper(CoreProfile(testThresholds)).Map(hiText(), nil)
	require.NoError(t, err)
	svc, err := NewMapper(ServiceProfile()).Map(hiText(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, core[Anger], svc[Anger])
}

func TestFallbackTable(t *testing.T) {
	table := CoreProfile(testThresholds).Fallbacks()
	require.Len(t, table, 10)

	got := map[string]string{}
	for _, e := range table {
		got[e.Feature] = e.Fallback.String()
	}
	want := map[string]string{
		"vocabulary-diversity":             "0",
		"emoji-rate":                       "0",
		"idiosyncrasies.jitter_local_pct":  "50",
		"capitalization-ratio":             "0",
		"intensity.mean_db":                "40",
		"rhythm.syllabic_rate_proxy":       "0",
		"punctuation-frequency":            "0",
		"pitch.stdev_f0_hz":                "0",
		"typos-rate":                       "coefficient(trust)",
		"idiosyncrasies.shimmer_local_pct": "50",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fallback table mismatch (-want +got):\n%s", diff)
	}

	for _, e := range ServiceProfile().Fallbacks() {
		if e.Source == diag.Text {
			assert.Equal(t, "required", e.Fallback.String(), e.Feature)
		}
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, 1.0, UpperClip.Apply(7))
	assert.Equal(t, -7.0, UpperClip.Apply(-7))
	assert.Equal(t, 0.25, UpperClip.Apply(0.25))
	assert.Equal(t, 1.0, UpperClip.Apply(math.NaN()))
	assert.Equal(t, math.Inf(-1), UpperClip.Apply(math.Inf(-1)))

	unit := Clip{Lower: 0, Upper: 1}
	assert.Equal(t, 0.0, unit.Apply(-3))
}

func TestProfileByName(t *testing.T) {
	p, err := ProfileByName("core", testThresholds)
	require.NoError(t, err)
	assert.Equal(t, "core", p.Name)
	assert.Equal(t, FromThresholds(testThresholds), p.Coefficients)

	p, err = ProfileByName("", testThresholds)
	require.NoError(t, err)
	assert.Equal(t, "service", p.Name)

	_, err = ProfileByName("legacy", testThresholds)
	assert.Error(t, err)
}

func TestUnsatisfied(t *testing.T) {
	have := []diag.Feature{diag.VocabularyDiversity, diag.EmojiRate, diag.CapitalizationRatio, diag.PunctuationFrequency}

	miss := ServiceProfile().Unsatisfied(diag.Text, have)
	assert.Equal(t, []diag.Feature{diag.TyposRate}, miss)

	assert.Empty(t, ServiceProfile().Unsatisfied(diag.Text, append(have, diag.TyposRate)))
	assert.Empty(t, CoreProfile(testThresholds).Unsatisfied(diag.Text, nil))
	assert.Empty(t, ServiceProfile().Unsatisfied(diag.Audio, nil))
}
