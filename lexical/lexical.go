// Package lexical computes orthographic text diagnostics in process. It is the
// fallback text provider when no text analyser service is configured.
package lexical

import (
	"context"
	"strings"
	"unicode"

	"github.com/maastricht-university/gprf/diag"
)

// Analyser produces a text diagnostics record. It does not estimate
// typos-rate; the key is omitted so the mapper's fallback applies.
type Analyser struct{}

func New() *Analyser { return &Analyser{} }

// Features lists the keys every record from TextDiagnostics carries.
func (a *Analyser) Features() []diag.Feature {
	return []diag.Feature{diag.VocabularyDiversity, diag.EmojiRate, diag.CapitalizationRatio, diag.PunctuationFrequency}
}

func (a *Analyser) TextDiagnostics(_ context.Context, text string) (diag.Record, error) {
	return Analyse(text), nil
}

// Analyse returns vocabulary-diversity, emoji-rate, capitalization-ratio and
// punctuation-frequency for text.
func Analyse(text string) diag.Record {
	fields := strings.Fields(text)
	words := tokenize(text)

	var letters, upper, emoji int
	punct := map[string]any{}
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		case unicode.IsPunct(r):
			k := string(r)
			n, _ := punct[k].(int)
			punct[k] = n + 1
		case isEmoji(r):
			emoji++
		}
	}

	return diag.Record{
		"vocabulary-diversity":  diversity(words),
		"emoji-rate":            ratio(emoji, len(fields)),
		"capitalization-ratio":  ratio(upper, letters),
		"punctuation-frequency": punct,
	}
}

// tokenize splits text into lowercase words, dropping punctuation and symbols.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func diversity(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return float64(len(unique)) / float64(len(words))
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

var emojiRanges = [][2]rune{
	{0x1F300, 0x1FAFF}, // pictographs, emoticons, transport, supplemental
	{0x2600, 0x27BF},   // misc symbols, dingbats
	{0x1F1E6, 0x1F1FF}, // regional indicators
}

func isEmoji(r rune) bool {
	for _, rg := range emojiRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}
