package diag

import "encoding/json"

// Record is a raw diagnostics record as produced by a text or audio analyser.
// It is kept untyped so that the token can carry it verbatim; the mapper reads
// it through Float and Sum.
type Record map[string]any

// Empty returns a record with no features. Used when a modality is absent.
func Empty() Record { return Record{} }

// Float resolves a (possibly nested) numeric feature. ok is false when any
// segment of the path is missing or the leaf is not a number.
func (r Record) Float(path ...string) (float64, bool) {
	v, ok := r.lookup(path)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// Sum adds up every numeric value of the mapping found at path, e.g. the
// punctuation-frequency histogram. ok is false when the mapping is absent.
func (r Record) Sum(path ...string) (float64, bool) {
	v, ok := r.lookup(path)
	if !ok {
		return 0, false
	}
	m, ok := asMap(v)
	if !ok {
		return 0, false
	}
	total := 0.0
	for _, x := range m {
		if f, ok := toFloat(x); ok {
			total += f
		}
	}
	return total, true
}

func (r Record) lookup(path []string) (any, bool) {
	if len(path) == 0 || r == nil {
		return nil, false
	}
	var cur any = map[string]any(r)
	for _, seg := range path {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	case map[string]float64:
		out := make(map[string]any, len(m))
		for k, x := range m {
			out[k] = x
		}
		return out, true
	case map[string]int:
		out := make(map[string]any, len(m))
		for k, x := range m {
			out[k] = x
		}
		return out, true
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
