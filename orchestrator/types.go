package orchestrator

import (
	"context"
	"fmt"

	"github.com/maastricht-university/gprf/affect"
	"github.com/maastricht-university/gprf/diag"
)

// Input is one extraction request. Empty fields mean the modality is absent.
type Input struct {
	Text      string `json:"text,omitempty" yaml:"text,omitempty"`
	AudioPath string `json:"audio_path,omitempty" yaml:"audio_path,omitempty"`
}

// Abstract keeps the raw diagnostics records for downstream inspection.
type Abstract struct {
	Text  diag.Record `json:"text" yaml:"text"`
	Audio diag.Record `json:"audio" yaml:"audio"`
}

// EToken is the dual-schema token handed to response generation.
type EToken struct {
	LogicalSchema   string        `json:"logical_schema" yaml:"logical_schema"`
	EmotionSchema   string        `json:"emotion_schema" yaml:"emotion_schema"`
	JASTV           affect.Vector `json:"jast_v" yaml:"jast_v"`
	CurrentAbstract Abstract      `json:"current_abstract" yaml:"current_abstract"`
}

type TextProvider interface {
	TextDiagnostics(ctx context.Context, text string) (diag.Record, error)
}

// FeatureLister is implemented by providers that emit a fixed key set.
type FeatureLister interface {
	Features() []diag.Feature
}

type AudioProvider interface {
	AudioDiagnostics(ctx context.Context, path string) (diag.Record, error)
}

// ExtractionError wraps a diagnostics provider failure.
type ExtractionError struct {
	Modality diag.Source
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s feature extraction: %v", e.Modality, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
