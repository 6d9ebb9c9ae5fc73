package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/gprf/affect"
	"github.com/maastricht-university/gprf/config"
	"github.com/maastricht-university/gprf/diag"
	"github.com/maastricht-university/gprf/logging"
)

var errNoProvider = errors.New("no provider configured")

// Builder assembles ETokens. It is safe for concurrent use; each Extract call
// is independent.
type Builder struct {
	labels [4]string
	mapper *affect.Mapper
	text   TextProvider
	audio  AudioProvider
	log    logrus.FieldLogger
}

// NewBuilder wires the providers and mapper. Either provider may be nil, in
// which case requests for that modality fail.
func NewBuilder(cfg *config.Root, mapper *affect.Mapper, text TextProvider, audio AudioProvider, log logrus.FieldLogger) *Builder {
	return &Builder{
		labels: cfg.Dimensions,
		mapper: mapper,
		text:   text,
		audio:  audio,
		log:    logging.Component(log, "builder"),
	}
}

// Extract runs one extraction: diagnostics, mapping, schema construction.
// Provider failures are returned as *ExtractionError without retry.
func (b *Builder) Extract(ctx context.Context, in Input) (EToken, error) {
	text, err := b.textDiagnostics(ctx, in.Text)
	if err != nil {
		return EToken{}, err
	}
	audio, err := b.audioDiagnostics(ctx, in.AudioPath)
	if err != nil {
		return EToken{}, err
	}

	vec, err := b.mapper.Map(text, audio)
	if err != nil {
		return EToken{}, fmt.Errorf("map affect: %w", err)
	}

	b.log.WithFields(logrus.Fields{
		"has_text":  in.Text != "",
		"has_audio": in.AudioPath != "",
		"jast_v":    vec,
	}).Debug("etoken extracted")

	return EToken{
		LogicalSchema:   in.Text,
		EmotionSchema:   EmotionSchema(b.labels, vec, in.Text),
		JASTV:           vec,
		CurrentAbstract: Abstract{Text: text, Audio: audio},
	}, nil
}

func (b *Builder) textDiagnostics(ctx context.Context, text string) (diag.Record, error) {
	if text == "" {
		return diag.Empty(), nil
	}
	if b.text == nil {
		return nil, &ExtractionError{Modality: diag.Text, Err: errNoProvider}
	}
	rec, err := b.text.TextDiagnostics(ctx, text)
	if err != nil {
		return nil, &ExtractionError{Modality: diag.Text, Err: err}
	}
	if rec == nil {
		rec = diag.Empty()
	}
	return rec, nil
}

func (b *Builder) audioDiagnostics(ctx context.Context, path string) (diag.Record, error) {
	if path == "" {
		return diag.Empty(), nil
	}
	if b.audio == nil {
		return nil, &ExtractionError{Modality: diag.Audio, Err: errNoProvider}
	}
	rec, err := b.audio.AudioDiagnostics(ctx, path)
	if err != nil {
		return nil, &ExtractionError{Modality: diag.Audio, Err: err}
	}
	if rec == nil {
		rec = diag.Empty()
	}
	return rec, nil
}

// Labels returns the configured dimension labels.
func (b *Builder) Labels() [4]string { return b.labels }
