package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maastricht-university/gprf/diag"
)

func TestTextDiagnostics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/diagnostics", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req TextReq
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hi!!", req.Text)

		_, _ = io.WriteString(w, `{"vocabulary-diversity":0.5,"punctuation-frequency":{"!":2},"typos-rate":0}`)
	}))
	defer srv.Close()

	svc := NewHTTP(5 * time.Second).TextService(srv.URL)
	rec, err := svc.TextDiagnostics(context.Background(), "Hi!!")
	require.NoError(t, err)

	v, ok := rec.Float(diag.VocabularyDiversity...)
	require.True(t, ok)
	assert.Equal(t, 0.5, v)
	sum, ok := rec.Sum(diag.PunctuationFrequency...)
	require.True(t, ok)
	assert.Equal(t, 2.0, sum)
}

func TestTextDiagnosticsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTP(time.Second).TextDiagnostics(context.Background(), srv.URL, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestTextDiagnosticsNullBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `null`)
	}))
	defer srv.Close()

	rec, err := NewHTTP(time.Second).TextDiagnostics(context.Background(), srv.URL, "x")
	require.NoError(t, err)
	assert.NotNil(t, rec)
	assert.Empty(t, rec)
}

func TestAudioAnalysisUploadsFile(t *testing.T) {
	wav := filepath.Join(t.TempDir(), "take1.wav")
	require.NoError(t, os.WriteFile(wav, []byte("RIFF....WAVE"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze", r.URL.Path)
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		assert.Equal(t, "take1.wav", hdr.Filename)
		assert.Equal(t, "audio/wav", hdr.Header.Get("Content-Type"))
		body, _ := io.ReadAll(f)
		assert.Equal(t, "RIFF....WAVE", string(body))

		_, _ = io.WriteString(w, `{"idiosyncrasies":{"jitter_local_pct":1.1,"shimmer_local_pct":3.2},"intensity":{"mean_db":61.5}}`)
	}))
	defer srv.Close()

	svc := NewHTTP(5 * time.Second).AudioService(srv.URL)
	rec, err := svc.AudioDiagnostics(context.Background(), wav)
	require.NoError(t, err)

	v, ok := rec.Float(diag.ShimmerLocalPct...)
	require.True(t, ok)
	assert.Equal(t, 3.2, v)
	v, ok = rec.Float(diag.IntensityMeanDB...)
	require.True(t, ok)
	assert.Equal(t, 61.5, v)
}

func TestAudioAnalysisMissingFile(t *testing.T) {
	_, err := NewHTTP(time.Second).AudioAnalysis(context.Background(), "http://127.0.0.1:1", filepath.Join(t.TempDir(), "none.wav"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAudioAnalysisBadJSON(t *testing.T) {
	wav := filepath.Join(t.TempDir(), "a.wav")
	require.NoError(t, os.WriteFile(wav, []byte("x"), 0o644))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"pitch":`)
	}))
	defer srv.Close()

	_, err := NewHTTP(time.Second).AudioAnalysis(context.Background(), srv.URL, wav)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audio analysis decode")
}

func TestAudioType(t *testing.T) {
	assert.Equal(t, "audio/wav", audioType("a/B.WAV"))
	assert.Equal(t, "audio/mpeg", audioType("clip.mp3"))
	assert.Equal(t, "application/octet-stream", audioType("take.raw"))
}

func TestAudioAnalysisStatusError(t *testing.T) {
	wav := filepath.Join(t.TempDir(), "a.wav")
	require.NoError(t, os.WriteFile(wav, []byte("x"), 0o644))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unsupported format", http.StatusUnsupportedMediaType)
	}))
	defer srv.Close()

	_, err := NewHTTP(time.Second).AudioAnalysis(context.Background(), srv.URL, wav)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audio analysis 415")
	assert.Contains(t, err.Error(), "unsupported format")
}
