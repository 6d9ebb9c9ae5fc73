package clients

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/maastricht-university/gprf/diag"
)

// --- Audio analyser (/analyze) ---

var audioTypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
}

func audioType(path string) string {
	if t, ok := audioTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	return "application/octet-stream"
}

// audioForm builds a multipart body with the recording under the "file"
// field, typed by its extension.
func audioForm(path string) (*bytes.Buffer, string, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer fd.Close()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(path)))
	hdr.Set("Content-Type", audioType(path))
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, fd); err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &b, w.FormDataContentType(), nil
}

// AudioAnalysis uploads the file at path and returns the nested prosody and
// voice-quality record (idiosyncrasies, intensity, rhythm, pitch).
func (h *HTTP) AudioAnalysis(ctx context.Context, url, path string) (diag.Record, error) {
	body, ct, err := audioForm(path)
	if err != nil {
		return nil, err
	}
	return h.post(ctx, "audio analysis", url+"/analyze", ct, body)
}

// AudioService binds the audio analyser URL.
type AudioService struct {
	h   *HTTP
	url string
}

func (h *HTTP) AudioService(url string) *AudioService { return &AudioService{h: h, url: url} }

func (s *AudioService) AudioDiagnostics(ctx context.Context, path string) (diag.Record, error) {
	return s.h.AudioAnalysis(ctx, s.url, path)
}
