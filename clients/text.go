package clients

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/maastricht-university/gprf/diag"
)

// --- Text analyser (/diagnostics) ---
type TextReq struct {
	Text string `json:"text"`
}

func (h *HTTP) TextDiagnostics(ctx context.Context, url, text string) (diag.Record, error) {
	b, err := json.Marshal(TextReq{Text: text})
	if err != nil {
		return nil, err
	}
	return h.post(ctx, "text diagnostics", url+"/diagnostics", "application/json", bytes.NewReader(b))
}

// TextService binds the text analyser URL.
type TextService struct {
	h   *HTTP
	url string
}

func (h *HTTP) TextService(url string) *TextService { return &TextService{h: h, url: url} }

func (s *TextService) TextDiagnostics(ctx context.Context, text string) (diag.Record, error) {
	return s.h.TextDiagnostics(ctx, s.url, text)
}
