package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/maastricht-university/gprf/diag"
)

type HTTP struct{ c *http.Client }

// NewHTTP returns a client whose calls give up after timeout. Zero disables
// the deadline.
func NewHTTP(timeout time.Duration) *HTTP { return &HTTP{c: &http.Client{Timeout: timeout}} }

// post sends body to endpoint and decodes the diagnostics record in the
// reply. A JSON null reply is an empty record.
func (h *HTTP) post(ctx context.Context, op, endpoint, contentType string, body io.Reader) (diag.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%s %s: %s", op, resp.Status, string(msg))
	}

	var out diag.Record
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s decode: %w", op, err)
	}
	if out == nil {
		out = diag.Empty()
	}
	return out, nil
}
