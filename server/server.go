package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/gprf/affect"
	"github.com/maastricht-university/gprf/config"
	"github.com/maastricht-university/gprf/diag"
	"github.com/maastricht-university/gprf/logging"
	"github.com/maastricht-university/gprf/orchestrator"
)

// --- Query (/api/v1/query) ---
type QueryReq struct {
	Message   string `json:"message"`
	Text      string `json:"text"`
	AudioPath string `json:"audio_path"`
}
type QueryResp struct {
	JASTV  []float64 `json:"jast_v"`
	Status string    `json:"status"`
}

type errorResp struct {
	Detail    string `json:"detail"`
	RequestID string `json:"request_id"`
}

// Server exposes the affect core over HTTP. /api/v1/query answers with the
// configured boundary profile, /api/v1/etoken always with the core profile.
type Server struct {
	query  *orchestrator.Builder
	etoken *orchestrator.Builder
	log    *logrus.Entry
}

func New(cfg *config.Root, text orchestrator.TextProvider, audio orchestrator.AudioProvider, log logrus.FieldLogger) (*Server, error) {
	profile, err := affect.ProfileByName(cfg.Server.Profile, cfg.Thresholds)
	if err != nil {
		return nil, err
	}
	entry := logging.Component(log, "server")
	if fl, ok := text.(orchestrator.FeatureLister); ok {
		if miss := profile.Unsatisfied(diag.Text, fl.Features()); len(miss) > 0 {
			entry.WithFields(logrus.Fields{"profile": profile.Name, "missing": fmt.Sprint(miss)}).
				Warn("text provider cannot supply required features, /api/v1/query falls back to the core profile")
			profile = affect.CoreProfile(cfg.Thresholds)
		}
	}
	if profile.Name != "core" {
		entry.WithField("profile", profile.Name).
			Warn("/api/v1/query uses hardcoded coefficients and formulas that differ from the configured core mapping")
	}
	return &Server{
		query:  orchestrator.NewBuilder(cfg, affect.NewMapper(profile), text, audio, log),
		etoken: orchestrator.NewBuilder(cfg, affect.NewMapper(affect.CoreProfile(cfg.Thresholds)), text, audio, log),
		log:    entry,
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/query", s.handleQuery)
	mux.HandleFunc("POST /api/v1/etoken", s.handleEToken)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	return s.withRequestID(mux)
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.log.WithField("addr", ln.Addr().String()).Info("listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type ctxKey struct{}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		s.log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"elapsed":    time.Since(start).String(),
		}).Info("request")
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	req, err := decode(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	if req.Message == "" {
		s.fail(w, r, http.StatusUnprocessableEntity, errors.New("message is required"))
		return
	}

	tok, err := s.query.Extract(r.Context(), orchestrator.Input{Text: req.Message, AudioPath: req.AudioPath})
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	s.respond(w, r, http.StatusOK, QueryResp{JASTV: tok.JASTV.Slice(), Status: "processed"})
}

func (s *Server) handleEToken(w http.ResponseWriter, r *http.Request) {
	req, err := decode(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	text := req.Text
	if text == "" {
		text = req.Message
	}

	tok, err := s.etoken.Extract(r.Context(), orchestrator.Input{Text: text, AudioPath: req.AudioPath})
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	s.respond(w, r, http.StatusOK, tok)
}

// decode reads message/text/audio_path from a JSON body when one is sent,
// and from the query string otherwise.
func decode(r *http.Request) (QueryReq, error) {
	var req QueryReq
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, err
		}
		return req, nil
	}
	q := r.URL.Query()
	req.Message = q.Get("message")
	req.Text = q.Get("text")
	req.AudioPath = q.Get("audio_path")
	return req, nil
}

func statusFor(err error) int {
	var xerr *orchestrator.ExtractionError
	if errors.As(err, &xerr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	id := requestID(r.Context())
	s.log.WithError(err).WithFields(logrus.Fields{"request_id": id, "status": status}).Warn("request failed")
	s.respond(w, r, status, errorResp{Detail: err.Error(), RequestID: id})
}

// respond encodes v before writing the header. An unencodable value, such as
// an infinite score, is reported as a 500.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		if _, isErr := v.(errorResp); isErr {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.fail(w, r, http.StatusInternalServerError, fmt.Errorf("encode response: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.WithError(err).WithField("request_id", requestID(r.Context())).Debug("write response")
	}
}
