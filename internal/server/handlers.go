package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/farepath/pkg/buildinfo"
	ferrors "github.com/matzehuels/farepath/pkg/errors"
	"github.com/matzehuels/farepath/pkg/pipeline"
	"github.com/matzehuels/farepath/pkg/store"
)

// BuildResponse is the body of a successful POST /v1/builds.
type BuildResponse struct {
	RunID        string           `json:"run_id,omitempty"`
	ScenarioHash string           `json:"scenario_hash"`
	CacheHit     bool             `json:"cache_hit"`
	Summary      pipeline.Summary `json:"summary"`
	// Artifacts holds text formats as strings, json inline and png
	// base64 encoded.
	Artifacts map[string]any `json:"artifacts"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

// handleBuild runs the pipeline on a TOML scenario body. Query parameters:
// format (comma list, default json), detailed, max_paths, refresh,
// workers, max_pu_paths and only_ow.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, ferrors.New(ferrors.ErrCodeInvalidInput, "scenario exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	opts, err := buildOptions(r, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.log

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	res, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := BuildResponse{
		RunID:        res.RunID,
		ScenarioHash: res.ScenarioHash,
		CacheHit:     res.CacheInfo.Hit,
		Summary:      res.Summary,
		Artifacts:    make(map[string]any, len(res.Artifacts)),
	}
	for format, data := range res.Artifacts {
		switch format {
		case pipeline.FormatJSON:
			resp.Artifacts[format] = json.RawMessage(data)
		case pipeline.FormatPNG:
			resp.Artifacts[format] = data
		default:
			resp.Artifacts[format] = string(data)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func buildOptions(r *http.Request, body []byte) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Scenario: body,
		Formats:  pipeline.ParseFormats(q.Get("format")),
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatJSON}
	}
	if len(body) == 0 {
		return opts, ferrors.New(ferrors.ErrCodeInvalidInput, "request body must contain a scenario")
	}

	var err error
	if opts.Detailed, err = queryBool(q.Get("detailed")); err != nil {
		return opts, err
	}
	if opts.Refresh, err = queryBool(q.Get("refresh")); err != nil {
		return opts, err
	}
	if opts.OnlyOWFares, err = queryBool(q.Get("only_ow")); err != nil {
		return opts, err
	}
	if opts.MaxPaths, err = queryInt(q.Get("max_paths")); err != nil {
		return opts, err
	}
	if opts.Workers, err = queryInt(q.Get("workers")); err != nil {
		return opts, err
	}
	if opts.MaxPUPaths, err = queryInt(q.Get("max_pu_paths")); err != nil {
		return opts, err
	}
	return opts, nil
}

func queryBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, ferrors.New(ferrors.ErrCodeInvalidInput, "invalid boolean %q", v)
	}
	return b, nil
}

func queryInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, ferrors.New(ferrors.ErrCodeInvalidInput, "invalid count %q", v)
	}
	return n, nil
}

func (s *Server) handleGetBuild(w http.ResponseWriter, r *http.Request) {
	st := s.store()
	if st == nil {
		s.writeError(w, r, ferrors.New(ferrors.ErrCodeUnsupported, "build records are disabled"))
		return
	}
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		s.writeError(w, r, ferrors.New(ferrors.ErrCodeInvalidInput, "invalid build id %q", id))
		return
	}
	rec, err := st.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, ferrors.New(ferrors.ErrCodeNotFound, "build %s not found", id))
		return
	}
	if err != nil {
		s.writeError(w, r, ferrors.Wrap(ferrors.ErrCodeStore, err, "get build"))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListBuilds(w http.ResponseWriter, r *http.Request) {
	st := s.store()
	if st == nil {
		s.writeError(w, r, ferrors.New(ferrors.ErrCodeUnsupported, "build records are disabled"))
		return
	}
	limit, err := queryInt(r.URL.Query().Get("limit"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	recs, err := st.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, ferrors.Wrap(ferrors.ErrCodeStore, err, "list builds"))
		return
	}
	if recs == nil {
		recs = []*store.BuildRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// =============================================================================
// Responses
// =============================================================================

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := ferrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "route", r.URL.Path, "error", err)
	}
	msg := ferrors.UserMessage(err)
	var e *ferrors.Error
	if errors.As(err, &e) && e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	writeJSON(w, status, ErrorResponse{
		Error:     msg,
		Code:      string(ferrors.GetCode(err)),
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
