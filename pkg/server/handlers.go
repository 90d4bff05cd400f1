package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/yaklabco/gotypstyle/internal/logging"
	"github.com/yaklabco/gotypstyle/pkg/format"
	"github.com/yaklabco/gotypstyle/pkg/langdetect"
	"github.com/yaklabco/gotypstyle/pkg/typstyle"
)

// requestPath names request bodies in errors and cache logs.
const requestPath = "request.typ"

// CacheHeader reports whether the response came from the cache.
const CacheHeader = "X-Cache"

// ErrorResponse is the JSON body of failed requests.
type ErrorResponse struct {
	Error  string `json:"error"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// CheckResponse is the JSON body of /check.
type CheckResponse struct {
	Changed bool `json:"changed"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	res, ok := s.process(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set(CacheHeader, cacheStatus(res.CacheHit))
	_, _ = w.Write(res.Formatted)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	res, ok := s.process(w, r)
	if !ok {
		return
	}
	w.Header().Set(CacheHeader, cacheStatus(res.CacheHit))
	writeJSON(w, http.StatusOK, CheckResponse{Changed: res.Changed})
}

// process formats the request body, writing an error response and
// returning false on failure.
func (s *Server) process(w http.ResponseWriter, r *http.Request) (*format.Result, bool) {
	opts, err := s.requestOptions(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return nil, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "read body: " + err.Error()})
		return nil, false
	}

	pipeline := format.NewPipeline(format.Options{
		Format:   opts,
		Cache:    s.opts.Cache,
		CacheTTL: s.opts.CacheTTL,
	})
	res, err := pipeline.ProcessContent(r.Context(), requestPath, body, langdetect.Typst)
	if err != nil {
		var syntaxErr *typstyle.SyntaxError
		if errors.As(err, &syntaxErr) {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:  syntaxErr.Message,
				Line:   syntaxErr.Line,
				Column: syntaxErr.Column,
			})
			return nil, false
		}
		logging.FromContext(r.Context()).Error("format failed", logging.FieldError, err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return nil, false
	}
	return res, true
}

func (s *Server) requestOptions(r *http.Request) (typstyle.Options, error) {
	opts := s.opts.Format
	query := r.URL.Query()

	if v := query.Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return opts, errors.New("width must be a positive integer")
		}
		opts.MaxWidth = n
	}
	if v := query.Get("blank_lines"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New("blank_lines must be a non-negative integer")
		}
		opts.BlankLinesUpperBound = n
	}
	return opts, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
