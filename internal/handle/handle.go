package handle

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"cropdoc/internal/diagnosis"
	"cropdoc/internal/pipeline"
	"cropdoc/internal/store"
)

type Handle struct {
	Pipe  *pipeline.Pipeline
	Crops *store.CropRepo

	// Dev attaches stack traces to 500 responses.
	Dev bool
}

func New(pipe *pipeline.Pipeline, crops *store.CropRepo, dev bool) *Handle {
	return &Handle{Pipe: pipe, Crops: crops, Dev: dev}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// writeError maps the pipeline taxonomy onto HTTP statuses. No partial
// result ever accompanies a terminal error.
func (h *Handle) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, diagnosis.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation", Message: err.Error()})
	case errors.Is(err, diagnosis.ErrNoCandidates):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "no_candidates", Message: err.Error()})
	case errors.Is(err, diagnosis.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: err.Error()})
	case errors.Is(err, diagnosis.ErrExternal):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "external_service", Message: err.Error()})
	default:
		body := errorBody{Error: "internal", Message: err.Error()}
		if h.Dev {
			body.Stack = string(debug.Stack())
		}
		writeJSON(w, http.StatusInternalServerError, body)
	}
}

// requestDeadline honors the X-Request-Timeout header or timeoutSec
// query parameter, defaulting to 60s.
func requestDeadline(r *http.Request) time.Duration {
	deadline := 60 * time.Second
	if ts := r.Header.Get("X-Request-Timeout"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	} else if ts := r.URL.Query().Get("timeoutSec"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	}
	return deadline
}
