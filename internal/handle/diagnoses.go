package handle

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cropdoc/internal/diagnosis"
	"cropdoc/internal/pipeline"
)

type saveDiagnosisReq struct {
	Result    *diagnosis.Result `json:"result"`
	ImageURL  string            `json:"imageUrl"`
	Notes     string            `json:"notes"`
	IsOffline bool              `json:"isOffline"`
}

// Diagnoses serves GET (history, newest first, up to 20) and POST
// (explicit save of a result the client already holds).
func (h *Handle) Diagnoses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := 20
		if ls := r.URL.Query().Get("limit"); ls != "" {
			if v, _ := strconv.Atoi(ls); v > 0 && v <= 100 {
				limit = v
			}
		}
		views, err := h.Pipe.History(r.Context(), limit)
		if err != nil {
			h.writeError(w, err)
			return
		}
		if views == nil {
			views = []diagnosis.RecordView{}
		}
		writeJSON(w, http.StatusOK, views)

	case http.MethodPost:
		var req saveDiagnosisReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Result == nil || req.Result.Disease.ID == 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation", Message: "result.disease is required"})
			return
		}
		rec, err := h.Pipe.Record(r.Context(), *req.Result, pipeline.RecordOptions{
			ImageURL:  req.ImageURL,
			Notes:     req.Notes,
			IsOffline: req.IsOffline,
		})
		if err != nil {
			h.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, rec)

	default:
		http.Error(w, "GET or POST only", http.StatusMethodNotAllowed)
	}
}
