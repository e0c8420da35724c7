package handle

import (
	"context"
	"encoding/json"
	"net/http"

	"cropdoc/internal/diagnosis"
	"cropdoc/internal/pipeline"
)

type diagnoseReq struct {
	Image  string `json:"image"`
	CropID int64  `json:"cropId"`
}

func (h *Handle) DiagnoseOnline(w http.ResponseWriter, r *http.Request) {
	h.diagnose(w, r, diagnosis.ModeOnline)
}

func (h *Handle) DiagnoseOffline(w http.ResponseWriter, r *http.Request) {
	h.diagnose(w, r, diagnosis.ModeOffline)
}

func (h *Handle) diagnose(w http.ResponseWriter, r *http.Request, mode diagnosis.Mode) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var req diagnoseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestDeadline(r))
	defer cancel()

	result, err := h.Pipe.Diagnose(ctx, pipeline.DiagnoseRequest{
		Image:  req.Image,
		CropID: req.CropID,
		Mode:   mode,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
