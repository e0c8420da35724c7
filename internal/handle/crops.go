package handle

import (
	"net/http"

	"cropdoc/internal/diagnosis"
)

func (h *Handle) ListCrops(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}
	crops, err := h.Crops.ListCrops(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if crops == nil {
		crops = []diagnosis.Crop{}
	}
	writeJSON(w, http.StatusOK, crops)
}
