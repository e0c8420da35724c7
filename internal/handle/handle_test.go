package handle

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"cropdoc/internal/analyze"
	"cropdoc/internal/diagnosis"
	"cropdoc/internal/pipeline"
	"cropdoc/internal/store"
)

type stubEngine struct{ text string }

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Analyze(ctx context.Context, req analyze.Request) (analyze.RawAnalysis, error) {
	if err := analyze.ValidateRequest(req); err != nil {
		return analyze.RawAnalysis{}, err
	}
	return analyze.RawAnalysis{Text: s.text}, nil
}

func setupHandle(t *testing.T, onlineText string) *Handle {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := store.InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	exec := func(q string) {
		t.Helper()
		if _, err := db.Exec(q); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	exec(`insert into crops (id, name) values (1, 'Rice')`)
	exec(`insert into crops (id, name) values (2, 'Maize')`)
	exec(`insert into diseases (id, crop_id, name, organic_treatment) values (10, 1, 'Leaf Rust', 'Apply neem oil; Use compost tea')`)

	crops := store.NewCropRepo(db)
	pipe := &pipeline.Pipeline{
		Crops:         crops,
		Records:       store.NewDiagnosisRepo(db),
		Online:        &stubEngine{text: onlineText},
		Offline:       analyze.NewOffline(1),
		VisionTimeout: time.Second,
	}
	return New(pipe, crops, false)
}

func postJSON(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(b))
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

const image = "data:image/jpeg;base64,/9j/4AAQSkZJRg=="

func TestDiagnose_MissingFields(t *testing.T) {
	h := setupHandle(t, "")
	w := postJSON(t, h.DiagnoseOffline, map[string]any{"cropId": 1})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var body errorBody
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Error != "validation" {
		t.Fatalf("error code = %q", body.Error)
	}
}

func TestDiagnose_UnknownCrop(t *testing.T) {
	h := setupHandle(t, "")
	w := postJSON(t, h.DiagnoseOffline, map[string]any{"image": image, "cropId": 99})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var body errorBody
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Error != "not_found" {
		t.Fatalf("error code = %q", body.Error)
	}
}

func TestDiagnose_CropWithoutDiseases(t *testing.T) {
	h := setupHandle(t, "")
	w := postJSON(t, h.DiagnoseOffline, map[string]any{"image": image, "cropId": 2})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var body errorBody
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Error != "no_candidates" {
		t.Fatalf("error code = %q, want distinct no_candidates", body.Error)
	}
}

func TestDiagnose_OfflineOK(t *testing.T) {
	h := setupHandle(t, "")
	w := postJSON(t, h.DiagnoseOffline, map[string]any{"image": image, "cropId": 1})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var result diagnosis.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if result.Disease.ID != 10 || result.Disease.CropID != 1 {
		t.Fatalf("disease = %+v", result.Disease)
	}
	if result.Confidence < 0.5 || result.Confidence >= 0.8 {
		t.Fatalf("confidence = %v", result.Confidence)
	}
}

func TestDiagnose_OnlineGarbageStill200(t *testing.T) {
	h := setupHandle(t, "no json here at all")
	w := postJSON(t, h.DiagnoseOnline, map[string]any{"image": image, "cropId": 1})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var result diagnosis.Result
	_ = json.Unmarshal(w.Body.Bytes(), &result)
	if result.Confidence != 0.7 || result.Disease.ID != 10 {
		t.Fatalf("fallback result = %+v", result)
	}
}

func TestDiagnose_MethodNotAllowed(t *testing.T) {
	h := setupHandle(t, "")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.DiagnoseOnline(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
}

func TestDiagnoses_SaveThenList(t *testing.T) {
	h := setupHandle(t, "")

	result := diagnosis.Result{
		Disease:    diagnosis.Disease{ID: 10, CropID: 1, Name: "Leaf Rust"},
		Confidence: 0.77,
	}
	w := postJSON(t, h.Diagnoses, map[string]any{
		"result":    result,
		"imageUrl":  "photo.jpg",
		"notes":     "north plot",
		"isOffline": true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("save status = %d, body %s", w.Code, w.Body.String())
	}
	var rec diagnosis.Record
	_ = json.Unmarshal(w.Body.Bytes(), &rec)
	if rec.ID == 0 || rec.DiseaseID != 10 {
		t.Fatalf("record = %+v", rec)
	}

	req := httptest.NewRequest(http.MethodGet, "/diagnoses", nil)
	lw := httptest.NewRecorder()
	h.Diagnoses(lw, req)
	if lw.Code != http.StatusOK {
		t.Fatalf("list status = %d", lw.Code)
	}
	var views []diagnosis.RecordView
	if err := json.Unmarshal(lw.Body.Bytes(), &views); err != nil {
		t.Fatalf("bad list json: %v", err)
	}
	if len(views) != 1 || views[0].ID != rec.ID {
		t.Fatalf("views = %+v", views)
	}
	if views[0].Disease.Name != "Leaf Rust" || views[0].Crop.Name != "Rice" {
		t.Fatalf("joined fields = %+v", views[0])
	}
}

func TestDiagnoses_SaveRequiresDisease(t *testing.T) {
	h := setupHandle(t, "")
	w := postJSON(t, h.Diagnoses, map[string]any{"imageUrl": "x.jpg"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestListCrops(t *testing.T) {
	h := setupHandle(t, "")
	req := httptest.NewRequest(http.MethodGet, "/crops", nil)
	w := httptest.NewRecorder()
	h.ListCrops(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var crops []diagnosis.Crop
	if err := json.Unmarshal(w.Body.Bytes(), &crops); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(crops) != 2 || crops[0].Name != "Maize" || crops[1].Name != "Rice" {
		t.Fatalf("crops = %+v", crops)
	}
}
