package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"cropdoc/internal/diagnosis"
)

// setupTestDB creates an in-memory database with the authoritative
// schema from schema.go.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedCropRow(t *testing.T, db *sql.DB, id int64, name string) {
	t.Helper()
	_, err := db.Exec(`insert into crops (id, name, scientific_name) values ($1, $2, $3)`,
		id, name, "Testus plantus")
	if err != nil {
		t.Fatalf("seed crop %q: %v", name, err)
	}
}

func seedDiseaseRow(t *testing.T, db *sql.DB, id, cropID int64, name, organic, chemical string) {
	t.Helper()
	_, err := db.Exec(`
insert into diseases (id, crop_id, name, symptoms, organic_treatment, chemical_treatment)
values ($1, $2, $3, $4, $5, $6)`,
		id, cropID, name, "spots on leaves", organic, chemical)
	if err != nil {
		t.Fatalf("seed disease %q: %v", name, err)
	}
}

func TestListCrops_OrderedByName(t *testing.T) {
	db := setupTestDB(t)
	seedCropRow(t, db, 1, "Rice")
	seedCropRow(t, db, 2, "Maize")
	seedCropRow(t, db, 3, "Cassava")

	repo := NewCropRepo(db)
	crops, err := repo.ListCrops(context.Background())
	if err != nil {
		t.Fatalf("ListCrops: %v", err)
	}
	got := make([]string, 0, len(crops))
	for _, c := range crops {
		got = append(got, c.Name)
	}
	want := []string{"Cassava", "Maize", "Rice"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("order = %v, want %v", got, want)
	}

	// Idempotence: a second read returns the identical sequence.
	again, err := repo.ListCrops(context.Background())
	if err != nil {
		t.Fatalf("ListCrops again: %v", err)
	}
	if len(again) != len(crops) {
		t.Fatalf("second read returned %d crops, want %d", len(again), len(crops))
	}
	for i := range crops {
		if again[i].ID != crops[i].ID {
			t.Fatalf("second read order differs at %d: %v vs %v", i, again[i], crops[i])
		}
	}
}

func TestGetCrop_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCropRepo(db)

	_, err := repo.GetCrop(context.Background(), 42)
	if !errors.Is(err, diagnosis.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetCrop_RegionsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	if _, err := db.Exec(`insert into crops (id, name, common_in_regions) values (1, 'Rice', '["South Asia","West Africa"]')`); err != nil {
		t.Fatal(err)
	}

	c, err := NewCropRepo(db).GetCrop(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetCrop: %v", err)
	}
	if len(c.Regions) != 2 || c.Regions[0] != "South Asia" {
		t.Fatalf("regions = %v", c.Regions)
	}
}

func TestListDiseases_EmptyCrop(t *testing.T) {
	db := setupTestDB(t)
	seedCropRow(t, db, 1, "Rice")

	ds, err := NewCropRepo(db).ListDiseases(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListDiseases: %v", err)
	}
	if len(ds) != 0 {
		t.Fatalf("expected no diseases, got %d", len(ds))
	}
}

func TestDiagnosisSave_Validation(t *testing.T) {
	db := setupTestDB(t)
	seedCropRow(t, db, 1, "Rice")
	seedCropRow(t, db, 2, "Maize")
	seedDiseaseRow(t, db, 10, 1, "Leaf Rust", "", "")

	repo := NewDiagnosisRepo(db)
	ctx := context.Background()

	cases := []struct {
		name string
		in   SaveInput
	}{
		{"missing ids", SaveInput{Confidence: 0.7}},
		{"missing disease", SaveInput{CropID: 1, Confidence: 0.7}},
		{"unknown disease", SaveInput{CropID: 1, DiseaseID: 999, Confidence: 0.7}},
		{"disease of other crop", SaveInput{CropID: 2, DiseaseID: 10, Confidence: 0.7}},
	}
	for _, tc := range cases {
		if _, err := repo.Save(ctx, tc.in); !errors.Is(err, diagnosis.ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", tc.name, err)
		}
	}
}

func TestDiagnosisSaveThenList_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	seedCropRow(t, db, 1, "Rice")
	seedDiseaseRow(t, db, 10, 1, "Leaf Rust", "Apply neem oil; Use compost tea", "")

	repo := NewDiagnosisRepo(db)
	ctx := context.Background()

	longRef := strings.Repeat("x", 600)
	rec, err := repo.Save(ctx, SaveInput{
		CropID:     1,
		DiseaseID:  10,
		ImageURL:   longRef,
		Confidence: 0.73,
		Notes:      "field notes",
		IsOffline:  true,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.ID == 0 {
		t.Fatal("Save did not assign an id")
	}
	if len(rec.ImageURL) != 255 {
		t.Fatalf("image ref length = %d, want 255", len(rec.ImageURL))
	}

	views, err := repo.List(ctx, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("List returned %d rows, want 1", len(views))
	}
	v := views[0]
	if v.DiseaseID != 10 || v.CropID != 1 {
		t.Fatalf("ids = (%d,%d), want (10,1)", v.DiseaseID, v.CropID)
	}
	if diff := v.ConfidenceScore - 0.73; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("confidence = %v, want 0.73", v.ConfidenceScore)
	}
	if !v.IsOffline {
		t.Fatal("is_offline flag lost")
	}
	if v.Disease.Name != "Leaf Rust" || v.Crop.Name != "Rice" {
		t.Fatalf("joined names = %q/%q", v.Disease.Name, v.Crop.Name)
	}
	if v.Notes != "field notes" {
		t.Fatalf("notes = %q", v.Notes)
	}
}

func TestDiagnosisList_NewestFirstAndLimit(t *testing.T) {
	db := setupTestDB(t)
	seedCropRow(t, db, 1, "Rice")
	seedDiseaseRow(t, db, 10, 1, "Leaf Rust", "", "")

	repo := NewDiagnosisRepo(db)
	ctx := context.Background()

	var lastID int64
	for i := 0; i < 3; i++ {
		rec, err := repo.Save(ctx, SaveInput{CropID: 1, DiseaseID: 10, Confidence: 0.6})
		if err != nil {
			t.Fatalf("Save #%d: %v", i, err)
		}
		lastID = rec.ID
	}

	views, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("List returned %d rows, want 2", len(views))
	}
	if views[0].ID != lastID {
		t.Fatalf("first row id = %d, want most recent %d", views[0].ID, lastID)
	}
}
