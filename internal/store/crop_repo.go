package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cropdoc/internal/diagnosis"
)

// CropRepo is the read-only reference store for crops and their
// candidate diseases. Rows come from seed/import; nothing here writes.
type CropRepo struct{ DB *sql.DB }

func NewCropRepo(db *sql.DB) *CropRepo { return &CropRepo{DB: db} }

// ListCrops returns all crops ordered by name ascending.
func (r *CropRepo) ListCrops(ctx context.Context) ([]diagnosis.Crop, error) {
	const q = `
select id, name,
       coalesce(scientific_name,'') as scientific_name,
       coalesce(description,'') as description,
       coalesce(common_in_regions,'') as common_in_regions
from crops
order by name asc`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []diagnosis.Crop
	for rows.Next() {
		c, err := scanCrop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCrop returns ErrNotFound when the id is unknown.
func (r *CropRepo) GetCrop(ctx context.Context, id int64) (diagnosis.Crop, error) {
	const q = `
select id, name,
       coalesce(scientific_name,'') as scientific_name,
       coalesce(description,'') as description,
       coalesce(common_in_regions,'') as common_in_regions
from crops
where id = $1`
	c, err := scanCrop(r.DB.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return diagnosis.Crop{}, fmt.Errorf("crop %d: %w", id, ErrNotFound)
	}
	return c, err
}

// ListDiseases returns every disease configured for the crop. An empty
// slice is not an error here; the orchestrator decides what a crop
// without candidates means.
func (r *CropRepo) ListDiseases(ctx context.Context, cropID int64) ([]diagnosis.Disease, error) {
	const q = `
select id, crop_id, name,
       coalesce(symptoms,'') as symptoms,
       coalesce(causes,'') as causes,
       coalesce(prevention,'') as prevention,
       coalesce(organic_treatment,'') as organic_treatment,
       coalesce(chemical_treatment,'') as chemical_treatment,
       coalesce(image_url,'') as image_url
from diseases
where crop_id = $1`
	rows, err := r.DB.QueryContext(ctx, q, cropID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []diagnosis.Disease
	for rows.Next() {
		var d diagnosis.Disease
		if err := rows.Scan(&d.ID, &d.CropID, &d.Name, &d.Symptoms, &d.Causes,
			&d.Prevention, &d.OrganicTreatment, &d.ChemicalTreatment, &d.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCrop(row rowScanner) (diagnosis.Crop, error) {
	var (
		c       diagnosis.Crop
		regions string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.ScientificName, &c.Description, &regions); err != nil {
		return diagnosis.Crop{}, err
	}
	if regions != "" {
		// Broken JSON in a seed column means no regions, not a failed read.
		_ = json.Unmarshal([]byte(regions), &c.Regions)
	}
	return c, nil
}
