package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cropdoc/internal/diagnosis"
	"cropdoc/internal/util"
)

// DiagnosisRepo owns the diagnosis record lifecycle: append-only
// writes, newest-first reads. Records are never updated or deleted.
type DiagnosisRepo struct{ DB *sql.DB }

func NewDiagnosisRepo(db *sql.DB) *DiagnosisRepo { return &DiagnosisRepo{DB: db} }

type SaveInput struct {
	UserID     int64
	CropID     int64
	DiseaseID  int64
	ImageURL   string
	Confidence float64
	Notes      string
	IsOffline  bool
}

// Save assigns id and creation timestamp. The disease must exist and
// belong to the given crop; an inconsistent pair is the caller's fault.
func (r *DiagnosisRepo) Save(ctx context.Context, in SaveInput) (diagnosis.Record, error) {
	if in.CropID == 0 || in.DiseaseID == 0 {
		return diagnosis.Record{}, fmt.Errorf("crop_id and disease_id are required: %w", diagnosis.ErrValidation)
	}

	var diseaseCrop int64
	err := r.DB.QueryRowContext(ctx,
		`select crop_id from diseases where id = $1`, in.DiseaseID).Scan(&diseaseCrop)
	if errors.Is(err, sql.ErrNoRows) {
		return diagnosis.Record{}, fmt.Errorf("disease %d does not exist: %w", in.DiseaseID, diagnosis.ErrValidation)
	}
	if err != nil {
		return diagnosis.Record{}, err
	}
	if diseaseCrop != in.CropID {
		return diagnosis.Record{}, fmt.Errorf("disease %d does not belong to crop %d: %w",
			in.DiseaseID, in.CropID, diagnosis.ErrValidation)
	}

	rec := diagnosis.Record{
		UserID:          in.UserID,
		CropID:          in.CropID,
		DiseaseID:       in.DiseaseID,
		ImageURL:        util.Truncate(in.ImageURL, 255),
		ConfidenceScore: in.Confidence,
		Notes:           in.Notes,
		CreatedAt:       time.Now().UTC(),
		IsOffline:       in.IsOffline,
	}

	const q = `
insert into diagnoses (user_id, crop_id, disease_id, image_url, confidence_score, notes, created_at, is_offline)
values ($1,$2,$3,$4,$5,$6,$7,$8)
returning id`
	var userID any
	if in.UserID != 0 {
		userID = in.UserID
	}
	if err := r.DB.QueryRowContext(ctx, q,
		userID, rec.CropID, rec.DiseaseID, rec.ImageURL,
		rec.ConfidenceScore, rec.Notes, rec.CreatedAt, rec.IsOffline,
	).Scan(&rec.ID); err != nil {
		return diagnosis.Record{}, err
	}
	return rec, nil
}

// List returns the most recent records, newest first, joined with the
// disease and crop display fields the history screen shows.
func (r *DiagnosisRepo) List(ctx context.Context, limit int) ([]diagnosis.RecordView, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
select d.id, coalesce(d.user_id,0), d.crop_id, d.disease_id,
       coalesce(d.image_url,''), d.confidence_score, coalesce(d.notes,''),
       d.created_at, d.is_offline,
       dis.name, coalesce(dis.symptoms,''),
       c.name
from diagnoses d
join diseases dis on d.disease_id = dis.id
join crops c on d.crop_id = c.id
order by d.created_at desc, d.id desc
limit $1`
	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []diagnosis.RecordView
	for rows.Next() {
		var v diagnosis.RecordView
		if err := rows.Scan(&v.ID, &v.UserID, &v.CropID, &v.DiseaseID,
			&v.ImageURL, &v.ConfidenceScore, &v.Notes,
			&v.CreatedAt, &v.IsOffline,
			&v.Disease.Name, &v.Disease.Symptoms,
			&v.Crop.Name); err != nil {
			return nil, err
		}
		v.Disease.ID = v.DiseaseID
		v.Crop.ID = v.CropID
		out = append(out, v)
	}
	return out, rows.Err()
}
