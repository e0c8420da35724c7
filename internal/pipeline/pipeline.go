package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cropdoc/internal/analyze"
	"cropdoc/internal/diagnosis"
	"cropdoc/internal/store"
)

// Pipeline is the single entry point the front-ends call. It ties the
// reference store, the analyzer engines, the normalizer and the record
// repository together.
type Pipeline struct {
	Crops   *store.CropRepo
	Records *store.DiagnosisRepo

	Online  analyze.Engine
	Offline analyze.Engine

	// VisionTimeout bounds the external call on the online path so a
	// hung service fails the request instead of stalling it.
	VisionTimeout time.Duration
}

type DiagnoseRequest struct {
	Image  string
	CropID int64
	Mode   diagnosis.Mode
	UserID int64
}

// Diagnose runs the full contract: validate, resolve crop and
// candidates, analyze, normalize, best-effort persist, return.
func (p *Pipeline) Diagnose(ctx context.Context, req DiagnoseRequest) (diagnosis.Result, error) {
	if strings.TrimSpace(req.Image) == "" || req.CropID == 0 {
		return diagnosis.Result{}, fmt.Errorf("image and cropId are required: %w", diagnosis.ErrValidation)
	}

	engine, err := p.engine(req.Mode)
	if err != nil {
		return diagnosis.Result{}, err
	}

	crop, err := p.Crops.GetCrop(ctx, req.CropID)
	if err != nil {
		return diagnosis.Result{}, err
	}
	candidates, err := p.Crops.ListDiseases(ctx, crop.ID)
	if err != nil {
		return diagnosis.Result{}, err
	}
	if len(candidates) == 0 {
		return diagnosis.Result{}, fmt.Errorf("crop %d: %w", crop.ID, diagnosis.ErrNoCandidates)
	}

	actx := ctx
	if req.Mode == diagnosis.ModeOnline && p.VisionTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, p.VisionTimeout)
		defer cancel()
	}

	raw, err := engine.Analyze(actx, analyze.Request{
		Image:      req.Image,
		Crop:       crop,
		Candidates: candidates,
	})
	if err != nil {
		if errors.Is(err, diagnosis.ErrValidation) || errors.Is(err, diagnosis.ErrNoCandidates) {
			return diagnosis.Result{}, err
		}
		return diagnosis.Result{}, fmt.Errorf("%w: %v", diagnosis.ErrExternal, err)
	}

	norm := analyze.Normalize(raw, candidates)
	if norm.Fallback {
		log.Printf("diagnose: unparseable %s reply for crop %d, used fallback", engine.Name(), crop.ID)
	}

	// Best-effort persistence: a failed write is logged and must not
	// cost the caller an already-computed result.
	if _, err := p.Records.Save(ctx, store.SaveInput{
		UserID:     req.UserID,
		CropID:     crop.ID,
		DiseaseID:  norm.Result.Disease.ID,
		ImageURL:   req.Image,
		Confidence: norm.Result.Confidence,
		IsOffline:  req.Mode == diagnosis.ModeOffline,
	}); err != nil {
		log.Printf("diagnose: save record failed: %v", err)
	}

	return norm.Result, nil
}

type RecordOptions struct {
	ImageURL  string
	Notes     string
	IsOffline bool
	UserID    int64
}

// Record persists a result the caller already holds, for UIs that
// defer the save decision to the user.
func (p *Pipeline) Record(ctx context.Context, result diagnosis.Result, opts RecordOptions) (diagnosis.Record, error) {
	if result.Disease.ID == 0 {
		return diagnosis.Record{}, fmt.Errorf("result.disease is required: %w", diagnosis.ErrValidation)
	}
	return p.Records.Save(ctx, store.SaveInput{
		UserID:     opts.UserID,
		CropID:     result.Disease.CropID,
		DiseaseID:  result.Disease.ID,
		ImageURL:   opts.ImageURL,
		Confidence: result.Confidence,
		Notes:      opts.Notes,
		IsOffline:  opts.IsOffline,
	})
}

// History lists the newest records with their display fields.
func (p *Pipeline) History(ctx context.Context, limit int) ([]diagnosis.RecordView, error) {
	return p.Records.List(ctx, limit)
}

func (p *Pipeline) engine(mode diagnosis.Mode) (analyze.Engine, error) {
	switch mode {
	case diagnosis.ModeOnline:
		return p.Online, nil
	case diagnosis.ModeOffline:
		return p.Offline, nil
	default:
		return nil, fmt.Errorf("unknown mode %q: %w", mode, diagnosis.ErrValidation)
	}
}
