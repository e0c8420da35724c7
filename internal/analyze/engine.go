package analyze

import (
	"context"
	"fmt"
	"strings"

	"cropdoc/internal/diagnosis"
)

// Request carries everything an engine needs; engines are pure
// functions of their inputs.
type Request struct {
	// Image is a data URI or bare base64 payload.
	Image string
	Crop  diagnosis.Crop
	// Candidates is the matching universe for the diagnosis: every
	// disease configured for the crop.
	Candidates []diagnosis.Disease
}

// RawAnalysis is what an engine produces before normalization. Online
// engines fill Text with the unparsed model reply. The offline engine
// has already chosen, so it sets Picked and Confidence instead.
type RawAnalysis struct {
	Text       string
	Picked     *diagnosis.Disease
	Confidence float64
}

type Engine interface {
	Name() string
	Analyze(ctx context.Context, req Request) (RawAnalysis, error)
}

// ValidateRequest enforces the preconditions shared by all engines.
func ValidateRequest(req Request) error {
	if strings.TrimSpace(req.Image) == "" {
		return fmt.Errorf("image is required: %w", diagnosis.ErrValidation)
	}
	if req.Crop.ID == 0 {
		return fmt.Errorf("crop is required: %w", diagnosis.ErrValidation)
	}
	if len(req.Candidates) == 0 {
		return fmt.Errorf("crop %d: %w", req.Crop.ID, diagnosis.ErrNoCandidates)
	}
	return nil
}
