package diagnosis

import "time"

// Crop is read-only reference data, created by seed/import and never
// mutated by the pipeline.
type Crop struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	ScientificName string   `json:"scientific_name,omitempty"`
	Description    string   `json:"description,omitempty"`
	Regions        []string `json:"common_in_regions,omitempty"`
}

// Disease belongs to exactly one crop. OrganicTreatment and
// ChemicalTreatment are semicolon-delimited lists as stored.
type Disease struct {
	ID                int64  `json:"id"`
	CropID            int64  `json:"crop_id"`
	Name              string `json:"name"`
	Symptoms          string `json:"symptoms,omitempty"`
	Causes            string `json:"causes,omitempty"`
	Prevention        string `json:"prevention,omitempty"`
	OrganicTreatment  string `json:"organic_treatment,omitempty"`
	ChemicalTreatment string `json:"chemical_treatment,omitempty"`
	ImageURL          string `json:"image_url,omitempty"`
}

// Treatments are the ready-to-display suggestion lists, already split
// out of the semicolon-delimited storage fields.
type Treatments struct {
	Organic  []string `json:"organic"`
	Chemical []string `json:"chemical"`
}

// Result is the pipeline output handed to the caller. It is a value
// object: the caller owns it until it chooses to persist it.
type Result struct {
	Disease    Disease    `json:"disease"`
	Confidence float64    `json:"confidence"`
	Reasoning  string     `json:"reasoning,omitempty"`
	Treatments Treatments `json:"treatments"`
}

// Record is a persisted diagnosis. Created exactly once per accepted
// diagnosis, never updated, never deleted by the pipeline.
type Record struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id,omitempty"`
	CropID          int64     `json:"crop_id"`
	DiseaseID       int64     `json:"disease_id"`
	ImageURL        string    `json:"image_url,omitempty"`
	ConfidenceScore float64   `json:"confidence_score"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	IsOffline       bool      `json:"is_offline"`
}

// RecordView is a Record joined with the display fields the history
// screen needs.
type RecordView struct {
	Record
	Disease RecordDisease `json:"disease"`
	Crop    RecordCrop    `json:"crop"`
}

type RecordDisease struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Symptoms string `json:"symptoms,omitempty"`
}

type RecordCrop struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Mode selects the analysis strategy.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)
