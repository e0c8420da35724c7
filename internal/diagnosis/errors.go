package diagnosis

import "errors"

// Error taxonomy for the pipeline. Handlers map these onto HTTP
// statuses with errors.Is; wrap with fmt.Errorf("...: %w", Err...) to
// add detail without losing the class.
var (
	// ErrValidation: missing or malformed input. Client fault, no retry.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound: unknown crop or disease.
	ErrNotFound = errors.New("not found")

	// ErrNoCandidates: the crop exists but has no diseases configured.
	// Surfaced distinctly from ErrNotFound so data gaps are visible.
	ErrNoCandidates = errors.New("no candidate diseases for crop")

	// ErrExternal: the vision service errored, timed out or was
	// unreachable. Terminal for the request; there is no silent
	// fallback to offline analysis.
	ErrExternal = errors.New("vision service failed")
)
