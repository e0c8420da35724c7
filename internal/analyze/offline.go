package analyze

import (
	"context"
	"math/rand"
	"sync"
)

// Offline is a deliberate stand-in for an on-device model, not a real
// inference. It picks one candidate uniformly and samples a confidence
// in [0.5, 0.8). The contract is the ranges, not the RNG sequence.
type Offline struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewOffline seeds the stand-in. Tests pass a fixed seed for
// deterministic picks.
func NewOffline(seed int64) *Offline {
	return &Offline{rng: rand.New(rand.NewSource(seed))}
}

func (o *Offline) Name() string { return "offline" }

func (o *Offline) Analyze(ctx context.Context, req Request) (RawAnalysis, error) {
	if err := ValidateRequest(req); err != nil {
		return RawAnalysis{}, err
	}

	o.mu.Lock()
	idx := o.rng.Intn(len(req.Candidates))
	conf := 0.5 + o.rng.Float64()*0.3
	o.mu.Unlock()

	picked := req.Candidates[idx]
	return RawAnalysis{Picked: &picked, Confidence: conf}, nil
}
