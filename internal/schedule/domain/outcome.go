package schedule

// Outcome thresholds over a uniform [0,1) draw.
const (
	OnTimeThreshold  = 0.70
	DelayedThreshold = 0.90
)

// OutcomeSampler draws delay codes: 0 with p=0.70, 1 and 2 with p=0.10 each,
// 3 (cancelled) with p=0.10.
type OutcomeSampler struct {
	rng RandomSource
}

// NewOutcomeSampler constructs a sampler.
func NewOutcomeSampler(rng RandomSource) OutcomeSampler {
	return OutcomeSampler{rng: rng}
}

// Sample returns one delay code in {0,1,2,3}.
func (s OutcomeSampler) Sample() int {
	r := s.rng.Float64()
	switch {
	case r < OnTimeThreshold:
		return 0
	case r < DelayedThreshold:
		return 1 + s.rng.Intn(2)
	default:
		return CancelledDelay
	}
}
