package schedule

// RandomSource is the seedable randomness used by generation. *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

const (
	// MinSlotGap is the smallest spacing between consecutive slots, in minutes.
	MinSlotGap = 2
	// MaxSlotGap is the largest spacing between consecutive slots, in minutes.
	MaxSlotGap = 8
)

// SlotAllocator yields strictly increasing departure slots across one day.
type SlotAllocator struct {
	rng   RandomSource
	clock int
	done  bool
}

// NewSlotAllocator starts a clock at 00:00.
func NewSlotAllocator(rng RandomSource) *SlotAllocator {
	return &SlotAllocator{rng: rng}
}

// Next advances the clock by a random gap. It reports false once the advanced
// clock passes 23:59; that slot is discarded and the sequence stays finished.
func (a *SlotAllocator) Next() (TimeOfDay, bool) {
	if a.done {
		return 0, false
	}
	next := a.clock + MinSlotGap + a.rng.Intn(MaxSlotGap-MinSlotGap+1)
	if next > int(EndOfDay) {
		a.done = true
		return 0, false
	}
	a.clock = next
	return TimeOfDay(next), true
}
