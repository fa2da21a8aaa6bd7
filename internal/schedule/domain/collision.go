package schedule

// CollisionFilter keeps scheduled and actual times unique across a generated day.
type CollisionFilter struct {
	used map[string]struct{}
}

// NewCollisionFilter constructs an empty filter.
func NewCollisionFilter() *CollisionFilter {
	return &CollisionFilter{used: make(map[string]struct{})}
}

// Accept admits the pair when neither time is already used, then marks both.
// An empty actual time (cancelled flight) only checks the scheduled time.
func (f *CollisionFilter) Accept(scheduled, actual string) bool {
	if f.Used(scheduled) {
		return false
	}
	if actual != "" && f.Used(actual) {
		return false
	}
	f.used[scheduled] = struct{}{}
	if actual != "" {
		f.used[actual] = struct{}{}
	}
	return true
}

// Used reports whether a time string is taken.
func (f *CollisionFilter) Used(at string) bool {
	_, ok := f.used[at]
	return ok
}

// Len returns the number of taken time strings.
func (f *CollisionFilter) Len() int { return len(f.used) }
