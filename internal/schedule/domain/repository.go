package schedule

import "context"

// Repository persists schedules.
type Repository interface {
	Save(ctx context.Context, s *Schedule) error
	// Get returns ErrScheduleNotFound when the id is unknown.
	Get(ctx context.Context, id string) (*Schedule, error)
	// Latest returns ErrScheduleNotFound when nothing is stored.
	Latest(ctx context.Context) (*Schedule, error)
	// List returns headers newest first, at most limit when limit > 0.
	List(ctx context.Context, limit int) ([]Header, error)
}
