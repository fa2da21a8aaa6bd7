package memory

import (
	"context"
	"sync"

	schedule "flight-analytics/internal/schedule/domain"
)

// ScheduleRepository is an in-memory repository for schedules.
type ScheduleRepository struct {
	mu    sync.RWMutex
	data  map[string]*schedule.Schedule
	order []string
}

// NewScheduleRepository constructs a repository.
func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{data: make(map[string]*schedule.Schedule)}
}

// Save stores a schedule. Saving an existing id replaces it in place.
func (r *ScheduleRepository) Save(ctx context.Context, s *schedule.Schedule) error {
	_ = ctx
	if s == nil {
		return schedule.ErrNilSchedule
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[s.ID()]; !ok {
		r.order = append(r.order, s.ID())
	}
	r.data[s.ID()] = s
	return nil
}

// Get loads a schedule by id.
func (r *ScheduleRepository) Get(ctx context.Context, id string) (*schedule.Schedule, error) {
	_ = ctx
	r.mu.RLock()
	s := r.data[id]
	r.mu.RUnlock()
	if s == nil {
		return nil, schedule.ErrScheduleNotFound
	}
	return s, nil
}

// Latest returns the last saved schedule.
func (r *ScheduleRepository) Latest(ctx context.Context) (*schedule.Schedule, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return nil, schedule.ErrScheduleNotFound
	}
	return r.data[r.order[len(r.order)-1]], nil
}

// List returns headers newest first.
func (r *ScheduleRepository) List(ctx context.Context, limit int) ([]schedule.Header, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]schedule.Header, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if limit > 0 && len(result) == limit {
			break
		}
		result = append(result, r.data[r.order[i]].Header())
	}
	return result, nil
}
