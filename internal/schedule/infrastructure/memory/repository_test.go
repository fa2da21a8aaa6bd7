package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	schedule "flight-analytics/internal/schedule/domain"
)

func mustSchedule(t *testing.T, id string) *schedule.Schedule {
	t.Helper()
	s, err := schedule.NewSchedule(id, schedule.SourceImported, 0, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	if err != nil {
		t.Fatalf("new schedule: %v", err)
	}
	return s
}

func TestScheduleRepository(t *testing.T) {
	repo := NewScheduleRepository()
	ctx := context.Background()

	if _, err := repo.Latest(ctx); !errors.Is(err, schedule.ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
	if err := repo.Save(ctx, nil); !errors.Is(err, schedule.ErrNilSchedule) {
		t.Fatalf("expected ErrNilSchedule, got %v", err)
	}

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Save(ctx, mustSchedule(t, id)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	// replacing keeps the original position
	if err := repo.Save(ctx, mustSchedule(t, "a")); err != nil {
		t.Fatalf("save: %v", err)
	}

	latest, err := repo.Latest(ctx)
	if err != nil || latest.ID() != "c" {
		t.Fatalf("unexpected latest: %v %v", latest, err)
	}
	headers, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(headers) != 2 || headers[0].ID != "c" || headers[1].ID != "b" {
		t.Fatalf("unexpected list: %+v", headers)
	}
	if _, err := repo.Get(ctx, "zzz"); !errors.Is(err, schedule.ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
}
