package integration_test

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	schedule "flight-analytics/internal/schedule/domain"
	scheduleredis "flight-analytics/internal/schedule/infrastructure/redis"
)

func TestRedisRepository_SaveGetLatestList(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	ctx := context.Background()

	client, err := scheduleredis.NewClient(ctx, scheduleredis.Config{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: db})
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer client.Close()

	prefix := "flight:test:" + uuid.NewString() + ":"
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			_ = client.Del(ctx, keys...).Err()
		}
	})
	repo := scheduleredis.NewScheduleRepository(client, scheduleredis.WithKeyPrefix(prefix))

	if _, err := repo.Latest(ctx); !errors.Is(err, schedule.ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound on empty store, got %v", err)
	}

	d := schedule.NewDeriver(schedule.DefaultCatalog())
	rec, err := d.Derive("Delta", "España", "06:00", 1)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	base := time.Date(2026, time.February, 1, 6, 0, 0, 0, time.UTC)
	older, _ := schedule.NewSchedule("older", schedule.SourceGenerated, 11, base, []schedule.FlightRecord{rec})
	newer, _ := schedule.NewSchedule("newer", schedule.SourceImported, 0, base.Add(time.Minute), nil)

	for _, s := range []*schedule.Schedule{older, newer} {
		if err := repo.Save(ctx, s); err != nil {
			t.Fatalf("save %s: %v", s.ID(), err)
		}
	}

	got, err := repo.Get(ctx, "older")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Seed() != 11 || !reflect.DeepEqual(got.Records(), older.Records()) {
		t.Fatalf("unexpected reload: %+v", got.Header())
	}

	latest, err := repo.Latest(ctx)
	if err != nil || latest.ID() != "newer" || !latest.IsEmpty() {
		t.Fatalf("unexpected latest: %v %v", latest, err)
	}

	// an index member whose payload expired is skipped and pruned
	if err := client.Del(ctx, prefix+"newer").Err(); err != nil {
		t.Fatalf("del: %v", err)
	}
	headers, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(headers) != 1 || headers[0].ID != "older" {
		t.Fatalf("unexpected list: %+v", headers)
	}

	// a limited list keeps paging past expired members until it is full
	for i, id := range []string{"p1", "p2", "p3"} {
		s, _ := schedule.NewSchedule(id, schedule.SourceImported, 0, base.Add(time.Duration(i+2)*time.Minute), nil)
		if err := repo.Save(ctx, s); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	if err := client.Del(ctx, prefix+"p3", prefix+"p2").Err(); err != nil {
		t.Fatalf("del: %v", err)
	}
	headers, err = repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(headers) != 2 || headers[0].ID != "p1" || headers[1].ID != "older" {
		t.Fatalf("unexpected limited list: %+v", headers)
	}
	if n, err := client.ZCard(ctx, prefix+"index").Result(); err != nil || n != 2 {
		t.Fatalf("expected pruned index of 2, got %d %v", n, err)
	}
}
