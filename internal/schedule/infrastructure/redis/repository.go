package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	schedule "flight-analytics/internal/schedule/domain"
)

const defaultKeyPrefix = "flight:schedules:"

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects and pings Redis.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// ScheduleRepository stores each schedule as JSON plus a sorted-set index by creation time.
type ScheduleRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RepositoryOption configures the repository.
type RepositoryOption func(*ScheduleRepository)

// WithKeyPrefix overrides the key prefix.
func WithKeyPrefix(prefix string) RepositoryOption {
	return func(r *ScheduleRepository) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithTTL expires stored schedules after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) RepositoryOption {
	return func(r *ScheduleRepository) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// NewScheduleRepository constructs a repository.
func NewScheduleRepository(client *redis.Client, opts ...RepositoryOption) *ScheduleRepository {
	repo := &ScheduleRepository{client: client, prefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

func (r *ScheduleRepository) key(id string) string { return r.prefix + id }

func (r *ScheduleRepository) indexKey() string { return r.prefix + "index" }

// Save writes the schedule and indexes it.
func (r *ScheduleRepository) Save(ctx context.Context, s *schedule.Schedule) error {
	if r == nil || r.client == nil {
		return errors.New("schedule redis repo: nil client")
	}
	if s == nil {
		return schedule.ErrNilSchedule
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(s.ID()), payload, r.ttl)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{
			Score:  float64(s.CreatedAt().UnixNano()),
			Member: s.ID(),
		})
		return nil
	})
	return err
}

// Get loads a schedule by id.
func (r *ScheduleRepository) Get(ctx context.Context, id string) (*schedule.Schedule, error) {
	if r == nil || r.client == nil {
		return nil, errors.New("schedule redis repo: nil client")
	}
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, schedule.ErrScheduleNotFound
		}
		return nil, err
	}
	var s schedule.Schedule
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Latest returns the newest schedule still present.
func (r *ScheduleRepository) Latest(ctx context.Context) (*schedule.Schedule, error) {
	var latest *schedule.Schedule
	err := r.walk(ctx, 1, func(s *schedule.Schedule) bool {
		latest = s
		return false
	})
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, schedule.ErrScheduleNotFound
	}
	return latest, nil
}

// List returns headers newest first.
func (r *ScheduleRepository) List(ctx context.Context, limit int) ([]schedule.Header, error) {
	pageSize := limit
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	var result []schedule.Header
	err := r.walk(ctx, pageSize, func(s *schedule.Schedule) bool {
		result = append(result, s.Header())
		return limit <= 0 || len(result) < limit
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

const defaultPageSize = 100

// walk visits schedules newest first, reading the index pageSize members at a
// time, until visit returns false. Index members whose schedule expired are
// pruned.
func (r *ScheduleRepository) walk(ctx context.Context, pageSize int, visit func(*schedule.Schedule) bool) error {
	if r == nil || r.client == nil {
		return errors.New("schedule redis repo: nil client")
	}
	var start int64
	for {
		ids, err := r.client.ZRevRange(ctx, r.indexKey(), start, start+int64(pageSize)-1).Result()
		if err != nil {
			return err
		}
		pruned := 0
		for _, id := range ids {
			s, err := r.Get(ctx, id)
			if errors.Is(err, schedule.ErrScheduleNotFound) {
				if err := r.client.ZRem(ctx, r.indexKey(), id).Err(); err != nil {
					return err
				}
				pruned++
				continue
			}
			if err != nil {
				return err
			}
			if !visit(s) {
				return nil
			}
		}
		if len(ids) < pageSize {
			return nil
		}
		// pruned members no longer occupy a rank
		start += int64(len(ids) - pruned)
	}
}
