package application

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"flight-analytics/internal/observability/metrics"
	schedule "flight-analytics/internal/schedule/domain"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ScheduleService handles schedule generation, import and lookup.
type ScheduleService struct {
	repo         schedule.Repository
	catalog      schedule.Catalog
	deriver      *schedule.Deriver
	clock        Clock
	logger       *log.Logger
	defaultSeed  int64
	historyLimit int
	newID        func() string
}

// Option configures the service.
type Option func(*ScheduleService)

// WithClock overrides the clock.
func WithClock(clock Clock) Option {
	return func(s *ScheduleService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithDefaultSeed fixes the seed used when a request carries none.
func WithDefaultSeed(seed int64) Option {
	return func(s *ScheduleService) {
		s.defaultSeed = seed
	}
}

// WithHistoryLimit caps List results.
func WithHistoryLimit(limit int) Option {
	return func(s *ScheduleService) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// WithIDGenerator overrides schedule id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *ScheduleService) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewScheduleService constructs the service.
func NewScheduleService(repo schedule.Repository, catalog schedule.Catalog, logger *log.Logger, opts ...Option) (*ScheduleService, error) {
	if repo == nil {
		return nil, errors.New("schedule service: nil repository")
	}
	if catalog.IsEmpty() {
		return nil, schedule.ErrEmptyCatalog
	}
	s := &ScheduleService{
		repo:         repo,
		catalog:      catalog,
		deriver:      schedule.NewDeriver(catalog),
		clock:        SystemClock{},
		logger:       logger,
		historyLimit: 50,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Generate builds and stores a new simulated day. A nil seed falls back to the
// configured default seed, then to a time-based seed; the seed used is recorded.
func (s *ScheduleService) Generate(ctx context.Context, seed *int64) (*schedule.Schedule, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveGenerate(result, time.Since(start))
	}()

	used := s.resolveSeed(seed)
	gen, err := schedule.NewGenerator(s.catalog, rand.New(rand.NewSource(used)))
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	built, err := schedule.NewSchedule(s.newID(), schedule.SourceGenerated, used, s.clock.Now(), gen.Generate())
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if err := s.repo.Save(ctx, built); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	observeOutcomes(built)
	s.logf("schedule generated: id=%s seed=%d flights=%d", built.ID(), used, built.Len())
	return built, nil
}

// Import derives and stores externally supplied rows. Any invalid row rejects
// the whole batch with a *schedule.BatchError.
func (s *ScheduleService) Import(ctx context.Context, format string, rows []schedule.RawRow) (*schedule.Schedule, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveImport(format, result, time.Since(start))
	}()

	records, err := s.deriver.Import(rows)
	if err != nil {
		result = metrics.ResultError
		var batch *schedule.BatchError
		if errors.As(err, &batch) {
			for _, row := range batch.Rows {
				metrics.IncImportRowError(row.Field)
			}
			s.logf("schedule import rejected: format=%s rows=%d invalid=%d", format, len(rows), len(batch.Rows))
		}
		return nil, err
	}
	built, err := schedule.NewSchedule(s.newID(), schedule.SourceImported, 0, s.clock.Now(), records)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if err := s.repo.Save(ctx, built); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	observeOutcomes(built)
	s.logf("schedule imported: id=%s format=%s flights=%d", built.ID(), format, built.Len())
	return built, nil
}

// Get returns a stored schedule.
func (s *ScheduleService) Get(ctx context.Context, id string) (*schedule.Schedule, error) {
	if id == "" {
		return nil, errors.New("schedule service: id required")
	}
	return s.repo.Get(ctx, id)
}

// Latest returns the most recently stored schedule.
func (s *ScheduleService) Latest(ctx context.Context) (*schedule.Schedule, error) {
	return s.repo.Latest(ctx)
}

// List returns stored schedule headers newest first.
func (s *ScheduleService) List(ctx context.Context, limit int) ([]schedule.Header, error) {
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}
	return s.repo.List(ctx, limit)
}

// Catalog returns the catalog in use.
func (s *ScheduleService) Catalog() schedule.Catalog { return s.catalog }

func (s *ScheduleService) resolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	if s.defaultSeed != 0 {
		return s.defaultSeed
	}
	return s.clock.Now().UnixNano()
}

func (s *ScheduleService) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func observeOutcomes(s *schedule.Schedule) {
	metrics.SetScheduleFlights(string(s.Source()), s.Len())
	counts := make(map[schedule.FlightStatus]int)
	for _, r := range s.Records() {
		counts[r.FlightStatus]++
	}
	for status, count := range counts {
		metrics.AddFlightOutcome(string(status), count)
	}
}
