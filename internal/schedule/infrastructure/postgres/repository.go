package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	schedule "flight-analytics/internal/schedule/domain"
)

// ScheduleRepository persists schedules in Postgres.
type ScheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository constructs a repository.
func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Save inserts the schedule and its records in one transaction.
func (r *ScheduleRepository) Save(ctx context.Context, s *schedule.Schedule) error {
	if r == nil || r.db == nil {
		return errors.New("schedule repo: nil db")
	}
	if s == nil {
		return schedule.ErrNilSchedule
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO flight_schedules (id, source, seed, flight_count, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET
	source = EXCLUDED.source, seed = EXCLUDED.seed,
	flight_count = EXCLUDED.flight_count, created_at = EXCLUDED.created_at`,
		s.ID(), string(s.Source()), s.Seed(), s.Len(), s.CreatedAt())
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM flight_schedule_records WHERE schedule_id = $1`, s.ID()); err != nil {
		_ = tx.Rollback()
		return err
	}
	for i, rec := range s.Records() {
		_, err := tx.ExecContext(ctx, `
INSERT INTO flight_schedule_records (
	schedule_id, position, carrier, destination, scheduled_time, delay_hours,
	manufacturer, flight_status, equipment_status, actual_time
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			s.ID(), i, rec.Carrier, rec.Destination, rec.ScheduledTime, rec.DelayHours,
			string(rec.Manufacturer), string(rec.FlightStatus), string(rec.EquipmentStatus), rec.ActualTime)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Get loads a schedule with its records.
func (r *ScheduleRepository) Get(ctx context.Context, id string) (*schedule.Schedule, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("schedule repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, source, seed, flight_count, created_at
FROM flight_schedules
WHERE id = $1`, id)
	header, err := scanHeader(row)
	if err != nil {
		return nil, err
	}
	return r.loadRecords(ctx, header)
}

// Latest loads the most recently created schedule.
func (r *ScheduleRepository) Latest(ctx context.Context) (*schedule.Schedule, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("schedule repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, source, seed, flight_count, created_at
FROM flight_schedules
ORDER BY created_at DESC, id DESC
LIMIT 1`)
	header, err := scanHeader(row)
	if err != nil {
		return nil, err
	}
	return r.loadRecords(ctx, header)
}

// List returns headers newest first.
func (r *ScheduleRepository) List(ctx context.Context, limit int) ([]schedule.Header, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("schedule repo: nil db")
	}
	if limit <= 0 {
		limit = 1000
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, source, seed, flight_count, created_at
FROM flight_schedules
ORDER BY created_at DESC, id DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []schedule.Header
	for rows.Next() {
		header, err := scanHeader(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, header)
	}
	return result, rows.Err()
}

func (r *ScheduleRepository) loadRecords(ctx context.Context, header schedule.Header) (*schedule.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT carrier, destination, scheduled_time, delay_hours,
	manufacturer, flight_status, equipment_status, actual_time
FROM flight_schedule_records
WHERE schedule_id = $1
ORDER BY position ASC`, header.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]schedule.FlightRecord, 0, header.Flights)
	for rows.Next() {
		var (
			rec                             schedule.FlightRecord
			manufacturer, status, equipment string
		)
		if err := rows.Scan(&rec.Carrier, &rec.Destination, &rec.ScheduledTime, &rec.DelayHours,
			&manufacturer, &status, &equipment, &rec.ActualTime); err != nil {
			return nil, err
		}
		rec.Manufacturer = schedule.Manufacturer(manufacturer)
		rec.FlightStatus = schedule.FlightStatus(status)
		rec.EquipmentStatus = schedule.EquipmentStatus(equipment)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return schedule.NewSchedule(header.ID, header.Source, header.Seed, header.CreatedAt, records)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHeader(row scanner) (schedule.Header, error) {
	var (
		header    schedule.Header
		source    string
		createdAt time.Time
	)
	if err := row.Scan(&header.ID, &source, &header.Seed, &header.Flights, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schedule.Header{}, schedule.ErrScheduleNotFound
		}
		return schedule.Header{}, err
	}
	header.Source = schedule.Source(source)
	header.CreatedAt = createdAt.UTC()
	return header, nil
}
