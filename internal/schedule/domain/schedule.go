package schedule

import (
	"encoding/json"
	"time"
)

// Source tells how a schedule was produced.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceImported  Source = "imported"
)

// Schedule is an ordered, immutable day of flights.
// Identity: id. Rebuilt wholesale on each generate or import.
type Schedule struct {
	id        string
	source    Source
	seed      int64
	createdAt time.Time
	records   []FlightRecord
}

// Header summarizes a stored schedule without its records.
type Header struct {
	ID        string    `json:"id"`
	Source    Source    `json:"source"`
	Seed      int64     `json:"seed,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Flights   int       `json:"flights"`
}

// NewSchedule builds a schedule from already derived records. Seed is only
// meaningful for generated schedules.
func NewSchedule(id string, source Source, seed int64, createdAt time.Time, records []FlightRecord) (*Schedule, error) {
	if id == "" {
		return nil, ErrEmptyScheduleID
	}
	return &Schedule{
		id:        id,
		source:    source,
		seed:      seed,
		createdAt: createdAt.UTC(),
		records:   append([]FlightRecord(nil), records...),
	}, nil
}

// ID returns schedule identity.
func (s *Schedule) ID() string { return s.id }

// Source returns how the schedule was produced.
func (s *Schedule) Source() Source { return s.source }

// Seed returns the generation seed.
func (s *Schedule) Seed() int64 { return s.seed }

// CreatedAt returns the build time.
func (s *Schedule) CreatedAt() time.Time { return s.createdAt }

// Len returns the number of flights.
func (s *Schedule) Len() int { return len(s.records) }

// IsEmpty reports the "no data" state.
func (s *Schedule) IsEmpty() bool { return len(s.records) == 0 }

// Records returns a copy of the flights in order.
func (s *Schedule) Records() []FlightRecord {
	return append([]FlightRecord(nil), s.records...)
}

// Header returns the schedule header.
func (s *Schedule) Header() Header {
	return Header{
		ID:        s.id,
		Source:    s.source,
		Seed:      s.seed,
		CreatedAt: s.createdAt,
		Flights:   len(s.records),
	}
}

type scheduleJSON struct {
	Header
	Records []FlightRecord `json:"records"`
}

// MarshalJSON encodes the header and records.
func (s *Schedule) MarshalJSON() ([]byte, error) {
	records := s.records
	if records == nil {
		records = []FlightRecord{}
	}
	return json.Marshal(scheduleJSON{Header: s.Header(), Records: records})
}

// UnmarshalJSON restores a schedule encoded by MarshalJSON.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	var raw scheduleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	restored, err := NewSchedule(raw.ID, raw.Source, raw.Seed, raw.CreatedAt, raw.Records)
	if err != nil {
		return err
	}
	*s = *restored
	return nil
}
