package schedule

import (
	"errors"
	"testing"
)

func TestDerive_OnTimeRegionDestination(t *testing.T) {
	d := NewDeriver(DefaultCatalog())
	got, err := d.Derive("Delta", "españa", "09:03", 0)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	want := FlightRecord{
		Carrier:         "Delta",
		Destination:     "España",
		ScheduledTime:   "09:03",
		DelayHours:      0,
		Manufacturer:    ManufacturerBoeing,
		FlightStatus:    FlightStatusOnTime,
		EquipmentStatus: EquipmentOperational,
		ActualTime:      "09:03",
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestDerive_DelayWrapsPastMidnight(t *testing.T) {
	d := NewDeriver(DefaultCatalog())
	got, err := d.Derive("Avianca", "Chile", "23:30", 2)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if got.ActualTime != "01:30" {
		t.Fatalf("expected 01:30, got %s", got.ActualTime)
	}
	if got.FlightStatus != FlightStatusDelayed || got.EquipmentStatus != EquipmentOperational {
		t.Fatalf("unexpected status %s/%s", got.FlightStatus, got.EquipmentStatus)
	}
	if got.Manufacturer != ManufacturerAirbus {
		t.Fatalf("expected Airbus, got %s", got.Manufacturer)
	}
}

func TestDerive_StatusRules(t *testing.T) {
	d := NewDeriver(DefaultCatalog())
	cases := []struct {
		delay     int
		status    FlightStatus
		equipment EquipmentStatus
		actual    string
	}{
		{0, FlightStatusOnTime, EquipmentOperational, "10:15"},
		{1, FlightStatusDelayed, EquipmentOperational, "11:15"},
		{2, FlightStatusDelayed, EquipmentOperational, "12:15"},
		{3, FlightStatusCancelled, EquipmentNonOperational, ""},
		{7, FlightStatusCancelled, EquipmentNonOperational, ""},
	}
	for _, tc := range cases {
		got, err := d.Derive("KLM", "Cuba", "10:15", tc.delay)
		if err != nil {
			t.Fatalf("delay %d: %v", tc.delay, err)
		}
		if got.FlightStatus != tc.status || got.EquipmentStatus != tc.equipment || got.ActualTime != tc.actual {
			t.Fatalf("delay %d: got %s/%s/%q", tc.delay, got.FlightStatus, got.EquipmentStatus, got.ActualTime)
		}
	}
}

func TestDerive_Idempotent(t *testing.T) {
	d := NewDeriver(DefaultCatalog())
	first, err := d.Derive("Iberia Airlines", "PAÍSES BAJOS", "7:05", 1)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	second, err := d.Derive("Iberia Airlines", "PAÍSES BAJOS", "7:05", 1)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical records, got %+v and %+v", first, second)
	}
	if first.Destination != "Países Bajos" || first.ScheduledTime != "07:05" {
		t.Fatalf("unexpected normalization: %+v", first)
	}
}

func TestDerive_Errors(t *testing.T) {
	d := NewDeriver(DefaultCatalog())
	_, err := d.Derive("Delta", "Chile", "25:00", 0)
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	_, err = d.Derive("Delta", "Chile", "10:00", -1)
	if !errors.Is(err, ErrNegativeDelay) {
		t.Fatalf("expected ErrNegativeDelay, got %v", err)
	}
}

func TestImport_RejectsBatchWithRowContext(t *testing.T) {
	d := NewDeriver(DefaultCatalog())
	rows := []RawRow{
		{Line: 2, Carrier: "Delta", Destination: "Chile", ScheduledTime: "10:00", DelayHours: "0"},
		{Line: 3, Carrier: "KLM", Destination: "Cuba", ScheduledTime: "11:00", DelayHours: "abc"},
		{Line: 4, Carrier: "", Destination: "Cuba", ScheduledTime: "12:00", DelayHours: "1"},
		{Line: 5, Carrier: "KLM", Destination: "Cuba", ScheduledTime: "99:00", DelayHours: "1"},
	}
	records, err := d.Import(rows)
	if records != nil {
		t.Fatalf("expected no records, got %d", len(records))
	}
	var batch *BatchError
	if !errors.As(err, &batch) {
		t.Fatalf("expected BatchError, got %v", err)
	}
	if len(batch.Rows) != 3 {
		t.Fatalf("expected 3 invalid rows, got %d", len(batch.Rows))
	}
	if batch.Rows[0].Line != 3 || batch.Rows[0].Field != ColumnDelayHours || !errors.Is(batch.Rows[0], ErrInvalidDelay) {
		t.Fatalf("unexpected first row error: %v", batch.Rows[0])
	}
	if batch.Rows[1].Line != 4 || !errors.Is(batch.Rows[1], ErrMissingField) {
		t.Fatalf("unexpected second row error: %v", batch.Rows[1])
	}
	var ferr *FormatError
	if batch.Rows[2].Line != 5 || !errors.As(batch.Rows[2], &ferr) {
		t.Fatalf("unexpected third row error: %v", batch.Rows[2])
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Line != 3 {
		t.Fatalf("expected first ValidationError through errors.As, got %v", verr)
	}
}

func TestImport_NoCollisionFiltering(t *testing.T) {
	d := NewDeriver(DefaultCatalog())
	rows := []RawRow{
		{Carrier: "Delta", Destination: "chile", ScheduledTime: "10:00", DelayHours: "0"},
		{Carrier: "KLM", Destination: "francia", ScheduledTime: "10:00", DelayHours: "2.0"},
	}
	records, err := d.Import(rows)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].DelayHours != 2 || records[1].Manufacturer != ManufacturerBoeing || records[1].ActualTime != "12:00" {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestParseDelayHours(t *testing.T) {
	for in, want := range map[string]int{"0": 0, " 2 ": 2, "3": 3, "1.0": 1} {
		got, err := ParseDelayHours(in)
		if err != nil || got != want {
			t.Fatalf("parse %q: got %d, %v", in, got, err)
		}
	}
	for _, in := range []string{"abc", "1.5", "", "NaN"} {
		if _, err := ParseDelayHours(in); !errors.Is(err, ErrInvalidDelay) {
			t.Fatalf("parse %q: expected ErrInvalidDelay, got %v", in, err)
		}
	}
	if _, err := ParseDelayHours("-2"); !errors.Is(err, ErrNegativeDelay) {
		t.Fatalf("expected ErrNegativeDelay, got %v", err)
	}
}

func TestFlightRecordValuesFollowColumns(t *testing.T) {
	d := NewDeriver(DefaultCatalog())
	record, err := d.Derive("Delta", "Chile", "09:00", 3)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	values := record.Values()
	if len(values) != len(Columns) {
		t.Fatalf("expected %d values, got %d", len(Columns), len(values))
	}
	want := []string{"Delta", "Chile", "09:00", "3", "Airbus", "Cancelled", "NonOperational", ""}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("column %s: expected %q, got %q", Columns[i], want[i], values[i])
		}
	}
}
