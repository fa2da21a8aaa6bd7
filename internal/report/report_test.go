package report

import (
	"bytes"
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"

	schedule "flight-analytics/internal/schedule/domain"
	"flight-analytics/internal/schedule/infrastructure/spreadsheet"
)

func derive(t *testing.T, d *schedule.Deriver, carrier, destination, at string, delay int) schedule.FlightRecord {
	t.Helper()
	rec, err := d.Derive(carrier, destination, at, delay)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	return rec
}

func sampleRecords(t *testing.T) []schedule.FlightRecord {
	d := schedule.NewDeriver(schedule.DefaultCatalog())
	return []schedule.FlightRecord{
		derive(t, d, "Delta", "España", "06:00", 0),
		derive(t, d, "KLM", "Chile", "06:30", 1),
		derive(t, d, "Avianca", "Chile", "07:10", 2),
		derive(t, d, "Iberia Airlines", "Cuba", "23:30", 3),
		derive(t, d, "Copa Airlines", "España", "12:00", 0),
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleRecords(t))

	if s.Empty || s.Total != 5 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	wantStatus := []Count{
		{Label: "OnTime", Count: 2, Percent: 40},
		{Label: "Delayed", Count: 2, Percent: 40},
		{Label: "Cancelled", Count: 1, Percent: 20},
	}
	if !reflect.DeepEqual(s.ByFlightStatus, wantStatus) {
		t.Fatalf("flight status: %+v", s.ByFlightStatus)
	}
	if s.ByEquipmentStatus[0].Count != 4 || s.ByEquipmentStatus[1].Count != 1 {
		t.Fatalf("equipment status: %+v", s.ByEquipmentStatus)
	}
	if s.ByManufacturer[0].Label != "Airbus" || s.ByManufacturer[0].Count != 3 || s.ByManufacturer[1].Count != 2 {
		t.Fatalf("manufacturer: %+v", s.ByManufacturer)
	}

	labels := make([]string, 0, len(s.ByDestination))
	for _, c := range s.ByDestination {
		labels = append(labels, c.Label)
	}
	if strings.Join(labels, ",") != "Cuba,Chile,España" {
		t.Fatalf("destination order: %v", labels)
	}

	if s.ByHour[6] != 2 || s.ByHour[7] != 1 || s.ByHour[12] != 1 || s.ByHour[23] != 1 {
		t.Fatalf("by hour: %v", s.ByHour)
	}
	if len(s.DelayHistogram) != 4 || s.DelayHistogram[0].Label != "0" || s.DelayHistogram[0].Count != 2 {
		t.Fatalf("histogram: %+v", s.DelayHistogram)
	}
	if len(s.ManufacturerStatus) != 6 {
		t.Fatalf("expected 6 crosstab cells, got %d", len(s.ManufacturerStatus))
	}
	if len(s.DelayedTimes) != 2 || s.DelayedTimes[0].Scheduled != 6.5 || s.DelayedTimes[0].Actual != 7.5 {
		t.Fatalf("delayed times: %+v", s.DelayedTimes)
	}

	if math.Abs(s.MeanDelay-1.2) > 1e-9 || s.MedianDelay != 1 || s.ModeDelay != 0 {
		t.Fatalf("central tendency: mean=%v median=%v mode=%v", s.MeanDelay, s.MedianDelay, s.ModeDelay)
	}
	if s.OnTimeRate != 0.4 || s.CancelledRate != 0.2 {
		t.Fatalf("rates: %+v", s)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if !s.Empty || s.Total != 0 {
		t.Fatalf("expected empty summary, got %+v", s)
	}
	if s.MeanDelay != 0 || s.OnTimeRate != 0 || len(s.ByDestination) != 0 {
		t.Fatalf("expected zeroed aggregates, got %+v", s)
	}
}

func generated(t *testing.T) *schedule.Schedule {
	t.Helper()
	gen, err := schedule.NewGenerator(schedule.DefaultCatalog(), rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	s, err := schedule.NewSchedule("sched-1", schedule.SourceGenerated, 7, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), gen.Generate())
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	return s
}

func TestBuildXLSXRoundTripsThroughImport(t *testing.T) {
	s := generated(t)
	data, err := BuildXLSX(s)
	if err != nil {
		t.Fatalf("build xlsx: %v", err)
	}
	rows, err := spreadsheet.ReadXLSX(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("read xlsx: %v", err)
	}
	records, err := schedule.NewDeriver(schedule.DefaultCatalog()).Import(rows)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !reflect.DeepEqual(records, s.Records()) {
		t.Fatalf("round trip mismatch: got %d records, want %d", len(records), s.Len())
	}
}

func TestBuildCSVRoundTripsThroughImport(t *testing.T) {
	s := generated(t)
	data, err := BuildCSV(s.Records())
	if err != nil {
		t.Fatalf("build csv: %v", err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	if header != strings.Join(schedule.Columns, ",") {
		t.Fatalf("unexpected header %q", header)
	}
	rows, err := spreadsheet.ReadCSV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	records, err := schedule.NewDeriver(schedule.DefaultCatalog()).Import(rows)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !reflect.DeepEqual(records, s.Records()) {
		t.Fatal("csv round trip mismatch")
	}
}

func TestBuildPDF(t *testing.T) {
	data, err := BuildPDF(generated(t))
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected PDF header")
	}

	empty, err := schedule.NewSchedule("empty", schedule.SourceImported, 0, time.Now(), nil)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if _, err := BuildPDF(empty); err != nil {
		t.Fatalf("build empty pdf: %v", err)
	}
	if _, err := BuildPDF(nil); err == nil {
		t.Fatal("expected error for nil schedule")
	}
}
