package schedule

import (
	"strconv"
	"strings"
)

// Manufacturer classifies the aircraft family flown on a route.
type Manufacturer string

const (
	// ManufacturerAirbus is class A, flown outside the region set.
	ManufacturerAirbus Manufacturer = "Airbus"
	// ManufacturerBoeing is class B, flown to region set destinations.
	ManufacturerBoeing Manufacturer = "Boeing"
)

// FlightStatus is the operational outcome of a flight.
type FlightStatus string

const (
	FlightStatusOnTime    FlightStatus = "OnTime"
	FlightStatusDelayed   FlightStatus = "Delayed"
	FlightStatusCancelled FlightStatus = "Cancelled"
)

// EquipmentStatus reports whether the aircraft is serviceable.
type EquipmentStatus string

const (
	EquipmentOperational    EquipmentStatus = "Operational"
	EquipmentNonOperational EquipmentStatus = "NonOperational"
)

const (
	// MaxOperationalDelay is the largest delay that still flies.
	MaxOperationalDelay = 2
	// CancelledDelay is the outcome code used for cancellations.
	CancelledDelay = 3
)

// Column headers of the tabular record schema, in output order.
const (
	ColumnCarrier         = "Aerolínea"
	ColumnDestination     = "Destino"
	ColumnScheduledTime   = "H. Prog"
	ColumnDelayHours      = "Rev (h)"
	ColumnManufacturer    = "Fabricante"
	ColumnFlightStatus    = "Est. Vuelo"
	ColumnEquipmentStatus = "Est. Avion"
	ColumnActualTime      = "Nueva H."
)

// Columns is the fixed column order of the record table.
var Columns = []string{
	ColumnCarrier,
	ColumnDestination,
	ColumnScheduledTime,
	ColumnDelayHours,
	ColumnManufacturer,
	ColumnFlightStatus,
	ColumnEquipmentStatus,
	ColumnActualTime,
}

// FlightRecord is one fully derived flight. Build it with Deriver.Derive.
type FlightRecord struct {
	Carrier         string          `json:"carrier"`
	Destination     string          `json:"destination"`
	ScheduledTime   string          `json:"scheduled_time"`
	DelayHours      int             `json:"delay_hours"`
	Manufacturer    Manufacturer    `json:"manufacturer"`
	FlightStatus    FlightStatus    `json:"flight_status"`
	EquipmentStatus EquipmentStatus `json:"equipment_status"`
	ActualTime      string          `json:"actual_time"`
}

// Values renders the record in Columns order.
func (r FlightRecord) Values() []string {
	return []string{
		r.Carrier,
		r.Destination,
		r.ScheduledTime,
		strconv.Itoa(r.DelayHours),
		string(r.Manufacturer),
		string(r.FlightStatus),
		string(r.EquipmentStatus),
		r.ActualTime,
	}
}

// ClassifyDelay maps a delay outcome to flight and equipment status.
func ClassifyDelay(delayHours int) (FlightStatus, EquipmentStatus) {
	switch {
	case delayHours == 0:
		return FlightStatusOnTime, EquipmentOperational
	case delayHours <= MaxOperationalDelay:
		return FlightStatusDelayed, EquipmentOperational
	default:
		return FlightStatusCancelled, EquipmentNonOperational
	}
}

// Deriver turns raw flight tuples into records.
type Deriver struct {
	catalog Catalog
}

// NewDeriver constructs a deriver over a catalog.
func NewDeriver(catalog Catalog) *Deriver {
	return &Deriver{catalog: catalog}
}

// Derive validates the scheduled time and computes every derived attribute.
func (d *Deriver) Derive(carrier, destination, scheduledTime string, delayHours int) (FlightRecord, error) {
	at, err := ParseTimeOfDay(scheduledTime)
	if err != nil {
		return FlightRecord{}, err
	}
	if delayHours < 0 {
		return FlightRecord{}, ErrNegativeDelay
	}
	return d.derive(carrier, destination, at, delayHours), nil
}

func (d *Deriver) derive(carrier, destination string, at TimeOfDay, delayHours int) FlightRecord {
	destination = TitleCase(destination)
	manufacturer := ManufacturerAirbus
	if d.catalog.InRegion(destination) {
		manufacturer = ManufacturerBoeing
	}
	flightStatus, equipmentStatus := ClassifyDelay(delayHours)
	actual := ""
	if delayHours <= MaxOperationalDelay {
		actual = at.AddHours(delayHours).String()
	}
	return FlightRecord{
		Carrier:         strings.TrimSpace(carrier),
		Destination:     destination,
		ScheduledTime:   at.String(),
		DelayHours:      delayHours,
		Manufacturer:    manufacturer,
		FlightStatus:    flightStatus,
		EquipmentStatus: equipmentStatus,
		ActualTime:      actual,
	}
}

// RawRow is one externally supplied flight before derivation.
// Line is the source row number used in error reports.
type RawRow struct {
	Line          int
	Carrier       string
	Destination   string
	ScheduledTime string
	DelayHours    string
}

// Import derives every row. Any invalid row rejects the whole batch with a
// *BatchError listing each offending row.
func (d *Deriver) Import(rows []RawRow) ([]FlightRecord, error) {
	records := make([]FlightRecord, 0, len(rows))
	var invalid []*ValidationError
	for i, row := range rows {
		line := row.Line
		if line <= 0 {
			line = i + 1
		}
		record, verr := d.importRow(line, row)
		if verr != nil {
			invalid = append(invalid, verr)
			continue
		}
		records = append(records, record)
	}
	if len(invalid) > 0 {
		return nil, &BatchError{Rows: invalid}
	}
	return records, nil
}

func (d *Deriver) importRow(line int, row RawRow) (FlightRecord, *ValidationError) {
	required := []struct {
		field string
		value string
	}{
		{ColumnCarrier, row.Carrier},
		{ColumnDestination, row.Destination},
		{ColumnScheduledTime, row.ScheduledTime},
		{ColumnDelayHours, row.DelayHours},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return FlightRecord{}, &ValidationError{Line: line, Field: f.field, Value: f.value, Err: ErrMissingField}
		}
	}
	delay, err := ParseDelayHours(row.DelayHours)
	if err != nil {
		return FlightRecord{}, &ValidationError{Line: line, Field: ColumnDelayHours, Value: row.DelayHours, Err: err}
	}
	record, err := d.Derive(row.Carrier, row.Destination, row.ScheduledTime, delay)
	if err != nil {
		return FlightRecord{}, &ValidationError{Line: line, Field: ColumnScheduledTime, Value: row.ScheduledTime, Err: err}
	}
	return record, nil
}

// ParseDelayHours reads an integer delay code. Integral decimals such as "2.0",
// common in spreadsheet exports, are accepted.
func ParseDelayHours(value string) (int, error) {
	value = strings.TrimSpace(value)
	delay, err := strconv.Atoi(value)
	if err != nil {
		f, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, ErrInvalidDelay
		}
		delay = int(f)
	}
	if delay < 0 {
		return 0, ErrNegativeDelay
	}
	return delay, nil
}
