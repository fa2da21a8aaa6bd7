package report

import (
	"sort"
	"strconv"

	schedule "flight-analytics/internal/schedule/domain"
)

// Count is one labeled bucket of an aggregate.
type Count struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// CrossCount is one cell of the manufacturer by status table.
type CrossCount struct {
	Manufacturer schedule.Manufacturer `json:"manufacturer"`
	Status       schedule.FlightStatus `json:"status"`
	Count        int                   `json:"count"`
}

// TimePair holds scheduled and actual departure of a delayed flight in decimal hours.
type TimePair struct {
	Carrier     string  `json:"carrier"`
	Destination string  `json:"destination"`
	Scheduled   float64 `json:"scheduled"`
	Actual      float64 `json:"actual"`
}

// Summary aggregates a schedule for reporting.
type Summary struct {
	Empty              bool         `json:"empty"`
	Total              int          `json:"total"`
	ByFlightStatus     []Count      `json:"by_flight_status"`
	ByEquipmentStatus  []Count      `json:"by_equipment_status"`
	ByManufacturer     []Count      `json:"by_manufacturer"`
	ByDestination      []Count      `json:"by_destination"`
	ByHour             [24]int      `json:"by_hour"`
	DelayHistogram     []Count      `json:"delay_histogram"`
	ManufacturerStatus []CrossCount `json:"manufacturer_status"`
	DelayedTimes       []TimePair   `json:"delayed_times"`
	MeanDelay          float64      `json:"mean_delay"`
	MedianDelay        float64      `json:"median_delay"`
	ModeDelay          int          `json:"mode_delay"`
	OnTimeRate         float64      `json:"on_time_rate"`
	DelayedRate        float64      `json:"delayed_rate"`
	CancelledRate      float64      `json:"cancelled_rate"`
}

var (
	flightStatuses = []schedule.FlightStatus{
		schedule.FlightStatusOnTime,
		schedule.FlightStatusDelayed,
		schedule.FlightStatusCancelled,
	}
	equipmentStatuses = []schedule.EquipmentStatus{
		schedule.EquipmentOperational,
		schedule.EquipmentNonOperational,
	}
	manufacturers = []schedule.Manufacturer{
		schedule.ManufacturerAirbus,
		schedule.ManufacturerBoeing,
	}
)

// Summarize computes every aggregate over records. An empty input yields a
// Summary with Empty set and zeroed buckets.
func Summarize(records []schedule.FlightRecord) Summary {
	total := len(records)
	summary := Summary{Empty: total == 0, Total: total}

	flight := make(map[schedule.FlightStatus]int)
	equipment := make(map[schedule.EquipmentStatus]int)
	manufacturer := make(map[schedule.Manufacturer]int)
	destination := make(map[string]int)
	delays := make(map[int]int)
	cross := make(map[schedule.Manufacturer]map[schedule.FlightStatus]int)
	sorted := make([]int, 0, total)
	sum := 0

	for _, r := range records {
		flight[r.FlightStatus]++
		equipment[r.EquipmentStatus]++
		manufacturer[r.Manufacturer]++
		destination[r.Destination]++
		delays[r.DelayHours]++
		if cross[r.Manufacturer] == nil {
			cross[r.Manufacturer] = make(map[schedule.FlightStatus]int)
		}
		cross[r.Manufacturer][r.FlightStatus]++
		sorted = append(sorted, r.DelayHours)
		sum += r.DelayHours

		if at, err := schedule.ParseTimeOfDay(r.ScheduledTime); err == nil {
			summary.ByHour[at.Hour()]++
			if r.FlightStatus == schedule.FlightStatusDelayed {
				if actual, err := schedule.ParseTimeOfDay(r.ActualTime); err == nil {
					summary.DelayedTimes = append(summary.DelayedTimes, TimePair{
						Carrier:     r.Carrier,
						Destination: r.Destination,
						Scheduled:   at.DecimalHours(),
						Actual:      actual.DecimalHours(),
					})
				}
			}
		}
	}

	for _, status := range flightStatuses {
		summary.ByFlightStatus = append(summary.ByFlightStatus, newCount(string(status), flight[status], total))
	}
	for _, status := range equipmentStatuses {
		summary.ByEquipmentStatus = append(summary.ByEquipmentStatus, newCount(string(status), equipment[status], total))
	}
	for _, m := range manufacturers {
		summary.ByManufacturer = append(summary.ByManufacturer, newCount(string(m), manufacturer[m], total))
		for _, status := range flightStatuses {
			summary.ManufacturerStatus = append(summary.ManufacturerStatus, CrossCount{
				Manufacturer: m,
				Status:       status,
				Count:        cross[m][status],
			})
		}
	}

	for name, n := range destination {
		summary.ByDestination = append(summary.ByDestination, newCount(name, n, total))
	}
	sort.Slice(summary.ByDestination, func(i, j int) bool {
		a, b := summary.ByDestination[i], summary.ByDestination[j]
		if a.Count != b.Count {
			return a.Count < b.Count
		}
		return a.Label < b.Label
	})

	codes := make([]int, 0, len(delays))
	for code := range delays {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	best := 0
	for _, code := range codes {
		summary.DelayHistogram = append(summary.DelayHistogram, newCount(strconv.Itoa(code), delays[code], total))
		// ties keep the smallest code
		if delays[code] > best {
			best = delays[code]
			summary.ModeDelay = code
		}
	}

	if total > 0 {
		summary.MeanDelay = float64(sum) / float64(total)
		sort.Ints(sorted)
		mid := total / 2
		if total%2 == 1 {
			summary.MedianDelay = float64(sorted[mid])
		} else {
			summary.MedianDelay = float64(sorted[mid-1]+sorted[mid]) / 2
		}
		summary.OnTimeRate = ratio(flight[schedule.FlightStatusOnTime], total)
		summary.DelayedRate = ratio(flight[schedule.FlightStatusDelayed], total)
		summary.CancelledRate = ratio(flight[schedule.FlightStatusCancelled], total)
	}
	return summary
}

func newCount(label string, n, total int) Count {
	return Count{Label: label, Count: n, Percent: 100 * ratio(n, total)}
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
