package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "flight_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	generateTotal   *prometheus.CounterVec
	generateLatency *prometheus.HistogramVec

	importTotal     *prometheus.CounterVec
	importLatency   *prometheus.HistogramVec
	importRowErrors *prometheus.CounterVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	scheduleFlights *prometheus.GaugeVec
	flightOutcomes  *prometheus.CounterVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		generateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "schedule_generate_total",
				Help: "Total schedule generations by result",
			},
			[]string{"result"},
		)
		generateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "schedule_generate_latency_seconds",
				Help:    "Schedule generation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		importTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "schedule_import_total",
				Help: "Total schedule imports by format and result",
			},
			[]string{"format", "result"},
		)
		importLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "schedule_import_latency_seconds",
				Help:    "Schedule import latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)
		importRowErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "schedule_import_row_errors_total",
				Help: "Total rejected import rows by column",
			},
			[]string{"field"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		scheduleFlights = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "schedule_flights",
				Help: "Flights in the most recent schedule by source",
			},
			[]string{"source"},
		)
		flightOutcomes = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "outcomes_total",
				Help: "Total flights built by flight status",
			},
			[]string{"status"},
		)

		prometheus.MustRegister(
			generateTotal,
			generateLatency,
			importTotal,
			importLatency,
			importRowErrors,
			exportTotal,
			exportLatency,
			scheduleFlights,
			flightOutcomes,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveGenerate records generation latency and result.
func ObserveGenerate(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if generateTotal != nil {
		generateTotal.WithLabelValues(result).Inc()
	}
	if generateLatency != nil {
		generateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveImport records import latency and result.
func ObserveImport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if importTotal != nil {
		importTotal.WithLabelValues(format, result).Inc()
	}
	if importLatency != nil {
		importLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncImportRowError increments the rejected row counter.
func IncImportRowError(field string) {
	if field == "" {
		field = "unknown"
	}
	if importRowErrors != nil {
		importRowErrors.WithLabelValues(field).Inc()
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// SetScheduleFlights sets the size of the latest schedule.
func SetScheduleFlights(source string, flights int) {
	if source == "" {
		source = "unknown"
	}
	if scheduleFlights != nil {
		scheduleFlights.WithLabelValues(source).Set(float64(flights))
	}
}

// AddFlightOutcome increments the outcome counter by count.
func AddFlightOutcome(status string, count int) {
	if count <= 0 {
		return
	}
	if flightOutcomes != nil {
		flightOutcomes.WithLabelValues(status).Add(float64(count))
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
