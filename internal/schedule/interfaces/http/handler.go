package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"flight-analytics/internal/audit"
	"flight-analytics/internal/auth"
	"flight-analytics/internal/observability/metrics"
	"flight-analytics/internal/report"
	scheduleapp "flight-analytics/internal/schedule/application"
	schedule "flight-analytics/internal/schedule/domain"
	"flight-analytics/internal/schedule/infrastructure/spreadsheet"
)

const (
	basePath      = "/api/v1/schedules"
	maxUploadSize = 32 << 20
)

// Handler serves the schedule API under /api/v1/schedules.
type Handler struct {
	service     *scheduleapp.ScheduleService
	auditLogger audit.Logger
	logger      *log.Logger
}

// NewHandler constructs a handler. auditLogger may be nil.
func NewHandler(service *scheduleapp.ScheduleService, auditLogger audit.Logger, logger *log.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("schedule handler: nil service")
	}
	return &Handler{service: service, auditLogger: auditLogger, logger: logger}, nil
}

// ServeHTTP routes schedule requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == basePath+"/generate" && r.Method == http.MethodPost:
		h.handleGenerate(w, r)
		return
	case path == basePath+"/import" && r.Method == http.MethodPost:
		h.handleImport(w, r)
		return
	case path == basePath && r.Method == http.MethodGet:
		h.handleList(w, r)
		return
	case path == basePath+"/latest" && r.Method == http.MethodGet:
		h.handleLatest(w, r)
		return
	case strings.HasPrefix(path, basePath+"/") && r.Method == http.MethodGet:
		h.handleByID(w, r, strings.TrimPrefix(path, basePath+"/"))
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

type generateResponse struct {
	schedule.Header
	Summary report.Summary `json:"summary"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seed *int64 `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	built, err := h.service.Generate(r.Context(), req.Seed)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{Header: built.Header(), Summary: report.Summarize(built.Records())})
	h.logAudit(r, built.ID(), "schedule.generate", map[string]any{
		"seed":    built.Seed(),
		"flights": built.Len(),
	})
}

type rowError struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	format, err := spreadsheet.FormatFromName(fileHeader.Filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rows, err := spreadsheet.Read(format, file)
	if err != nil {
		metrics.ObserveImport(format, metrics.ResultError, 0)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	built, err := h.service.Import(r.Context(), format, rows)
	if err != nil {
		var batch *schedule.BatchError
		if errors.As(err, &batch) {
			errs := make([]rowError, 0, len(batch.Rows))
			for _, row := range batch.Rows {
				errs = append(errs, rowError{Line: row.Line, Field: row.Field, Value: row.Value, Message: row.Err.Error()})
			}
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
			return
		}
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, built)
	h.logAudit(r, built.ID(), "schedule.import", map[string]any{
		"format":  format,
		"file":    fileHeader.Filename,
		"flights": built.Len(),
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	headers, err := h.service.List(r.Context(), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if headers == nil {
		headers = []schedule.Header{}
	}
	writeJSON(w, http.StatusOK, headers)
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	latest, err := h.service.Latest(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

func (h *Handler) handleByID(w http.ResponseWriter, r *http.Request, rest string) {
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" || len(parts) > 2 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if len(parts) == 1 {
		h.handleGet(w, r, id)
		return
	}
	switch parts[1] {
	case "summary":
		h.handleSummary(w, r, id)
	case "export.pdf":
		h.handleExport(w, r, id, "pdf")
	case "export.xlsx":
		h.handleExport(w, r, id, "xlsx")
	case "export.csv":
		h.handleExport(w, r, id, "csv")
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request, id string) {
	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Summarize(found.Records()))
}

var exportContentTypes = map[string]string{
	"pdf":  "application/pdf",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"csv":  "text/csv; charset=utf-8",
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request, id, format string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveExport(format, result, time.Since(start))
	}()

	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		result = metrics.ResultError
		respondServiceError(w, err)
		return
	}
	var data []byte
	switch format {
	case "pdf":
		data, err = report.BuildPDF(found)
	case "xlsx":
		data, err = report.BuildXLSX(found)
	default:
		data, err = report.BuildCSV(found.Records())
	}
	if err != nil {
		result = metrics.ResultError
		h.logf("schedule export failed: id=%s format=%s err=%v", id, format, err)
		http.Error(w, "export "+format+" error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", exportContentTypes[format])
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "schedule-"+found.ID()+"."+format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, found.ID(), "schedule.export", map[string]any{"format": format})
}

func (h *Handler) logAudit(r *http.Request, scheduleID, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(meta)
	err := h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "schedule",
		ResourceID:   scheduleID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
	if err != nil {
		h.logf("audit log failed: action=%s id=%s err=%v", action, scheduleID, err)
	}
}

func (h *Handler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, schedule.ErrScheduleNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, schedule.ErrEmptyCatalog) || errors.Is(err, schedule.ErrNilSchedule) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}
