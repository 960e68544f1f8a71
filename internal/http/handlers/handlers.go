package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	nethttp "net/http"
	"strings"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/app/dashboard"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/logging"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/poller"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/upcoming"
)

const (
	msgSportsFailed   = "Failed to fetch sports data"
	msgScheduleFailed = "Failed to fetch schedule"
	msgEventsFailed   = "Failed to fetch global events"
	msgStatsFailed    = "Failed to fetch statistics"
	msgUpcomingFailed = "Failed to fetch upcoming matches"
	msgInvalidBody    = "invalid request body"
	msgPrefsFailed    = "Failed to save preferences"

	maxBodyBytes = 1 << 20
)

// Handler wires HTTP routes to the dashboard service.
type Handler struct {
	svc      *dashboard.Service
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler. statusFn may be nil when no cache warmer runs.
func NewHandler(svc *dashboard.Service, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		svc:      svc,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether the cache warmer has completed a recent refresh.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Sports returns the sports list with team rosters.
func (h *Handler) Sports(w nethttp.ResponseWriter, r *nethttp.Request) {
	list, err := h.svc.Sports(r.Context())
	if err != nil {
		h.fail(w, r, err, msgSportsFailed)
		return
	}
	writeJSON(w, nethttp.StatusOK, list, h.logger)
}

// Schedule returns one sport's matches, optionally narrowed by team and UTC day.
func (h *Handler) Schedule(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := r.URL.Query()
	matches, err := h.svc.Schedule(r.Context(), domain.ScheduleFilter{
		Sport: q.Get("sport"),
		Team:  q.Get("team"),
		Date:  strings.TrimSpace(q.Get("date")),
	})
	if err != nil {
		h.fail(w, r, err, msgScheduleFailed)
		return
	}
	logging.Debug(loggerFromContext(r, h.logger), "served schedule",
		slog.String(logging.FieldSport, q.Get("sport")),
		slog.Int(logging.FieldCount, len(matches)),
	)
	writeJSON(w, nethttp.StatusOK, matches, h.logger)
}

// GlobalEvents returns tournaments filtered by year and search text.
func (h *Handler) GlobalEvents(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := r.URL.Query()
	events, err := h.svc.GlobalEvents(r.Context(), domain.EventFilter{
		Year:   q.Get("year"),
		Search: q.Get("search"),
	})
	if err != nil {
		h.fail(w, r, err, msgEventsFailed)
		return
	}
	writeJSON(w, nethttp.StatusOK, events, h.logger)
}

// Stats returns per-sport status counts over the cached matches.
func (h *Handler) Stats(w nethttp.ResponseWriter, r *nethttp.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err, msgStatsFailed)
		return
	}
	writeJSON(w, nethttp.StatusOK, stats, h.logger)
}

// preferencesRequest keeps notificationsEnabled raw so any JSON value can be coerced.
type preferencesRequest struct {
	ClientID             string          `json:"clientId"`
	Sports               []string        `json:"sports"`
	Teams                []string        `json:"teams"`
	NotificationsEnabled json.RawMessage `json:"notificationsEnabled"`
}

// SetPreferences overwrites the client's preferences record.
func (h *Handler) SetPreferences(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req preferencesRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, nethttp.StatusBadRequest, msgInvalidBody, h.logger)
		return
	}

	stored, err := h.svc.SetPreferences(domain.Preferences{
		ClientID:             req.ClientID,
		Sports:               req.Sports,
		Teams:                req.Teams,
		NotificationsEnabled: truthy(req.NotificationsEnabled),
	})
	if err != nil {
		h.fail(w, r, err, msgPrefsFailed)
		return
	}
	writeJSON(w, nethttp.StatusOK, stored, h.logger)
}

// GetPreferences returns the stored record for clientId, or the default record.
func (h *Handler) GetPreferences(w nethttp.ResponseWriter, r *nethttp.Request) {
	clientID := strings.TrimSpace(r.URL.Query().Get("clientId"))
	writeJSON(w, nethttp.StatusOK, h.svc.Preferences(clientID), h.logger)
}

// Upcoming returns matches starting within the requested window in upstream order.
func (h *Handler) Upcoming(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := r.URL.Query()
	matches, err := h.svc.Upcoming(r.Context(), dashboard.UpcomingQuery{
		Sports:        upcoming.SplitList(q.Get("sports")),
		Teams:         upcoming.SplitList(q.Get("teams")),
		WindowMinutes: upcoming.ParseWindowMinutes(q.Get("windowMinutes")),
	})
	if err != nil {
		h.fail(w, r, err, msgUpcomingFailed)
		return
	}
	writeJSON(w, nethttp.StatusOK, matches, h.logger)
}

// fail maps validation errors to 400 and everything else to 500 with the endpoint message.
func (h *Handler) fail(w nethttp.ResponseWriter, r *nethttp.Request, err error, message string) {
	if ve, ok := dashboard.AsValidationError(err); ok {
		writeError(w, r, nethttp.StatusBadRequest, ve.Message, h.logger)
		return
	}
	logging.Error(loggerFromContext(r, h.logger), message, err, slog.String(logging.FieldPath, r.URL.Path))
	writeError(w, r, nethttp.StatusInternalServerError, message, h.logger)
}

// truthy applies loose JSON truthiness: null, false, 0, "" and absence are false.
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}

// NotFound answers unknown routes with the JSON error shape.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
}
