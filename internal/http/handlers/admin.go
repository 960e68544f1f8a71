package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/app/dashboard"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/http/requestutil"
	"github.com/Shoya0002/ASEP-sem-1-Project/internal/logging"
)

// AdminHandler exposes admin-only endpoints (e.g., forced cache refresh).
type AdminHandler struct {
	svc    *dashboard.Service
	token  string
	logger *slog.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(svc *dashboard.Service, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		svc:    svc,
		token:  token,
		logger: logger,
	}
}

// RefreshCache forces a match cache refill. Guarded by a bearer token; returns 401 if missing/invalid.
func (h *AdminHandler) RefreshCache(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.svc == nil {
		writeError(w, r, http.StatusServiceUnavailable, "cache not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	start := time.Now()
	if err := h.svc.RefreshCache(r.Context()); err != nil {
		logging.Warn(logger, "admin cache refresh failed", slog.Any("err", err))
		writeError(w, r, http.StatusBadGateway, "failed to refresh cache", logger)
		return
	}

	filledAt := h.svc.CacheFilledAt().UTC()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"filledAt": filledAt.Format(time.RFC3339),
	}, logger)
	logging.Info(logger, "admin cache refreshed",
		slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
	)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := r.Header.Get("Authorization")
	want := "Bearer " + h.token
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
