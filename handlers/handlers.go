// Package handlers provides the HTTP request handlers for the clinic API:
// patient and remedy management, the prescription draft composer, persist and
// export, plus session, label and health endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fernheilpraxis/clinic-api/exporter"
	"github.com/fernheilpraxis/clinic-api/interfaces"
	"github.com/fernheilpraxis/clinic-api/lang"
	"github.com/fernheilpraxis/clinic-api/logging"
	"github.com/fernheilpraxis/clinic-api/store"
	"github.com/fernheilpraxis/clinic-api/validation"
)

var serverStartTime = time.Now()

// Handler bundles the injected application components behind the HTTP layer.
type Handler struct {
	store     store.DocumentStore
	catalog   interfaces.CatalogIndex
	composer  interfaces.DraftComposer
	exporter  *exporter.Exporter
	session   interfaces.SessionGate
	validator *validation.Validator
	refreshAt string

	inflight inflightGuard
}

// New creates a handler with injected dependencies. refreshAt is the catalog
// refresh schedule ("HH:MM;HH:MM"), reported by the health endpoint.
func New(st store.DocumentStore, cat interfaces.CatalogIndex, comp interfaces.DraftComposer,
	exp *exporter.Exporter, gate interfaces.SessionGate, refreshAt string) *Handler {
	return &Handler{
		store:     st,
		catalog:   cat,
		composer:  comp,
		exporter:  exp,
		session:   gate,
		validator: validation.NewValidator(),
		refreshAt: refreshAt,
		inflight:  inflightGuard{keys: make(map[string]struct{})},
	}
}

// inflightGuard rejects a second concurrent run of the same keyed operation.
// Persist and export use it so a double-submitted request cannot write or
// render twice.
type inflightGuard struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// tryAcquire reports whether the key was free. Callers must release.
func (g *inflightGuard) tryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.keys[key]; busy {
		return false
	}
	g.keys[key] = struct{}{}
	return true
}

func (g *inflightGuard) release(key string) {
	g.mu.Lock()
	delete(g.keys, key)
	g.mu.Unlock()
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// respondDomainError maps application errors onto HTTP statuses: validation
// failures are the client's fault, a missing document is 404, anything else
// is a storage problem surfaced as 502.
func respondDomainError(w http.ResponseWriter, err error) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		RespondWithError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, store.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, "not found")
	default:
		logging.Error("Storage operation failed", "error", err)
		RespondWithError(w, http.StatusBadGateway, "storage unavailable")
	}
}

// decodeJSONBody decodes a request body into dst, rejecting unknown fields.
func decodeJSONBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &validation.ValidationError{Field: "body", Reason: "malformed JSON: " + err.Error()}
	}
	return nil
}

// ServeLabels returns the localized UI label table.
func (h *Handler) ServeLabels(w http.ResponseWriter, r *http.Request) {
	locale := lang.FromRequest(r)
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"locale": locale,
		"labels": lang.Labels(locale),
	})
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}

// nextRefresh calculates the next scheduled catalog refresh from the
// "HH:MM;HH:MM" schedule string.
func nextRefresh(schedule string, now time.Time) time.Time {
	var next time.Time
	for _, at := range strings.Split(schedule, ";") {
		t, err := time.ParseInLocation("15:04", strings.TrimSpace(at), now.Location())
		if err != nil {
			continue
		}
		candidate := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		if next.IsZero() || candidate.Before(next) {
			next = candidate
		}
	}
	return next
}

// HealthCheck returns server health information.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(serverStartTime)
	lastUpdate := h.catalog.LastUpdated()

	status := "healthy"
	if h.catalog.Size() == 0 {
		status = "degraded"
	}

	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":          status,
		"uptime":          formatUptimeHuman(uptime),
		"memory_usage_mb": int(m.Alloc / 1024 / 1024),
		"catalog": map[string]interface{}{
			"remedy_count": h.catalog.Size(),
			"last_refresh": lastUpdate.Format(time.RFC3339),
			"next_refresh": nextRefresh(h.refreshAt, time.Now()).Format(time.RFC3339),
			"is_updating":  h.catalog.IsUpdating(),
		},
	})
}

// timeField reads a time value out of raw store fields.
func timeField(fields map[string]any, key string) time.Time {
	if t, ok := fields[key].(time.Time); ok {
		return t
	}
	return time.Time{}
}

// stringField reads a string value out of raw store fields.
func stringField(fields map[string]any, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}

// intField reads an integer out of raw store fields, tolerating the numeric
// types the different backends decode to.
func intField(fields map[string]any, key string) int {
	switch v := fields[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
