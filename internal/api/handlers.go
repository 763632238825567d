package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/neexbeast/trekmate/internal/chat"
	"github.com/neexbeast/trekmate/internal/plan"
	"github.com/neexbeast/trekmate/internal/storage"
	"github.com/neexbeast/trekmate/internal/weather"
)

const maxBodyBytes = 1 << 20

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	lookup    WeatherLookup
	generator PlanGenerator
	journal   LookupJournal
	log       *slog.Logger
}

// NewHandlers constructs Handlers. journal may be nil when no database is configured.
func NewHandlers(lookup WeatherLookup, generator PlanGenerator, journal LookupJournal, log *slog.Logger) *Handlers {
	return &Handlers{
		lookup:    lookup,
		generator: generator,
		journal:   journal,
		log:       log,
	}
}

type weatherRequest struct {
	Location string `json:"location"`
}

type planResponse struct {
	Plan string `json:"plan"`
}

type turnRequest struct {
	State   chat.State `json:"state"`
	Message string     `json:"message"`
}

type turnResponse struct {
	State       chat.State     `json:"state"`
	Messages    []chat.Message `json:"messages"`
	Suggestions []string       `json:"suggestions"`
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// lookupStatus maps a lookup error to its HTTP status code.
func lookupStatus(err error) int {
	var (
		vErr  *weather.ValidationError
		nfErr *weather.NotFoundError
		dErr  *weather.DisambiguationError
		gErr  *weather.GeocodingError
		fErr  *weather.ForecastError
	)
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.As(err, &nfErr):
		return http.StatusNotFound
	case errors.As(err, &dErr):
		return http.StatusConflict
	case errors.As(err, &gErr), errors.As(err, &fErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Lookup handles POST /api/v1/weather.
func (h *Handlers) Lookup(w http.ResponseWriter, r *http.Request) {
	var req weatherRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.lookup.Lookup(r.Context(), req.Location)
	if err != nil {
		status := lookupStatus(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("weather lookup failed", "location", req.Location, "err", err)
		}
		writeJSON(w, status, weather.DescribeFailure(err))
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Plan handles POST /api/v1/plan.
func (h *Handlers) Plan(w http.ResponseWriter, r *http.Request) {
	var req plan.Request
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Destination) == "" {
		writeError(w, http.StatusBadRequest, "destination is required")
		return
	}

	text, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		var cErr *plan.ConfigError
		if errors.As(err, &cErr) {
			h.log.Error("plan generator misconfigured", "err", err)
			writeError(w, http.StatusInternalServerError, "plan generation is not configured")
			return
		}
		h.log.Error("plan generation failed", "destination", req.Destination, "err", err)
		writeError(w, http.StatusBadGateway, "failed to generate trek plan")
		return
	}

	writeJSON(w, http.StatusOK, planResponse{Plan: text})
}

// StartConversation handles POST /api/v1/conversations.
func (h *Handlers) StartConversation(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, chat.InitialState())
}

// RestartConversation handles POST /api/v1/conversations/restart.
func (h *Handlers) RestartConversation(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, chat.InitialState())
}

// ConversationTurn handles POST /api/v1/conversations/turn. The client sends
// the state it was last given together with the new message.
func (h *Handlers) ConversationTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := chat.Resume(req.State, h.lookup, h.generator, h.log)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	turn, err := session.Send(r.Context(), req.Message)
	if err != nil {
		h.log.Error("conversation turn failed", "err", err)
		writeError(w, http.StatusInternalServerError, "plan generation is not configured")
		return
	}

	writeJSON(w, http.StatusOK, turnResponse{
		State:       session.State(),
		Messages:    turn.Messages,
		Suggestions: turn.Suggestions,
	})
}

// RecentLookups handles GET /api/v1/lookups/recent?limit=N.
func (h *Handlers) RecentLookups(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	if h.journal == nil {
		writeJSON(w, http.StatusOK, []storage.LookupRecord{})
		return
	}

	records, err := h.journal.RecentLookups(r.Context(), limit)
	if err != nil {
		h.log.Error("listing recent lookups failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// LookupsByRisk handles GET /api/v1/lookups?risk=low|medium|high.
func (h *Handlers) LookupsByRisk(w http.ResponseWriter, r *http.Request) {
	level := weather.RiskLevel(r.URL.Query().Get("risk"))
	switch level {
	case weather.RiskLow, weather.RiskMedium, weather.RiskHigh:
	default:
		writeError(w, http.StatusBadRequest, "risk must be one of low, medium, high")
		return
	}

	if h.journal == nil {
		writeJSON(w, http.StatusOK, []storage.LookupRecord{})
		return
	}

	records, err := h.journal.LookupsByRiskLevel(r.Context(), level)
	if err != nil {
		h.log.Error("listing lookups by risk failed", "risk", level, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that checks db and redis
// connectivity. A nil pinger is reported as disabled and does not degrade health.
func HealthHandlerFunc(db dbPinger, redis redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		check := func(name string, p interface{ Ping(context.Context) error }) string {
			if p == nil {
				return "disabled"
			}
			if err := p.Ping(ctx); err != nil {
				log.Error("health check: ping failed", "dependency", name, "err", err)
				status = http.StatusServiceUnavailable
				return "error"
			}
			return "ok"
		}

		body := map[string]string{
			"db":    check("db", db),
			"redis": check("redis", redis),
		}
		body["status"] = "ok"
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		writeJSON(w, status, body)
	}
}
