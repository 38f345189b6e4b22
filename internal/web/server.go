// Package web exposes the HTTP surface: the authenticated dashboard shell,
// the viewer WebSocket endpoint, the reporting query API, and the usual
// health and metrics endpoints.
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"climatestation/backend/internal/station"
)

type Options struct {
	BasicAuthUsername string
	BasicAuthPassword string
	APIRequestLimit   int
}

type API struct {
	store      station.Store
	hub        *station.Hub
	reconciler *station.Reconciler
	relay      *station.Relay
	limiter    *rateLimiter
	options    Options
	logger     zerolog.Logger
}

func NewAPI(
	store station.Store,
	hub *station.Hub,
	reconciler *station.Reconciler,
	relay *station.Relay,
	options Options,
	logger zerolog.Logger,
) *API {
	return &API{
		store:      store,
		hub:        hub,
		reconciler: reconciler,
		relay:      relay,
		limiter:    newRateLimiter(options.APIRequestLimit, time.Minute),
		options:    options,
		logger:     logger.With().Str("component", "web").Logger(),
	}
}

func (api *API) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Group(func(router chi.Router) {
		router.Use(middleware.BasicAuth("climate-station", map[string]string{
			api.options.BasicAuthUsername: api.options.BasicAuthPassword,
		}))
		router.Get("/", api.handleIndex)
	})

	router.Get("/ws", api.handleViewer)
	router.Get("/api/readings", api.handleReadings)
	router.Get("/healthz", api.handleHealth)
	router.Get("/readyz", api.handleReady)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return router
}

func (api *API) handleHealth(response http.ResponseWriter, request *http.Request) {
	writeJSON(response, http.StatusOK, map[string]any{
		"status":  "ok",
		"viewers": api.hub.Count(),
	})
}

func (api *API) handleReady(response http.ResponseWriter, request *http.Request) {
	if err := api.store.Ping(request.Context()); err != nil {
		writeError(response, http.StatusServiceUnavailable, "not ready")
		return
	}

	writeJSON(response, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

// handleReadings serves the reporting view: a named range token plus a row
// limit token, both falling back to documented defaults.
func (api *API) handleReadings(response http.ResponseWriter, request *http.Request) {
	if !api.limiter.Allow(clientIdentity(request), time.Now()) {
		writeError(response, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	window := station.Window{
		Since: station.SinceForRange(request.URL.Query().Get("range"), time.Now()),
		Limit: station.LimitForToken(request.URL.Query().Get("limit")),
	}

	readings, err := api.store.Query(request.Context(), window)
	if err != nil {
		api.logger.Error().Err(err).Msg("readings query failed")
		writeError(response, http.StatusInternalServerError, "failed to read data")
		return
	}

	writeJSON(response, http.StatusOK, map[string]any{"readings": readings})
}

func writeJSON(response http.ResponseWriter, statusCode int, payload any) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(statusCode)
	_ = json.NewEncoder(response).Encode(payload)
}

func writeError(response http.ResponseWriter, statusCode int, message string) {
	writeJSON(response, statusCode, map[string]string{"error": message})
}
