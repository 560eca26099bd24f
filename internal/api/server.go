// Package api is the thin HTTP surface over the alert pipeline. Request
// shaping and routing only; all behavior lives in the core packages.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/weatheralert/internal/alert"
	"github.com/lox/weatheralert/internal/cache"
	"github.com/lox/weatheralert/internal/models"
	"github.com/lox/weatheralert/internal/notify"
	"github.com/lox/weatheralert/internal/stats"
	"github.com/lox/weatheralert/internal/store"
	"github.com/lox/weatheralert/internal/weather"
)

type Server struct {
	store    *store.Store
	alerts   *alert.Service
	resolver *weather.Resolver
	stats    *stats.Service
	admin    *cache.Admin
	hub      *notify.Hub
	location string
	port     string
}

func NewServer(st *store.Store, alerts *alert.Service, resolver *weather.Resolver, statsSvc *stats.Service, admin *cache.Admin, hub *notify.Hub, location, port string) *Server {
	return &Server{
		store:    st,
		alerts:   alerts,
		resolver: resolver,
		stats:    statsSvc,
		admin:    admin,
		hub:      hub,
		location: location,
		port:     port,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/weather/current", s.handleCurrentWeather)
	mux.HandleFunc("/api/weather/report", s.handleWeatherReport)
	mux.HandleFunc("/api/alerts", s.handleAlerts)
	mux.HandleFunc("/api/alerts/", s.handleAlertByID)
	mux.HandleFunc("/api/notifications", s.handleNotifications)
	mux.HandleFunc("/api/notifications/stream", s.handleNotificationStream)
	mux.HandleFunc("/api/statistics", s.handleStatistics)
	mux.HandleFunc("/api/cache/size", s.handleCacheSize)
	mux.HandleFunc("/api/cache/clear", s.handleCacheClear)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCurrentWeather(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		location = s.location
	}

	report, err := s.resolver.Resolve(r.Context(), location, models.DateOf(time.Now()))
	if err != nil {
		if errors.Is(err, weather.ErrWeatherUnavailable) {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleWeatherReport(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("location parameter required"))
		return
	}
	date, err := models.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	report, err := s.resolver.Resolve(r.Context(), location, date)
	if err != nil {
		if errors.Is(err, weather.ErrWeatherUnavailable) {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		alerts, err := s.alerts.List()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if alerts == nil {
			alerts = []models.Alert{}
		}
		writeJSON(w, http.StatusOK, alerts)
	case http.MethodPost:
		var req alert.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
			return
		}
		created, err := s.alerts.Create(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAlertByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/alerts/")
	if id == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("alert id required"))
		return
	}

	if r.Method != http.MethodPut && r.Method != http.MethodPatch {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	updated, err := s.alerts.SetActive(id, req.Active)
	if err != nil {
		if errors.Is(err, alert.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.store.ListNotifications()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if notifications == nil {
		notifications = []models.AlertNotification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

// handleNotificationStream pushes notifications to the client as
// server-sent events until the client disconnects.
func (s *Server) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("streaming unsupported"))
		return
	}

	ch, cancel := s.hub.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(n)
			if err != nil {
				log.Printf("api: marshal notification %s: %v", n.ID, err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("location parameter required"))
		return
	}
	start, err := models.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	end, err := models.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.stats.Compute(r.Context(), location, start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCacheSize(w http.ResponseWriter, r *http.Request) {
	size, err := s.admin.SizeMB()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"sizeMB": size})
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.admin.Clear(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
