package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bloodsim/internal/distribution"
	"bloodsim/internal/metrics"
	"bloodsim/internal/simulation"
	"bloodsim/internal/stats"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

type distributionResponse struct {
	Group           string                  `json:"group"`
	Rows            []distribution.ClassRow `json:"rows"`
	Entries         []distribution.Entry    `json:"entries"`
	CoversFullRange bool                    `json:"covers_full_range"`
}

type simulateResponse struct {
	Seed    int64               `json:"seed"`
	Periods int                 `json:"periods"`
	Records []simulation.Record `json:"records"`
	Summary stats.Summary       `json:"summary"`
}

type healthResponse struct {
	Status       string   `json:"status"`
	GroupsLoaded []string `json:"groups_loaded"`
	Uptime       string   `json:"uptime"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	groups := make([]string, 0, len(distribution.Categories))
	for cat := range s.provider.Tables() {
		groups = append(groups, string(cat))
	}
	respondJSON(w, http.StatusOK, healthResponse{
		Status:       "healthy",
		GroupsLoaded: groups,
		Uptime:       time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	group := chi.URLParam(r, "group")
	cat, ok := distribution.ParseCategory(group)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown blood group, expected one of A, B, AB, O")
		return
	}

	rows, err := s.provider.Rows(cat)
	if err != nil {
		respondError(w, http.StatusNotFound, "distribution not available for group "+string(cat))
		return
	}
	table, err := s.provider.Table(cat)
	if err != nil {
		respondError(w, http.StatusNotFound, "distribution not available for group "+string(cat))
		return
	}

	respondJSON(w, http.StatusOK, distributionResponse{
		Group:           string(cat),
		Rows:            rows,
		Entries:         table.Entries,
		CoversFullRange: table.Covers(),
	})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	periods := s.cfg.DefaultPeriods
	if raw := r.URL.Query().Get("periods"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "periods must be an integer")
			return
		}
		periods = v
	}
	if periods <= 0 {
		respondError(w, http.StatusBadRequest, "periods must be positive")
		return
	}

	seed := time.Now().UnixNano()
	if raw := r.URL.Query().Get("seed"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "seed must be an integer")
			return
		}
		seed = v
	}

	engine := simulation.NewSeededEngine(s.provider.Tables(), seed)
	records, err := engine.Run(r.Context(), periods)
	if err != nil {
		if errors.Is(err, simulation.ErrInvalidPeriods) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Context cancellation: the client went away mid-run.
		respondError(w, http.StatusInternalServerError, "simulation aborted")
		return
	}

	metrics.SimulationsTotal.Inc()
	metrics.SimulationPeriodsTotal.Add(float64(len(records)))

	respondJSON(w, http.StatusOK, simulateResponse{
		Seed:    seed,
		Periods: periods,
		Records: records,
		Summary: stats.Summarize(records),
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.provider.Invalidate()
	respondJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}
