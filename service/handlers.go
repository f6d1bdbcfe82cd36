package service

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/clinic-sim/sim"
	"github.com/inference-sim/clinic-sim/sim/stats"
)

type runResponse struct {
	Status   string `json:"status"`
	Patients int    `json:"patients"`
	RunID    string `json:"runId"`
}

type summaryResponse struct {
	stats.Summary
	RunID string `json:"runId"`
	Empty bool   `json:"empty"`
}

type distributionResponse struct {
	stats.Distribution
	Empty bool `json:"empty"`
}

type timelineResponse struct {
	stats.Timeline
	Empty bool `json:"empty"`
}

type seriesResponse struct {
	stats.Series
	Empty bool `json:"empty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the HTTP routes of the service.
func (s *Service) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(mux.CORSMethodMiddleware(r), allowAnyOrigin)

	r.HandleFunc("/run-simulation", s.runSimulation).Methods(http.MethodGet, http.MethodPost, http.MethodOptions)
	r.Handle("/summary", s.withReadTimeout(s.summary)).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/all-data", s.withReadTimeout(s.allData)).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/distribution", s.withReadTimeout(s.distribution)).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/timeline", s.withReadTimeout(s.timeline)).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/charts", s.withReadTimeout(s.charts)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	return r
}

func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Service) withReadTimeout(fn http.HandlerFunc) http.Handler {
	if s.readTimeout <= 0 {
		return fn
	}
	return http.TimeoutHandler(fn, s.readTimeout, `{"error":"read timed out"}`)
}

func (s *Service) runSimulation(w http.ResponseWriter, _ *http.Request) {
	run, err := s.Rerun()
	if err != nil {
		logrus.Errorf("re-run failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, runResponse{Status: "Simulation Re-run", Patients: run.Len(), RunID: run.ID})
}

func (s *Service) summary(w http.ResponseWriter, _ *http.Request) {
	run := s.Current()
	summary, err := stats.Summarize(run)
	if !handled(w, err) {
		return
	}
	resp := summaryResponse{Summary: summary, Empty: err != nil}
	if run != nil {
		resp.RunID = run.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) allData(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Current().Rows())
}

func (s *Service) distribution(w http.ResponseWriter, _ *http.Request) {
	dist, err := stats.Distribute(s.Current())
	if !handled(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, distributionResponse{Distribution: dist, Empty: err != nil})
}

func (s *Service) timeline(w http.ResponseWriter, _ *http.Request) {
	tl, err := stats.BuildTimeline(s.Current())
	if !handled(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, timelineResponse{Timeline: tl, Empty: err != nil})
}

func (s *Service) charts(w http.ResponseWriter, _ *http.Request) {
	series, err := stats.BuildSeries(s.Current())
	if !handled(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, seriesResponse{Series: series, Empty: err != nil})
}

// handled reports whether the caller may continue. An empty run is a valid
// state and passes through; anything else is answered with a 500.
func handled(w http.ResponseWriter, err error) bool {
	if err == nil || errors.Is(err, sim.ErrEmptyRun) {
		return true
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Warnf("writing response: %v", err)
	}
}
