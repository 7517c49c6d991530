// Package api exposes the dashboard's HTTP surface: trips, reports,
// exports, metric explanations and the live telemetry stream.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"calmdrive/internal/explain"
	"calmdrive/internal/report"
	"calmdrive/internal/trip"
)

// TripReader is the store surface the API consumes. It may be nil, in
// which case every view is served from synthesized data.
type TripReader interface {
	report.TripSource
	FetchTrip(ctx context.Context, id string) (trip.Record, error)
}

// Server runs the dashboard HTTP API.
type Server struct {
	server *http.Server

	reports   *report.Service
	store     TripReader
	explainer explain.Client
}

// NewServer assembles the API around its collaborators. store and
// explainer may be nil; the matching endpoints then degrade gracefully.
func NewServer(reports *report.Service, store TripReader, explainer explain.Client) *Server {
	return &Server{
		reports:   reports,
		store:     store,
		explainer: explainer,
	}
}

// Run serves the API on addr until the listener fails or Shutdown is called.
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.setupRouter(),
	}

	log.Info().Str("addr", addr).Msg("HTTP API listening")
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/trips", s.listTrips)
		v1.GET("/trips/:id", s.getTrip)
		v1.GET("/reports/weekly", s.weeklyReport)
		v1.GET("/reports/summary", s.summaryReport)
		v1.GET("/reports/export", s.exportReport)
		v1.POST("/explain", s.explainMetric)
		v1.GET("/telemetry/live", s.telemetryLive)
	}

	return r
}

// parseWindow reads the from/to query params. Absent params default to
// the trailing seven days. A from after to is a caller contract violation
// and is rejected before it reaches the synthesizer or aggregator.
func parseWindow(c *gin.Context) (report.Window, bool) {
	now := time.Now()
	from := trip.Day(now).AddDate(0, 0, -6)
	to := trip.Day(now)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(trip.DateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' date, expected yyyy-MM-dd"})
			return report.Window{}, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(trip.DateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' date, expected yyyy-MM-dd"})
			return report.Window{}, false
		}
		to = parsed
	}

	if from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must not be after 'to'"})
		return report.Window{}, false
	}

	return report.NewWindow(from, to), true
}

func sourceLabel(synthetic bool) string {
	if synthetic {
		return "synthetic"
	}
	return "store"
}
