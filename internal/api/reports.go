package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"calmdrive/internal/export"
)

func (s *Server) listTrips(c *gin.Context) {
	win, ok := parseWindow(c)
	if !ok {
		return
	}

	snap := s.reports.Refresh(c.Request.Context(), win)
	c.JSON(http.StatusOK, gin.H{
		"trips":  snap.Trips,
		"source": sourceLabel(snap.Synthetic),
	})
}

func (s *Server) getTrip(c *gin.Context) {
	id := c.Param("id")

	if s.store != nil {
		if tr, err := s.store.FetchTrip(c.Request.Context(), id); err == nil {
			c.JSON(http.StatusOK, tr)
			return
		}
	}

	// Synthesized trips only live in the published snapshot.
	if snap := s.reports.Current(); snap != nil {
		for _, tr := range snap.Trips {
			if tr.ID == id {
				c.JSON(http.StatusOK, tr)
				return
			}
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("trip %s not found", id)})
}

func (s *Server) weeklyReport(c *gin.Context) {
	win, ok := parseWindow(c)
	if !ok {
		return
	}

	// A partial week still renders a full Mon-Sun chart.
	snap := s.reports.Build(c.Request.Context(), win.AlignToWeek())
	c.JSON(http.StatusOK, gin.H{
		"buckets": snap.Buckets,
		"source":  sourceLabel(snap.Synthetic),
	})
}

func (s *Server) summaryReport(c *gin.Context) {
	win, ok := parseWindow(c)
	if !ok {
		return
	}

	snap := s.reports.Build(c.Request.Context(), win)
	c.JSON(http.StatusOK, gin.H{
		"stats":  snap.Stats,
		"source": sourceLabel(snap.Synthetic),
	})
}

func (s *Server) exportReport(c *gin.Context) {
	win, ok := parseWindow(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "pdf")
	if format != "csv" && format != "pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or pdf"})
		return
	}

	snap := s.reports.Build(c.Request.Context(), win)
	now := time.Now()

	var buf bytes.Buffer
	var contentType string
	var err error

	switch format {
	case "csv":
		contentType = "text/csv; charset=utf-8"
		err = export.WriteCSV(&buf, snap.Trips)
	case "pdf":
		contentType = "application/pdf"
		err = export.WritePDF(&buf, snap.Trips, snap.Buckets, snap.Stats, now)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(format, now)))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
