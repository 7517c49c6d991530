package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"calmdrive/internal/explain"
)

// User-facing messages per gateway error kind. Retried only on explicit
// user re-request, never automatically.
const (
	msgRateLimited   = "Rate limit exceeded. Please try again later."
	msgQuotaExceeded = "AI usage limit reached. Please add credits to your workspace."
	msgGeneric       = "Unable to generate an explanation right now. Please try again."
)

func (s *Server) explainMetric(c *gin.Context) {
	if s.explainer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "explanations are not configured"})
		return
	}

	var req explain.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Metric == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "metric is required"})
		return
	}

	explanation, err := s.explainer.Explain(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, explain.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": msgRateLimited})
		case errors.Is(err, explain.ErrQuotaExceeded):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": msgQuotaExceeded})
		default:
			log.Error().Err(err).Str("metric", req.Metric).Msg("Explanation request failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": msgGeneric})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"explanation": explanation})
}
