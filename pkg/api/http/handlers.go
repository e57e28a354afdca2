package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/utkuyucel/ibbtraffic/internal/application/poller"
	"github.com/utkuyucel/ibbtraffic/internal/ports"
)

const defaultHistoryLimit = 20

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// RefreshResponse represents the response to a refresh request
type RefreshResponse struct {
	Endpoint    string `json:"endpoint"`
	Status      string `json:"status"`
	RequestedAt string `json:"requested_at"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": gin.H{
			"poller": "ok",
		},
	})
}

// handleListEndpoints lists the polled endpoints
func (s *Server) handleListEndpoints(c *gin.Context) {
	endpoints := s.poller.Endpoints()

	c.JSON(http.StatusOK, gin.H{
		"endpoints": endpoints,
		"total":     len(endpoints),
	})
}

// handleLatest returns the most recent snapshot for an endpoint
func (s *Server) handleLatest(c *gin.Context) {
	endpoint := c.Param("endpoint")

	snapshot, err := s.poller.LatestSnapshot(c.Request.Context(), endpoint)
	if err != nil {
		if errors.Is(err, ports.ErrSnapshotNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: ErrorDetail{
					Code:    "NOT_FOUND",
					Message: "No snapshot for endpoint",
				},
			})
			return
		}

		s.logger.Error("failed to get snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "STORAGE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// handleHistory returns recent snapshots for an endpoint, newest first
func (s *Server) handleHistory(c *gin.Context) {
	endpoint := c.Param("endpoint")

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: ErrorDetail{
					Code:    "INVALID_LIMIT",
					Message: "limit must be a positive integer",
				},
			})
			return
		}
		limit = parsed
	}

	snapshots, err := s.poller.History(c.Request.Context(), endpoint, limit)
	if err != nil {
		s.logger.Error("failed to get history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "STORAGE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"endpoint":  endpoint,
		"snapshots": snapshots,
		"total":     len(snapshots),
	})
}

// handleRefresh triggers an on-demand fetch for an endpoint
func (s *Server) handleRefresh(c *gin.Context) {
	endpoint := c.Param("endpoint")

	if err := s.poller.TriggerFetch(c.Request.Context(), endpoint); err != nil {
		if errors.Is(err, poller.ErrFetchInFlight) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error: ErrorDetail{
					Code:    "FETCH_IN_FLIGHT",
					Message: "A fetch for this endpoint is already running",
				},
			})
			return
		}

		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "REFRESH_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusAccepted, RefreshResponse{
		Endpoint:    endpoint,
		Status:      "requested",
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
