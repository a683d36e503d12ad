package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/database"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/middleware"
)

const (
	msgInvalidData = "Invalid data provided"
	msgInternal    = "Internal server error"
	msgUnavailable = "Service unavailable"
	msgUserID      = "userId required"
)

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// internalError logs err and answers with a generic message. Database
// connectivity failures map to 503.
func (h *Handler) internalError(c *gin.Context, op string, err error) {
	_ = c.Error(err)
	h.logger.Error(op+" failed",
		zap.Error(err),
		zap.String("request_id", middleware.GetRequestID(c)),
	)
	if database.IsConnectionError(err) {
		abortWithError(c, http.StatusServiceUnavailable, msgUnavailable)
		return
	}
	abortWithError(c, http.StatusInternalServerError, msgInternal)
}

// upstreamFailure logs err and answers 500 with a message naming the
// failed operation.
func (h *Handler) upstreamFailure(c *gin.Context, op, message string, err error) {
	_ = c.Error(err)
	h.logger.Error(op+" failed", zap.Error(err), zap.String("request_id", middleware.GetRequestID(c)))
	abortWithError(c, http.StatusInternalServerError, message)
}

// idParam parses the :id path parameter.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryUserID parses ?userId=. Missing, zero and non-numeric values are absent.
func queryUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// ownerRequest is the body of DELETE requests.
type ownerRequest struct {
	UserID *int64 `json:"userId"`
}

// deleteUserID reads userId from the JSON body, falling back to the query.
func deleteUserID(c *gin.Context) (int64, bool) {
	var req ownerRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err == nil && req.UserID != nil && *req.UserID != 0 {
			return *req.UserID, true
		}
	}
	return queryUserID(c)
}

func timestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// Health reports liveness and storage reachability.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("storage health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "timestamp": timestamp()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": timestamp()})
}
