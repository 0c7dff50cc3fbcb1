package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/mberk/coursedex/internal/pkg/apperrors"
	"github.com/mberk/coursedex/internal/pkg/logger"
)

// APIKeyMiddleware gates API endpoints on registered keys. Keys live in
// redis as `<key>:status`; a key counts as granted while its status is
// "pending" or "active". Each accepted request bumps `<key>:requests` for
// usage accounting; a counter failure never rejects the request.
type APIKeyMiddleware struct {
	rdb *redis.Client
}

// NewAPIKeyMiddleware creates a new APIKeyMiddleware
func NewAPIKeyMiddleware(rdb *redis.Client) *APIKeyMiddleware {
	return &APIKeyMiddleware{rdb: rdb}
}

// RequireKey validates the key query parameter against the key store.
func (m *APIKeyMiddleware) RequireKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("key")
		if key == "" {
			HandleAPIError(c, apperrors.ErrMissingAPIKey)
			return
		}

		status, err := m.rdb.Get(c.Request.Context(), fmt.Sprintf("%s:status", key)).Result()
		if err != nil && err != redis.Nil {
			HandleAPIError(c, fmt.Errorf("checking API key: %w", err))
			return
		}
		if status != "pending" && status != "active" {
			HandleAPIError(c, apperrors.ErrInvalidAPIKey)
			return
		}

		if err := m.rdb.Incr(c.Request.Context(), fmt.Sprintf("%s:requests", key)).Err(); err != nil {
			logger.Warn().Err(err).Msg("Failed to count API key request")
		}

		c.Next()
	}
}
