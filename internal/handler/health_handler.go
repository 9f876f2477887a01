package handler

import (
	"context"
	"net/http"
	"time"

	"countryvote/pkg/database"
	"countryvote/pkg/logger"
	"countryvote/pkg/redis"
)

type HealthHandler struct {
	db     *database.PostgresDB
	redis  *redis.Client
	logger *logger.Logger
}

func NewHealthHandler(db *database.PostgresDB, redisClient *redis.Client, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}

	if h.db != nil {
		if err := h.db.Health(ctx); err != nil {
			h.logger.WithError(err).Warn("Database health check failed")
			checks["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	if h.redis != nil {
		if err := h.redis.Health(ctx); err != nil {
			h.logger.WithError(err).Warn("Redis health check failed")
			checks["redis"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	respondJSON(w, status, map[string]interface{}{
		"status": http.StatusText(status),
		"checks": checks,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
