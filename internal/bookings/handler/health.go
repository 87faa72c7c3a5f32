package handler

import (
	"context"
	"net/http"
	"time"

	httputil "restobook/pkg/http"
	"restobook/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Cache    string `json:"cache,omitempty"`
}

// Pinger reports whether a backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type mongoPinger struct {
	client *mongo.Client
}

func (p mongoPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, nil)
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

type HealthHandler struct {
	database Pinger
	cache    Pinger
	log      *logger.Logger
}

// NewHealthHandler checks Redis only when a client is given.
func NewHealthHandler(mongoClient *mongo.Client, redisClient *redis.Client, log *logger.Logger) *HealthHandler {
	h := &HealthHandler{
		database: mongoPinger{client: mongoClient},
		log:      log,
	}
	if redisClient != nil {
		h.cache = redisPinger{client: redisClient}
	}
	return h
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	resp := HealthResponse{Status: "ready", Database: "ok"}

	if err := h.database.Ping(ctx); err != nil {
		h.log.Error("Database health check failed", "error", err, "path", r.URL.Path)
		status = http.StatusServiceUnavailable
		resp.Status = "unavailable"
		resp.Database = "error"
	}

	if h.cache != nil {
		resp.Cache = "ok"
		// The cache is optional, so a failing Redis degrades but does not fail readiness.
		if err := h.cache.Ping(ctx); err != nil {
			h.log.Warn("Cache health check failed", "error", err, "path", r.URL.Path)
			resp.Cache = "error"
		}
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
