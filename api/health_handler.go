package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rpupo63/portfolia-backend/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	db          database.Database
	startupTime time.Time
}

func newHealthHandler(db database.Database, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		db:          db,
		startupTime: startupTime,
	}
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := HealthResponse{
			Status:   "ok",
			Database: "ok",
			Uptime:   time.Since(h.startupTime).Round(time.Second).String(),
		}
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("database ping failed")
			resp.Status = "degraded"
			resp.Database = "unreachable"
			h.responder.WriteJSONStatus(w, http.StatusServiceUnavailable, resp)
			return
		}
		h.responder.WriteJSON(w, resp)
	}
}
