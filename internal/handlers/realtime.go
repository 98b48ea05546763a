package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pressroom/internal/logger"
	"pressroom/internal/services"

	"go.uber.org/zap"
)

type RealtimeHandler struct {
	hub *services.ChangeHub
}

func NewRealtimeHandler(hub *services.ChangeHub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

const keepAliveInterval = 25 * time.Second

// StreamArticles godoc
// @Summary      Article change feed (admin only)
// @Description  Server-sent events; each event means "the articles table changed, re-fetch". Bursts coalesce.
// @Tags         admin-articles
// @Security     ApiKeyAuth
// @Produce      text/event-stream
// @Success      200  {string}  string  "event stream"
// @Router       /api/admin/articles/stream [get]
func (h *RealtimeHandler) StreamArticles(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.hub.Subscribe("articles")
	defer sub.Close()

	log := logger.WithCtx(r.Context())
	log.Info("realtime stream opened")

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			// Covers abnormal session termination too: context
			// cancellation releases the subscription via the deferred
			// Close.
			log.Info("realtime stream closed")
			return
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case ev, open := <-sub.C():
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				log.Error("change event marshal failed", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
