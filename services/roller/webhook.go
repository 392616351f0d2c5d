package roller

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"ligmir-backend/services/telegram"
)

// Webhook is the inbound http surface. Update handling is dispatched
// to the pool so webhook acknowledgement latency is decoupled from
// scrape latency.
type Webhook struct {
	service Service
	pool    *Pool
}

func NewWebhook(service Service, pool *Pool) Webhook {
	return Webhook{service: service, pool: pool}
}

func (w Webhook) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /telegram/update/{token}", w.handleUpdate)
	mux.HandleFunc("GET /health", handleHealth)
}

func (w Webhook) handleUpdate(res http.ResponseWriter, req *http.Request) {
	// the token only addresses the reply, it is not checked against a
	// configured secret
	token := req.PathValue("token")
	if token == "" {
		http.NotFound(res, req)
		return
	}

	var update telegram.Update
	err := json.NewDecoder(req.Body).Decode(&update)
	if err != nil {
		slog.WarnContext(req.Context(), "undecodable update payload", "err", err)
		http.Error(res, "bad update payload", http.StatusBadRequest)
		return
	}

	submitted := w.pool.Submit(func(ctx context.Context) {
		w.service.HandleUpdate(ctx, token, &update)
	})
	if !submitted {
		rejectedTasks.Add(req.Context(), 1)
		slog.WarnContext(req.Context(), "worker pool saturated, rejecting update", "update_id", update.UpdateID)
		http.Error(res, "try again later", http.StatusServiceUnavailable)
		return
	}

	res.WriteHeader(http.StatusOK)
}

func handleHealth(res http.ResponseWriter, req *http.Request) {
	res.Write([]byte("OK"))
}
