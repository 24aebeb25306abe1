package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/models"
	"github.com/BrandonDavidJones1/hire-bot/internal/platform/middleware"
	dErrors "github.com/BrandonDavidJones1/hire-bot/pkg/domain-errors"
	"github.com/BrandonDavidJones1/hire-bot/pkg/platform/httputil"
)

// MessageHandler is the slice of the onboarding engine the webhook needs.
type MessageHandler interface {
	HandleMessage(ctx context.Context, authorID string, channel models.ChannelKind, content string)
}

// event is the inbound webhook payload: one message-created delivery.
type event struct {
	Type    string `json:"type"`
	Message struct {
		AuthorID    string `json:"author_id"`
		AuthorIsBot bool   `json:"author_is_bot"`
		ChannelKind string `json:"channel_kind"`
		Content     string `json:"content"`
	} `json:"message"`
}

const eventMessageCreated = "message_created"

// Handler receives gateway event deliveries and dispatches them to the
// onboarding engine.
type Handler struct {
	service MessageHandler
	logger  *slog.Logger
}

func NewHandler(service MessageHandler, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// HandleEvent accepts one event. Accepted messages are dispatched
// asynchronously so webhook latency never includes a signing pipeline run;
// per-user ordering is enforced inside the engine.
func (h *Handler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var ev event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed event payload"))
		return
	}

	if ev.Type != eventMessageCreated {
		httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "ignored"})
		return
	}

	msg := ev.Message
	if msg.AuthorIsBot || msg.AuthorID == "" || models.ChannelKind(msg.ChannelKind) != models.ChannelDM {
		httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "ignored"})
		return
	}

	// Detach from the request context: the dispatch must outlive the webhook
	// response.
	ctx := context.WithoutCancel(r.Context())
	go h.service.HandleMessage(ctx, msg.AuthorID, models.ChannelDM, msg.Content)

	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// NewRouter wires the webhook, health, and metrics endpoints. The webhook
// secret guards only /gateway/events; health and metrics stay open for probes
// and scrapers.
func NewRouter(handler *Handler, webhookSecret string, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.WebhookAuth(webhookSecret, logger))
		r.Post("/gateway/events", handler.HandleEvent)
	})

	return r
}
