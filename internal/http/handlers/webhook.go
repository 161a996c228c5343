package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rrcordoba/volky/internal/events"
	observemetrics "github.com/rrcordoba/volky/internal/observability/metrics"
	"github.com/rrcordoba/volky/internal/whatsapp"
	"github.com/rrcordoba/volky/pkg/logging"
)

// conversationHandler runs one turn for a parsed inbound event.
type conversationHandler interface {
	HandleEvent(ctx context.Context, evt *whatsapp.Event) error
}

// WebhookHandler serves the Cloud API webhook: subscription verification on
// GET, inbound message delivery on POST.
type WebhookHandler struct {
	verifyToken string
	handler     conversationHandler
	processed   *events.ProcessedStore
	logger      *logging.Logger
	metrics     *observemetrics.ConversationMetrics
}

// WebhookConfig wires the webhook handler.
type WebhookConfig struct {
	VerifyToken string
	Handler     conversationHandler
	Processed   *events.ProcessedStore
	Logger      *logging.Logger
	Metrics     *observemetrics.ConversationMetrics
}

// NewWebhookHandler creates the handler. Panics without a conversation
// handler to delegate to.
func NewWebhookHandler(cfg WebhookConfig) *WebhookHandler {
	if cfg.Handler == nil {
		panic("handlers: conversation handler is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &WebhookHandler{
		verifyToken: cfg.VerifyToken,
		handler:     cfg.Handler,
		processed:   cfg.Processed,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
}

// Verify answers the subscription handshake: echo hub.challenge when
// hub.verify_token matches, 403 otherwise.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")
	if h.verifyToken == "" || token != h.verifyToken || challenge == "" {
		http.Error(w, "token incorrecto", http.StatusForbidden)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(challenge))
}

// Receive handles one webhook delivery. The provider retries anything but
// 200, so parse failures still answer 200 with a failure body.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var payload whatsapp.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Warn("webhook decode failed", "error", err)
		h.metrics.ObserveInbound("malformed")
		respondText(w, "no enviado")
		return
	}
	evt, err := whatsapp.ParseEvent(payload)
	if err != nil {
		h.logger.Warn("webhook parse failed", "error", err)
		h.metrics.ObserveInbound("malformed")
		respondText(w, "no enviado")
		return
	}

	first, err := h.processed.MarkProcessed(r.Context(), evt.MessageID)
	if err != nil {
		h.logger.Warn("dedupe lookup failed, handling anyway",
			"message_id", evt.MessageID, "error", err)
		first = true
	}
	if !first {
		h.metrics.ObserveInbound("duplicate")
		respondText(w, "enviado")
		return
	}

	if err := h.handler.HandleEvent(r.Context(), evt); err != nil {
		h.logger.Error("turn failed", "message_id", evt.MessageID, "error", err)
		h.metrics.ObserveInbound("error")
		respondText(w, "no enviado")
		return
	}
	h.metrics.ObserveInbound("ok")
	respondText(w, "enviado")
}

// Welcome is a human-friendly landing route.
func (h *WebhookHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	respondText(w, "Hola mi nombre es Volky, ¿en que puedo ayudarte?")
}

// HealthCheck reports liveness.
func (h *WebhookHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func respondText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}
