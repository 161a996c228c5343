package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rrcordoba/volky/internal/leads"
	"github.com/rrcordoba/volky/internal/observability/metrics"
	"github.com/rrcordoba/volky/internal/whatsapp"
	"github.com/rrcordoba/volky/pkg/logging"
)

// Sender delivers one outbound message. Implemented by the WhatsApp client.
type Sender interface {
	Send(ctx context.Context, msg whatsapp.Message) error
}

// Exporter appends a confirmed appointment to an external sheet.
type Exporter interface {
	AppendAppointment(ctx context.Context, name, phone, date, slot string) error
}

// Notifier alerts the sales team about a confirmed appointment.
type Notifier interface {
	NotifyAppointment(ctx context.Context, lead leads.Lead, phone, slot string) error
}

// HandlerConfig wires the collaborators of a Handler. Repo and Sender are
// required; everything else is optional.
type HandlerConfig struct {
	Repo        leads.Repository
	Sender      Sender
	Transcripts *TranscriptStore
	Exporter    Exporter
	Notifier    Notifier
	Metrics     *metrics.ConversationMetrics
	Logger      *logging.Logger
	Location    *time.Location
	Now         func() time.Time

	// WelcomeStickerID, when set, adds a sticker to the greeting response.
	WelcomeStickerID string
}

// Handler runs one conversation turn per inbound event: mark read, passive
// capture, intent classification, response delivery. Turns for the same
// number are serialized; different numbers run concurrently.
type Handler struct {
	repo           leads.Repository
	sender         Sender
	transcripts    *TranscriptStore
	exporter       Exporter
	notifier       Notifier
	metrics        *metrics.ConversationMetrics
	logger         *logging.Logger
	location       *time.Location
	now            func() time.Time
	welcomeSticker string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewHandler creates a Handler. Panics when a required collaborator is nil.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Repo == nil {
		panic("conversation: Repo is required")
	}
	if cfg.Sender == nil {
		panic("conversation: Sender is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		repo:           cfg.Repo,
		sender:         cfg.Sender,
		transcripts:    cfg.Transcripts,
		exporter:       cfg.Exporter,
		notifier:       cfg.Notifier,
		metrics:        cfg.Metrics,
		logger:         logger,
		location:       location,
		now:            now,
		welcomeSticker: cfg.WelcomeStickerID,
		locks:          make(map[string]*sync.Mutex),
	}
}

func (h *Handler) lockFor(number string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	lock, ok := h.locks[number]
	if !ok {
		lock = &sync.Mutex{}
		h.locks[number] = lock
	}
	return lock
}

// persist applies a partial update, logging and swallowing storage errors
// so a turn never fails on persistence.
func (h *Handler) persist(ctx context.Context, number string, upd leads.Update) {
	if _, err := h.repo.Update(ctx, number, upd); err != nil {
		h.logger.Warn("lead update failed", "number", number, "error", err)
	}
}

// HandleEvent runs the whole turn for one inbound event.
func (h *Handler) HandleEvent(ctx context.Context, evt *whatsapp.Event) error {
	if evt == nil {
		return fmt.Errorf("conversation: nil event")
	}
	lock := h.lockFor(evt.From)
	lock.Lock()
	defer lock.Unlock()

	started := h.now()

	out := []whatsapp.Message{whatsapp.MarkRead(evt.MessageID)}

	lead, err := h.repo.GetOrCreate(ctx, evt.From)
	if err != nil {
		h.logger.Warn("lead load failed, continuing with empty profile",
			"number", evt.From, "error", err)
		lead = &leads.Lead{}
	}

	t := &turn{
		Text:      evt.Text,
		Number:    evt.From,
		MessageID: evt.MessageID,
		Model:     ParseModel(evt.Text),
	}

	// Passive capture. Each hit mutates the lead and queues a short
	// acknowledgement; unchanged values stay silent.
	if name := ParseName(evt.Text); name != "" && lead.Name == "" {
		lead.Name = name
		h.persist(ctx, evt.From, leads.Update{Name: leads.String(name)})
		out = append(out, whatsapp.ReplyText(evt.From, evt.MessageID,
			fmt.Sprintf("¡Gracias, *%s*! 😊", name)))
	}
	if amount := ParseAmount(evt.Text); amount != 0 && amount != lead.DownPayment {
		lead.DownPayment = amount
		h.persist(ctx, evt.From, leads.Update{DownPayment: leads.Int(amount)})
		out = append(out, whatsapp.ReplyText(evt.From, evt.MessageID,
			fmt.Sprintf("Perfecto, anoto tu *enganche* por $%s MXN.", formatAmount(amount))))
	}
	if payment := ParsePayment(evt.Text); payment != "" && payment != lead.Payment {
		lead.Payment = payment
		h.persist(ctx, evt.From, leads.Update{Payment: leads.String(payment)})
		out = append(out, whatsapp.ReplyText(evt.From, evt.MessageID,
			fmt.Sprintf("Entendido, sería *%s*.", payment)))
	}
	if tradeIn := ParseTradeIn(evt.Text); tradeIn != "" && lead.TradeIn == "" {
		lead.TradeIn = tradeIn
		h.persist(ctx, evt.From, leads.Update{TradeIn: leads.String(tradeIn)})
		out = append(out, whatsapp.ReplyText(evt.From, evt.MessageID,
			"¡Excelente! Anoto tu *auto a cuenta* para la valuación."))
	}
	if t.Model != "" && t.Model != lead.TargetModel {
		lead.TargetModel = t.Model
		h.persist(ctx, evt.From, leads.Update{TargetModel: leads.String(t.Model)})
		out = append(out, whatsapp.ReplyText(evt.From, evt.MessageID,
			fmt.Sprintf("Excelente elección: *%s*.", t.Model)))
	}

	intent := Classify(t)

	// Intent side effects happen before response building so the reply
	// reflects the new state.
	switch intent {
	case IntentTestDrive:
		lead.TestDrive = true
		h.persist(ctx, evt.From, leads.Update{TestDrive: leads.Bool(true)})
	case IntentPickSlot:
		slot := strings.ToUpper(evt.Text)
		if lead.TestDrive {
			lead.TestDriveDate = slot
			h.persist(ctx, evt.From, leads.Update{TestDriveDate: leads.String(slot)})
		} else {
			lead.AppointmentDate = slot
			h.persist(ctx, evt.From, leads.Update{AppointmentDate: leads.String(slot)})
		}
		h.appointmentConfirmed(ctx, evt.From, *lead, slot)
	case IntentReset:
		if err := h.repo.Delete(ctx, evt.From); err != nil {
			h.logger.Warn("lead delete failed", "number", evt.From, "error", err)
		}
	}

	if intent == IntentGreeting && h.welcomeSticker != "" {
		out = append(out, whatsapp.Sticker(evt.From, h.welcomeSticker))
	}
	out = append(out, respond(intent, t, lead, h.now().In(h.location))...)

	// Ordered delivery. Failures are logged and counted but never retried
	// here and never roll back the lead.
	for _, msg := range out {
		status := "ok"
		if err := h.sender.Send(ctx, msg); err != nil {
			status = "error"
			h.logger.Warn("send failed",
				"number", evt.From, "kind", msg.Kind, "error", err)
		}
		h.metrics.ObserveOutbound(msg.Kind, status)
	}

	if err := h.transcripts.Append(ctx, TranscriptEntry{
		Phone:       evt.From,
		MessageID:   evt.MessageID,
		ProfileName: evt.ProfileName,
		Text:        evt.Text,
		Intent:      string(intent),
		Replies:     len(out),
	}); err != nil {
		h.logger.Warn("transcript append failed", "number", evt.From, "error", err)
	}

	h.metrics.ObserveTurn(string(intent), h.now().Sub(started).Seconds())
	h.logger.Info("turn handled",
		"number", evt.From, "intent", string(intent), "replies", len(out))
	return nil
}

// appointmentConfirmed fans a confirmed slot out to the sheet exporter and
// the sales notifier. Both are best-effort.
func (h *Handler) appointmentConfirmed(ctx context.Context, number string, lead leads.Lead, slot string) {
	date := h.now().In(h.location).Format("2006-01-02")
	if h.exporter != nil {
		if err := h.exporter.AppendAppointment(ctx, lead.Name, number, date, slot); err != nil {
			h.logger.Warn("appointment export failed", "number", number, "error", err)
		}
	}
	if h.notifier != nil {
		if err := h.notifier.NotifyAppointment(ctx, lead, number, slot); err != nil {
			h.logger.Warn("appointment notify failed", "number", number, "error", err)
		}
	}
}
