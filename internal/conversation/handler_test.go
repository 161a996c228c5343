package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rrcordoba/volky/internal/leads"
	"github.com/rrcordoba/volky/internal/whatsapp"
)

type fakeSender struct {
	msgs []whatsapp.Message
}

func (s *fakeSender) Send(ctx context.Context, msg whatsapp.Message) error {
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *fakeSender) kinds() []string {
	out := make([]string, 0, len(s.msgs))
	for _, m := range s.msgs {
		out = append(out, m.Kind)
	}
	return out
}

func (s *fakeSender) countKind(kind string) int {
	n := 0
	for _, m := range s.msgs {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

type fakeExporter struct {
	rows [][4]string
}

func (e *fakeExporter) AppendAppointment(ctx context.Context, name, phone, date, slot string) error {
	e.rows = append(e.rows, [4]string{name, phone, date, slot})
	return nil
}

type fakeNotifier struct {
	notified int
}

func (n *fakeNotifier) NotifyAppointment(ctx context.Context, lead leads.Lead, phone, slot string) error {
	n.notified++
	return nil
}

func newTestHandler(repo leads.Repository, sender Sender) *Handler {
	return NewHandler(HandlerConfig{
		Repo:     repo,
		Sender:   sender,
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	})
}

func event(text string) *whatsapp.Event {
	return &whatsapp.Event{
		From:        "523312345678",
		MessageID:   "wamid.test",
		ProfileName: "Cliente",
		Text:        text,
	}
}

func TestHandleEventMarksReadFirst(t *testing.T) {
	sender := &fakeSender{}
	h := newTestHandler(leads.NewInMemoryRepository(), sender)

	if err := h.HandleEvent(context.Background(), event("hola")); err != nil {
		t.Fatal(err)
	}
	kinds := sender.kinds()
	if len(kinds) == 0 || kinds[0] != whatsapp.KindRead {
		t.Errorf("first delivered message must be the read receipt, got %v", kinds)
	}
}

func TestHandleEventDownPaymentIdempotent(t *testing.T) {
	sender := &fakeSender{}
	repo := leads.NewInMemoryRepository()
	h := newTestHandler(repo, sender)
	ctx := context.Background()

	if err := h.HandleEvent(ctx, event("doy 50 mil de enganche")); err != nil {
		t.Fatal(err)
	}
	if got := sender.countKind(whatsapp.KindReply); got != 1 {
		t.Fatalf("first mention should ack once, got %d acks", got)
	}

	sender.msgs = nil
	if err := h.HandleEvent(ctx, event("doy 50 mil de enganche")); err != nil {
		t.Fatal(err)
	}
	if got := sender.countKind(whatsapp.KindReply); got != 0 {
		t.Errorf("repeating the same amount must stay silent, got %d acks", got)
	}

	lead, err := repo.Get(ctx, "523312345678")
	if err != nil {
		t.Fatal(err)
	}
	if lead.DownPayment != 50000 {
		t.Errorf("stored down payment = %d, want 50000", lead.DownPayment)
	}
}

func TestHandleEventNameIsSticky(t *testing.T) {
	sender := &fakeSender{}
	repo := leads.NewInMemoryRepository()
	h := newTestHandler(repo, sender)
	ctx := context.Background()

	if err := h.HandleEvent(ctx, event("me llamo juan pérez")); err != nil {
		t.Fatal(err)
	}
	if err := h.HandleEvent(ctx, event("me llamo pedro gómez")); err != nil {
		t.Fatal(err)
	}

	lead, err := repo.Get(ctx, "523312345678")
	if err != nil {
		t.Fatal(err)
	}
	if lead.Name != "juan pérez" {
		t.Errorf("name must not be overwritten, got %q", lead.Name)
	}
}

func TestHandleEventSlotRouting(t *testing.T) {
	ctx := context.Background()

	t.Run("appointment", func(t *testing.T) {
		repo := leads.NewInMemoryRepository()
		h := newTestHandler(repo, &fakeSender{})
		if err := h.HandleEvent(ctx, event("10:00 AM - 12:00 PM")); err != nil {
			t.Fatal(err)
		}
		lead, err := repo.Get(ctx, "523312345678")
		if err != nil {
			t.Fatal(err)
		}
		if lead.AppointmentDate != "10:00 AM - 12:00 PM" {
			t.Errorf("appointment date = %q", lead.AppointmentDate)
		}
		if lead.TestDriveDate != "" {
			t.Errorf("test drive date should stay empty, got %q", lead.TestDriveDate)
		}
	})

	t.Run("test drive pending", func(t *testing.T) {
		repo := leads.NewInMemoryRepository()
		h := newTestHandler(repo, &fakeSender{})
		if err := h.HandleEvent(ctx, event("quiero una prueba de manejo")); err != nil {
			t.Fatal(err)
		}
		if err := h.HandleEvent(ctx, event("10:00 AM - 12:00 PM")); err != nil {
			t.Fatal(err)
		}
		lead, err := repo.Get(ctx, "523312345678")
		if err != nil {
			t.Fatal(err)
		}
		if lead.TestDriveDate != "10:00 AM - 12:00 PM" {
			t.Errorf("test drive date = %q", lead.TestDriveDate)
		}
	})
}

func TestHandleEventSlotConfirmationFansOut(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	sender := &fakeSender{}
	exporter := &fakeExporter{}
	notifier := &fakeNotifier{}
	h := NewHandler(HandlerConfig{
		Repo:     repo,
		Sender:   sender,
		Exporter: exporter,
		Notifier: notifier,
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	})
	ctx := context.Background()

	if err := h.HandleEvent(ctx, event("me llamo ana lópez")); err != nil {
		t.Fatal(err)
	}
	if err := h.HandleEvent(ctx, event("12:30 PM - 3:00 PM")); err != nil {
		t.Fatal(err)
	}

	if len(exporter.rows) != 1 {
		t.Fatalf("expected 1 exported appointment, got %d", len(exporter.rows))
	}
	row := exporter.rows[0]
	if row[0] != "ana lópez" || row[1] != "523312345678" || row[3] != "12:30 PM - 3:00 PM" {
		t.Errorf("unexpected exported row: %v", row)
	}
	if notifier.notified != 1 {
		t.Errorf("expected 1 notification, got %d", notifier.notified)
	}
}

func TestHandleEventReset(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	h := newTestHandler(repo, &fakeSender{})
	ctx := context.Background()

	if err := h.HandleEvent(ctx, event("me llamo juan pérez")); err != nil {
		t.Fatal(err)
	}
	if err := h.HandleEvent(ctx, event("borrar datos")); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Get(ctx, "523312345678"); !errors.Is(err, leads.ErrLeadNotFound) {
		t.Fatalf("lead should be gone after reset, got %v", err)
	}

	// The next event starts from a clean profile.
	if err := h.HandleEvent(ctx, event("hola")); err != nil {
		t.Fatal(err)
	}
	lead, err := repo.Get(ctx, "523312345678")
	if err != nil {
		t.Fatal(err)
	}
	if lead.Name != "" || lead.DownPayment != 0 {
		t.Errorf("recreated lead should be empty, got %+v", lead)
	}
}

func TestHandleEventModelAck(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	sender := &fakeSender{}
	h := newTestHandler(repo, sender)
	ctx := context.Background()

	if err := h.HandleEvent(ctx, event("jetta")); err != nil {
		t.Fatal(err)
	}
	lead, err := repo.Get(ctx, "523312345678")
	if err != nil {
		t.Fatal(err)
	}
	if lead.TargetModel != "JETTA 2025" {
		t.Errorf("target model = %q", lead.TargetModel)
	}
	// One ack plus the "what next" list for the model.
	if got := sender.countKind(whatsapp.KindReply); got != 1 {
		t.Errorf("expected 1 ack, got %d", got)
	}
	if got := sender.countKind(whatsapp.KindList); got != 1 {
		t.Errorf("expected 1 list, got %d", got)
	}
}

func TestHandleEventWelcomeSticker(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	sender := &fakeSender{}
	h := NewHandler(HandlerConfig{
		Repo:             repo,
		Sender:           sender,
		Location:         time.UTC,
		Now:              func() time.Time { return testNow },
		WelcomeStickerID: "mid-123",
	})
	ctx := context.Background()

	if err := h.HandleEvent(ctx, event("hola")); err != nil {
		t.Fatal(err)
	}
	if got := sender.countKind(whatsapp.KindSticker); got != 1 {
		t.Errorf("expected 1 sticker on greeting, got %d", got)
	}

	// Non-greeting turns never carry the sticker.
	sender.msgs = nil
	if err := h.HandleEvent(ctx, event("precios")); err != nil {
		t.Fatal(err)
	}
	if got := sender.countKind(whatsapp.KindSticker); got != 0 {
		t.Errorf("expected no sticker, got %d", got)
	}
}
