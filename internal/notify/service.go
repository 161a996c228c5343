package notify

import (
	"context"
	"fmt"

	"github.com/rrcordoba/volky/internal/leads"
	"github.com/rrcordoba/volky/pkg/logging"
)

// Service emails the sales inbox when a customer confirms an appointment.
type Service struct {
	email      EmailSender
	salesEmail string
	logger     *logging.Logger
}

// NewService creates the notification service. A nil email sender or empty
// sales address turns notifications into logged no-ops.
func NewService(email EmailSender, salesEmail string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, salesEmail: salesEmail, logger: logger}
}

func orPending(s string) string {
	if s == "" {
		return "por confirmar"
	}
	return s
}

// NotifyAppointment sends the sales team a summary of the confirmed slot
// and everything captured about the lead so far.
func (s *Service) NotifyAppointment(ctx context.Context, lead leads.Lead, phone, slot string) error {
	if s.email == nil || s.salesEmail == "" {
		s.logger.Debug("notify: email not configured, skipping appointment notification",
			"phone", phone)
		return nil
	}

	name := lead.Name
	if name == "" {
		name = "Cliente sin nombre"
	}
	downPayment := "por confirmar"
	if lead.DownPayment != 0 {
		downPayment = fmt.Sprintf("$%d MXN", lead.DownPayment)
	}
	testDrive := "No"
	if lead.TestDrive {
		testDrive = "Sí"
	}

	body := fmt.Sprintf(
		"Nueva cita confirmada por WhatsApp.\n\n"+
			"Cliente: %s\n"+
			"Teléfono: %s\n"+
			"Horario: %s\n"+
			"Modelo de interés: %s\n"+
			"Pago: %s\n"+
			"Enganche: %s\n"+
			"Auto a cuenta: %s\n"+
			"Prueba de manejo: %s\n",
		name, phone, slot,
		orPending(lead.TargetModel), orPending(lead.Payment),
		downPayment, orPending(lead.TradeIn), testDrive,
	)

	msg := EmailMessage{
		To:      s.salesEmail,
		ToName:  "Ventas R&R Córdoba",
		Subject: fmt.Sprintf("Nueva cita: %s (%s)", name, slot),
		Body:    body,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: appointment email: %w", err)
	}
	return nil
}
