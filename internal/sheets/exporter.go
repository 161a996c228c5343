// Package sheets appends confirmed appointments to a Google Sheet so the
// sales team keeps its existing workflow.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/rrcordoba/volky/pkg/logging"
)

// Appointment is one exported row: Nombre, Teléfono, Fecha, Hora.
type Appointment struct {
	Name  string
	Phone string
	Date  string
	Slot  string
}

// Config holds the spreadsheet target and service account credentials.
type Config struct {
	SpreadsheetID   string
	CredentialsFile string
	// Range the rows are appended to, defaults to the first sheet.
	Range string
}

// Exporter appends rows through the Sheets API.
type Exporter struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	writeRange    string
	logger        *logging.Logger
}

// New creates an Exporter. Returns nil without error when no spreadsheet is
// configured, so callers can wire it unconditionally.
func New(ctx context.Context, cfg Config, logger *logging.Logger, opts ...option.ClientOption) (*Exporter, error) {
	if cfg.SpreadsheetID == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Range == "" {
		cfg.Range = "Hoja1!A:D"
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}
	return &Exporter{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		writeRange:    cfg.Range,
		logger:        logger,
	}, nil
}

// AppendAppointment appends one row. Safe to call on a nil exporter.
func (e *Exporter) AppendAppointment(ctx context.Context, name, phone, date, slot string) error {
	if e == nil || e.svc == nil {
		return nil
	}
	row := &sheetsapi.ValueRange{
		Values: [][]interface{}{{name, phone, date, slot}},
	}
	_, err := e.svc.Spreadsheets.Values.
		Append(e.spreadsheetID, e.writeRange, row).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append appointment: %w", err)
	}
	e.logger.Info("appointment exported", "phone", phone, "slot", slot)
	return nil
}

// Appointments reads every exported row back, skipping the header when the
// first row looks like one.
func (e *Exporter) Appointments(ctx context.Context) ([]Appointment, error) {
	if e == nil || e.svc == nil {
		return nil, nil
	}
	resp, err := e.svc.Spreadsheets.Values.
		Get(e.spreadsheetID, e.writeRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read appointments: %w", err)
	}
	var out []Appointment
	for i, row := range resp.Values {
		appt := rowToAppointment(row)
		if i == 0 && appt.Name == "Nombre" {
			continue
		}
		out = append(out, appt)
	}
	return out, nil
}

func rowToAppointment(row []interface{}) Appointment {
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		s, _ := row[i].(string)
		return s
	}
	return Appointment{Name: cell(0), Phone: cell(1), Date: cell(2), Slot: cell(3)}
}
