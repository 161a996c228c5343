package leads

import "time"

// Lead is the evolving profile of one prospective customer, keyed by the
// normalized phone number. Zero values mean "not captured yet"; the JSON
// field names keep the store file compatible with the legacy format.
type Lead struct {
	Name            string    `json:"nombre,omitempty"`
	DownPayment     int       `json:"enganche,omitempty"`
	Payment         string    `json:"pago,omitempty"`
	TradeIn         string    `json:"auto_a_cuenta,omitempty"`
	TargetModel     string    `json:"auto_objetivo,omitempty"`
	AppointmentDate string    `json:"fecha_cita,omitempty"`
	TestDriveDate   string    `json:"fecha_prueba,omitempty"`
	TestDrive       bool      `json:"prueba_manejo"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Payment method values captured from messages.
const (
	PaymentCredit = "crédito"
	PaymentCash   = "contado"
)

// Update is a partial mutation: only non-nil fields are merged into the
// stored record. Fields a backend does not recognize simply do not exist
// here, so unknown keys can never reach a store.
type Update struct {
	Name            *string
	DownPayment     *int
	Payment         *string
	TradeIn         *string
	TargetModel     *string
	AppointmentDate *string
	TestDriveDate   *string
	TestDrive       *bool
}

// apply merges the update into the lead, returning true when any field changed.
func (u Update) apply(lead *Lead) bool {
	changed := false
	if u.Name != nil && lead.Name != *u.Name {
		lead.Name = *u.Name
		changed = true
	}
	if u.DownPayment != nil && lead.DownPayment != *u.DownPayment {
		lead.DownPayment = *u.DownPayment
		changed = true
	}
	if u.Payment != nil && lead.Payment != *u.Payment {
		lead.Payment = *u.Payment
		changed = true
	}
	if u.TradeIn != nil && lead.TradeIn != *u.TradeIn {
		lead.TradeIn = *u.TradeIn
		changed = true
	}
	if u.TargetModel != nil && lead.TargetModel != *u.TargetModel {
		lead.TargetModel = *u.TargetModel
		changed = true
	}
	if u.AppointmentDate != nil && lead.AppointmentDate != *u.AppointmentDate {
		lead.AppointmentDate = *u.AppointmentDate
		changed = true
	}
	if u.TestDriveDate != nil && lead.TestDriveDate != *u.TestDriveDate {
		lead.TestDriveDate = *u.TestDriveDate
		changed = true
	}
	if u.TestDrive != nil && lead.TestDrive != *u.TestDrive {
		lead.TestDrive = *u.TestDrive
		changed = true
	}
	return changed
}

// String returns a pointer to s, for building partial updates.
func String(s string) *string { return &s }

// Int returns a pointer to n, for building partial updates.
func Int(n int) *int { return &n }

// Bool returns a pointer to b, for building partial updates.
func Bool(b bool) *bool { return &b }
