package leads

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database, one row per phone.
type PostgresRepository struct {
	pool pgxQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// newPostgresRepositoryWithQuerier wires an arbitrary querier (tests).
func newPostgresRepositoryWithQuerier(q pgxQuerier) *PostgresRepository {
	if q == nil {
		panic("leads: querier required")
	}
	return &PostgresRepository{pool: q}
}

const leadColumns = `nombre, enganche, pago, auto_a_cuenta, auto_objetivo, fecha_cita, fecha_prueba, prueba_manejo, created_at, updated_at`

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	if err := row.Scan(
		&lead.Name,
		&lead.DownPayment,
		&lead.Payment,
		&lead.TradeIn,
		&lead.TargetModel,
		&lead.AppointmentDate,
		&lead.TestDriveDate,
		&lead.TestDrive,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}

// GetOrCreate inserts a default row for unseen phones and returns the record.
func (r *PostgresRepository) GetOrCreate(ctx context.Context, phone string) (*Lead, error) {
	if phone == "" {
		return nil, ErrMissingPhone
	}
	query := `
		INSERT INTO leads (phone)
		VALUES ($1)
		ON CONFLICT (phone) DO UPDATE SET phone = EXCLUDED.phone
		RETURNING ` + leadColumns
	lead, err := scanLead(r.pool.QueryRow(ctx, query, phone))
	if err != nil {
		return nil, fmt.Errorf("leads: upsert failed: %w", err)
	}
	return lead, nil
}

// Get fetches the lead for a phone.
func (r *PostgresRepository) Get(ctx context.Context, phone string) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE phone = $1`
	lead, err := scanLead(r.pool.QueryRow(ctx, query, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// Update merges only the non-nil fields and stamps updated_at, creating the
// row first when the phone is unseen.
func (r *PostgresRepository) Update(ctx context.Context, phone string, upd Update) (*Lead, error) {
	if phone == "" {
		return nil, ErrMissingPhone
	}
	if _, err := r.GetOrCreate(ctx, phone); err != nil {
		return nil, err
	}
	query := `
		UPDATE leads SET
			nombre = COALESCE($2, nombre),
			enganche = COALESCE($3, enganche),
			pago = COALESCE($4, pago),
			auto_a_cuenta = COALESCE($5, auto_a_cuenta),
			auto_objetivo = COALESCE($6, auto_objetivo),
			fecha_cita = COALESCE($7, fecha_cita),
			fecha_prueba = COALESCE($8, fecha_prueba),
			prueba_manejo = COALESCE($9, prueba_manejo),
			updated_at = NOW()
		WHERE phone = $1
		RETURNING ` + leadColumns
	lead, err := scanLead(r.pool.QueryRow(ctx, query,
		phone,
		upd.Name,
		upd.DownPayment,
		upd.Payment,
		upd.TradeIn,
		upd.TargetModel,
		upd.AppointmentDate,
		upd.TestDriveDate,
		upd.TestDrive,
	))
	if err != nil {
		return nil, fmt.Errorf("leads: update failed: %w", err)
	}
	return lead, nil
}

// Delete removes the row; absent phones are a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, phone string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE phone = $1`, phone); err != nil {
		return fmt.Errorf("leads: delete failed: %w", err)
	}
	return nil
}

// List returns every stored lead keyed by phone.
func (r *PostgresRepository) List(ctx context.Context) (map[string]Lead, error) {
	rows, err := r.pool.Query(ctx, `SELECT phone, `+leadColumns+` FROM leads`)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Lead)
	for rows.Next() {
		var phone string
		var lead Lead
		if err := rows.Scan(
			&phone,
			&lead.Name,
			&lead.DownPayment,
			&lead.Payment,
			&lead.TradeIn,
			&lead.TargetModel,
			&lead.AppointmentDate,
			&lead.TestDriveDate,
			&lead.TestDrive,
			&lead.CreatedAt,
			&lead.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out[phone] = lead
	}
	return out, rows.Err()
}
