package sqlstore

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/DesignByOnyx/curbee-coding-exercise/internal/domain"
)

type index struct {
	model   any
	name    string
	columns []string
}

// Migrate creates the booking tables and their lookup indexes when absent.
func Migrate(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*domain.Customer)(nil),
		(*domain.Vehicle)(nil),
		(*domain.Location)(nil),
		(*domain.Appointment)(nil),
	}
	indexes := []index{
		{(*domain.Appointment)(nil), "appointments_window_idx", []string{"appointment_start_time", "appointment_end_time"}},
		{(*domain.Appointment)(nil), "appointments_customer_idx", []string{"customer_id"}},
		{(*domain.Appointment)(nil), "appointments_vehicle_idx", []string{"vehicle_id"}},
		{(*domain.Appointment)(nil), "appointments_location_idx", []string{"location_id"}},
		{(*domain.Vehicle)(nil), "vehicles_vin_idx", []string{"vin"}},
		{(*domain.Customer)(nil), "customers_email_idx", []string{"email"}},
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, m := range models {
			if _, err := tx.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("create table for %T: %w", m, err)
			}
		}
		for _, ix := range indexes {
			_, err := tx.NewCreateIndex().
				Model(ix.model).
				Index(ix.name).
				Column(ix.columns...).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("create index %s: %w", ix.name, err)
			}
		}
		return nil
	})
}
