package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/DesignByOnyx/curbee-coding-exercise/internal/domain"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/store"
)

type Store struct {
	db *bun.DB
}

var _ store.Store = (*Store)(nil)

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

type bookingTx struct {
	tx bun.Tx
}

var _ store.BookingTx = bookingTx{}

func (s *Store) InBookingTransaction(ctx context.Context, key string, fn func(ctx context.Context, tx store.BookingTx) error) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.lockBookings(ctx, tx, key); err != nil {
			return err
		}
		return fn(ctx, bookingTx{tx: tx})
	})
}

// lockBookings takes a transaction-scoped advisory lock on postgres. The
// sqlite pool has a single connection, which already serializes writers.
func (s *Store) lockBookings(ctx context.Context, tx bun.Tx, key string) error {
	if s.db.Dialect().Name() != dialect.PG {
		return nil
	}
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", "booking:"+key).Exec(ctx)
	return err
}

func (s *Store) GetAppointment(ctx context.Context, id string) (domain.Appointment, error) {
	return getByID[domain.Appointment](ctx, s.db, id)
}

func (s *Store) FindAppointments(ctx context.Context, f store.AppointmentFilter) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	q := s.db.NewSelect().Model(&rows)
	q = whereEq(q, "id", f.ID)
	q = whereEq(q, "location_id", f.LocationID)
	q = whereEq(q, "customer_id", f.CustomerID)
	q = whereEq(q, "vehicle_id", f.VehicleID)
	if f.AppointmentStartTime != nil {
		q = q.Where("appointment_start_time = ?", f.AppointmentStartTime.UTC())
	}
	if f.AppointmentEndTime != nil {
		q = q.Where("appointment_end_time = ?", f.AppointmentEndTime.UTC())
	}
	if err := q.OrderExpr("appointment_start_time ASC, id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	return getByID[domain.Customer](ctx, s.db, id)
}

func (s *Store) FindCustomers(ctx context.Context, f store.CustomerFilter) ([]domain.Customer, error) {
	var rows []domain.Customer
	q := s.db.NewSelect().Model(&rows)
	q = whereEq(q, "id", f.ID)
	q = whereEq(q, "first_name", f.FirstName)
	q = whereEq(q, "last_name", f.LastName)
	q = whereEq(q, "email", f.Email)
	if f.Phone != nil {
		q = q.Where("phone = ?", *f.Phone)
	}
	if err := q.OrderExpr("created_at ASC, id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	return createCustomer(ctx, s.db, c)
}

func (s *Store) GetVehicle(ctx context.Context, id string) (domain.Vehicle, error) {
	return getByID[domain.Vehicle](ctx, s.db, id)
}

func (s *Store) FindVehicles(ctx context.Context, f store.VehicleFilter) ([]domain.Vehicle, error) {
	var rows []domain.Vehicle
	q := s.db.NewSelect().Model(&rows)
	q = whereEq(q, "id", f.ID)
	q = whereEq(q, "vin", f.VIN)
	if err := q.OrderExpr("created_at ASC, id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) CreateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return createVehicle(ctx, s.db, v)
}

func (s *Store) GetLocation(ctx context.Context, id string) (domain.Location, error) {
	return getByID[domain.Location](ctx, s.db, id)
}

func (s *Store) FindLocations(ctx context.Context, f store.LocationFilter) ([]domain.Location, error) {
	var rows []domain.Location
	q := s.db.NewSelect().Model(&rows)
	q = whereEq(q, "id", f.ID)
	q = whereEq(q, "line1", f.Line1)
	q = whereEq(q, "line2", f.Line2)
	q = whereEq(q, "city", f.City)
	q = whereEq(q, "state", f.State)
	q = whereEq(q, "zip_code", f.ZipCode)
	if err := q.OrderExpr("created_at ASC, id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) CreateLocation(ctx context.Context, l domain.Location) (domain.Location, error) {
	return createLocation(ctx, s.db, l)
}

func (r bookingTx) GetAppointment(ctx context.Context, id string) (domain.Appointment, error) {
	return getByID[domain.Appointment](ctx, r.tx, id)
}

func (r bookingTx) ListAppointments(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.tx.NewSelect().
		Model(&rows).
		Where("appointment_start_time < ?", windowEnd.UTC()).
		Where("appointment_end_time > ?", windowStart.UTC()).
		OrderExpr("appointment_start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r bookingTx) CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := domain.Appointment{
		ID:                   appt.ID,
		AppointmentStartTime: appt.AppointmentStartTime.UTC(),
		AppointmentEndTime:   appt.AppointmentEndTime.UTC(),
		LocationID:           appt.LocationID,
		CustomerID:           appt.CustomerID,
		VehicleID:            appt.VehicleID,
		CreatedAt:            appt.CreatedAt,
	}
	if _, err := r.tx.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Appointment{}, mapWriteError(err)
	}
	return getByID[domain.Appointment](ctx, r.tx, m.ID)
}

func (r bookingTx) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	return getByID[domain.Customer](ctx, r.tx, id)
}

func (r bookingTx) CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	return createCustomer(ctx, r.tx, c)
}

func (r bookingTx) GetVehicle(ctx context.Context, id string) (domain.Vehicle, error) {
	return getByID[domain.Vehicle](ctx, r.tx, id)
}

func (r bookingTx) CreateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return createVehicle(ctx, r.tx, v)
}

func (r bookingTx) GetLocation(ctx context.Context, id string) (domain.Location, error) {
	return getByID[domain.Location](ctx, r.tx, id)
}

func (r bookingTx) CreateLocation(ctx context.Context, l domain.Location) (domain.Location, error) {
	return createLocation(ctx, r.tx, l)
}

func createCustomer(ctx context.Context, db bun.IDB, c domain.Customer) (domain.Customer, error) {
	m := domain.Customer{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
	if _, err := db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Customer{}, mapWriteError(err)
	}
	return getByID[domain.Customer](ctx, db, m.ID)
}

func createVehicle(ctx context.Context, db bun.IDB, v domain.Vehicle) (domain.Vehicle, error) {
	m := domain.Vehicle{
		ID:        v.ID,
		VIN:       v.VIN,
		CreatedAt: v.CreatedAt,
	}
	if _, err := db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Vehicle{}, mapWriteError(err)
	}
	return getByID[domain.Vehicle](ctx, db, m.ID)
}

func createLocation(ctx context.Context, db bun.IDB, l domain.Location) (domain.Location, error) {
	m := domain.Location{
		ID:        l.ID,
		Line1:     l.Line1,
		Line2:     l.Line2,
		City:      l.City,
		State:     l.State,
		ZipCode:   l.ZipCode,
		CreatedAt: l.CreatedAt,
	}
	if _, err := db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Location{}, mapWriteError(err)
	}
	return getByID[domain.Location](ctx, db, m.ID)
}

func getByID[T any](ctx context.Context, db bun.IDB, id string) (T, error) {
	var row T
	err := db.NewSelect().
		Model(&row).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, store.ErrNotFound
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return row, nil
}

func whereEq(q *bun.SelectQuery, column, value string) *bun.SelectQuery {
	if value == "" {
		return q
	}
	return q.Where("? = ?", bun.Ident(column), value)
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("duplicate key %s: %w", pgErr.ConstraintName, store.ErrConflict)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("duplicate key: %w", store.ErrConflict)
		}
	}
	return err
}
