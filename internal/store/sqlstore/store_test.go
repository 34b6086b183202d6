package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"github.com/DesignByOnyx/curbee-coding-exercise/internal/domain"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/store"
)

func openSQLite(t *testing.T) *bun.DB {
	t.Helper()
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "store.db"), PoolConfig{})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("Migrate error: %v", err)
	}
	return db
}

func TestSQLiteDSN(t *testing.T) {
	if got := SQLiteDSN("/tmp/a.db"); got != "file:/tmp/a.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)" {
		t.Fatalf("dsn = %q", got)
	}
	if got := SQLiteDSN("file:x.db?mode=memory"); got != "file:x.db?mode=memory" {
		t.Fatalf("dsn = %q, want it unchanged", got)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "x", PoolConfig{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestMigrate_IsRepeatable(t *testing.T) {
	db := openSQLite(t)
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("second Migrate error: %v", err)
	}
}

func TestStore_CreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewStore(openSQLite(t))

	c, err := st.CreateCustomer(ctx, domain.Customer{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: 5125550100})
	if err != nil {
		t.Fatalf("CreateCustomer error: %v", err)
	}
	if c.ID == "" || c.CreatedAt.IsZero() {
		t.Fatalf("expected generated id and created_at, got %+v", c)
	}
	if c.CreatedAt.Location() != time.UTC {
		t.Fatalf("created_at location = %v, want UTC", c.CreatedAt.Location())
	}

	got, err := st.GetCustomer(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCustomer error: %v", err)
	}
	if got != c {
		t.Fatalf("GetCustomer = %+v, want %+v", got, c)
	}

	if _, err := st.GetVehicle(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetVehicle error = %v, want ErrNotFound", err)
	}
}

func TestStore_DuplicateIDIsConflict(t *testing.T) {
	ctx := context.Background()
	st := NewStore(openSQLite(t))

	if _, err := st.CreateVehicle(ctx, domain.Vehicle{ID: "v1", VIN: "1HGCM82633A004352"}); err != nil {
		t.Fatalf("CreateVehicle error: %v", err)
	}
	_, err := st.CreateVehicle(ctx, domain.Vehicle{ID: "v1", VIN: "5YJ3E1EA7KF317000"})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
}

func TestStore_FindFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	st := NewStore(openSQLite(t))

	for _, l := range []domain.Location{
		{Line1: "1 Main St", City: "Austin", State: "TX", ZipCode: "78701"},
		{Line1: "9 Elm St", City: "Dallas", State: "TX", ZipCode: "75201"},
		{Line1: "4 Oak Ave", City: "Tulsa", State: "OK", ZipCode: "74103"},
	} {
		if _, err := st.CreateLocation(ctx, l); err != nil {
			t.Fatalf("CreateLocation error: %v", err)
		}
	}

	texas, err := st.FindLocations(ctx, store.LocationFilter{State: "TX"})
	if err != nil {
		t.Fatalf("FindLocations error: %v", err)
	}
	if len(texas) != 2 {
		t.Fatalf("len = %d, want 2", len(texas))
	}

	all, err := st.FindLocations(ctx, store.LocationFilter{})
	if err != nil {
		t.Fatalf("FindLocations error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}

	phone := int64(42)
	none, err := st.FindCustomers(ctx, store.CustomerFilter{Phone: &phone})
	if err != nil {
		t.Fatalf("FindCustomers error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("len = %d, want 0", len(none))
	}
}

func TestBookingTx_ListAppointmentsWindow(t *testing.T) {
	ctx := context.Background()
	st := NewStore(openSQLite(t))

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slot := func(h int) (time.Time, time.Time) { return day.Add(time.Duration(h) * time.Hour), day.Add(time.Duration(h+1) * time.Hour) }

	err := st.InBookingTransaction(ctx, "2026-03-02", func(ctx context.Context, tx store.BookingTx) error {
		for _, h := range []int{9, 12, 15} {
			s, e := slot(h)
			if _, err := tx.CreateAppointment(ctx, domain.Appointment{
				AppointmentStartTime: s,
				AppointmentEndTime:   e,
				LocationID:           "l",
				CustomerID:           "c",
				VehicleID:            "v",
			}); err != nil {
				return err
			}
		}
		// previous day, must stay outside the window
		if _, err := tx.CreateAppointment(ctx, domain.Appointment{
			AppointmentStartTime: day.Add(-3 * time.Hour),
			AppointmentEndTime:   day.Add(-2 * time.Hour),
			LocationID:           "l",
			CustomerID:           "c",
			VehicleID:            "v",
		}); err != nil {
			return err
		}

		rows, err := tx.ListAppointments(ctx, day.Add(10*time.Hour), day.Add(15*time.Hour))
		if err != nil {
			return err
		}
		if len(rows) != 1 || rows[0].AppointmentStartTime.Hour() != 12 {
			t.Errorf("window rows = %+v, want only the 12:00 booking", rows)
		}

		rows, err = tx.ListAppointments(ctx, day, day.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		if len(rows) != 3 {
			t.Errorf("day rows = %d, want 3", len(rows))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InBookingTransaction error: %v", err)
	}
}

func TestInBookingTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := NewStore(openSQLite(t))
	boom := errors.New("boom")

	err := st.InBookingTransaction(ctx, "k", func(ctx context.Context, tx store.BookingTx) error {
		if _, err := tx.CreateCustomer(ctx, domain.Customer{FirstName: "A", LastName: "B", Email: "a@b.co"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}

	rows, err := st.FindCustomers(ctx, store.CustomerFilter{})
	if err != nil {
		t.Fatalf("FindCustomers error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want rollback to leave none", len(rows))
	}
}
