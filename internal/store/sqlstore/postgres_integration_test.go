package sqlstore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"github.com/DesignByOnyx/curbee-coding-exercise/internal/domain"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/store"
)

// openPostgres opens a pool bound to a throwaway schema. The test is skipped
// unless CURBEE_TEST_DATABASE_URL points at a postgres server.
func openPostgres(t *testing.T) *bun.DB {
	t.Helper()
	databaseURL := strings.TrimSpace(os.Getenv("CURBEE_TEST_DATABASE_URL"))
	if databaseURL == "" {
		t.Skip("CURBEE_TEST_DATABASE_URL not set")
	}

	admin, err := Open(DriverPostgres, databaseURL, PoolConfig{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = Close(admin) })

	schema := "curbee_test_" + randomHex(t, 8)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := admin.NewRaw("CREATE SCHEMA " + schema).Exec(ctx); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = admin.NewRaw("DROP SCHEMA IF EXISTS " + schema + " CASCADE").Exec(ctx)
	})

	u, err := url.Parse(databaseURL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()

	db, err := Open(DriverPostgres, u.String(), PoolConfig{MaxOpenConns: 8})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate error: %v", err)
	}
	return db
}

func TestPostgresIntegration_CreateListAndDuplicate(t *testing.T) {
	db := openPostgres(t)
	st := NewStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Date(2026, 1, 1, 10, 0, 0, 123456000, time.UTC)
	end := start.Add(time.Hour)

	var a1 domain.Appointment
	err := st.InBookingTransaction(ctx, "2026-01-01", func(ctx context.Context, tx store.BookingTx) error {
		var err error
		a1, err = tx.CreateAppointment(ctx, domain.Appointment{
			ID:                   "00000000-0000-0000-0000-000000000901",
			AppointmentStartTime: start,
			AppointmentEndTime:   end,
			LocationID:           "l",
			CustomerID:           "c",
			VehicleID:            "v",
		})
		if err != nil {
			return err
		}

		rows, err := tx.ListAppointments(ctx, start.Add(-time.Minute), end.Add(time.Minute))
		if err != nil {
			return err
		}
		if len(rows) != 1 || rows[0].ID != a1.ID {
			t.Errorf("listed = %+v, want [%s]", rows, a1.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InBookingTransaction error: %v", err)
	}
	if !a1.AppointmentStartTime.Equal(start) {
		t.Fatalf("start = %v, want %v", a1.AppointmentStartTime, start)
	}

	err = st.InBookingTransaction(ctx, "2026-01-01", func(ctx context.Context, tx store.BookingTx) error {
		_, err := tx.CreateAppointment(ctx, domain.Appointment{
			ID:                   a1.ID,
			AppointmentStartTime: start,
			AppointmentEndTime:   end,
			LocationID:           "l",
			CustomerID:           "c",
			VehicleID:            "v",
		})
		return err
	})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("duplicate error = %v, want ErrConflict", err)
	}

	got, err := st.GetAppointment(ctx, a1.ID)
	if err != nil {
		t.Fatalf("GetAppointment error: %v", err)
	}
	if got != a1 {
		t.Fatalf("GetAppointment = %+v, want %+v", got, a1)
	}
}

// TestPostgresIntegration_AdvisoryLockSerializesBookings checks that two
// transactions on the same key never interleave their read and write.
func TestPostgresIntegration_AdvisoryLockSerializesBookings(t *testing.T) {
	db := openPostgres(t)
	st := NewStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	const workers = 6
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := st.InBookingTransaction(ctx, "2026-01-02", func(ctx context.Context, tx store.BookingTx) error {
				rows, err := tx.ListAppointments(ctx, start, end)
				if err != nil {
					return err
				}
				if len(rows) > 0 {
					return store.ErrConflict
				}
				_, err = tx.CreateAppointment(ctx, domain.Appointment{
					AppointmentStartTime: start,
					AppointmentEndTime:   end,
					LocationID:           "l",
					CustomerID:           "c",
					VehicleID:            "v",
				})
				return err
			})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			} else if !errors.Is(err, store.ErrConflict) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}
}

func randomHex(t *testing.T, bytesLen int) string {
	t.Helper()
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand.Read error: %v", err)
	}
	return hex.EncodeToString(b)
}
