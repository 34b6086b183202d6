package appointments

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DesignByOnyx/curbee-coding-exercise/internal/domain"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/store"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/store/sqlstore"
)

type fixture struct {
	svc      *Service
	st       *sqlstore.Store
	location domain.Location
	customer domain.Customer
	vehicle  domain.Vehicle
}

func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlstore.Open(sqlstore.DriverSQLite, filepath.Join(t.TempDir(), "curbee.db"), sqlstore.PoolConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlstore.Close(db) })
	require.NoError(t, sqlstore.Migrate(ctx, db))

	st := sqlstore.NewStore(db)
	loc, err := st.CreateLocation(ctx, domain.Location{Line1: "1 Main St", City: "Austin", State: "TX", ZipCode: "78701"})
	require.NoError(t, err)
	cust, err := st.CreateCustomer(ctx, domain.Customer{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: 5125550100})
	require.NoError(t, err)
	veh, err := st.CreateVehicle(ctx, domain.Vehicle{VIN: "1HGCM82633A004352"})
	require.NoError(t, err)

	opts = append([]Option{WithBusinessHours(utcHours)}, opts...)
	return fixture{svc: NewService(st, opts...), st: st, location: loc, customer: cust, vehicle: veh}
}

func (f fixture) input(startHour, startMin, endHour, endMin int) CreateInput {
	return CreateInput{
		AppointmentStartTime: at(startHour, startMin),
		AppointmentEndTime:   at(endHour, endMin),
		LocationID:           f.location.ID,
		CustomerID:           f.customer.ID,
		VehicleID:            f.vehicle.ID,
	}
}

func TestSQLite_BookingSequence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, f.input(10, 0, 11, 0))
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.True(t, a.AppointmentStartTime.Equal(at(10, 0)))

	_, err = f.svc.Create(ctx, f.input(10, 30, 10, 45))
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrConflict), "got %v", err)

	c, err := f.svc.Create(ctx, f.input(11, 0, 12, 0))
	require.NoError(t, err)

	all, err := f.svc.Find(ctx, store.AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, c.ID, all[1].ID)
}

func TestSQLite_GetIsStableAndHydrated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.input(9, 0, 9, 30))
	require.NoError(t, err)

	first, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	second, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, created, first.Appointment)
	assert.Equal(t, f.location, first.Location)
	assert.Equal(t, f.customer, first.Customer)
	assert.Equal(t, f.vehicle, first.Vehicle)

	_, err = f.svc.Get(ctx, "missing")
	require.Error(t, err)
	assert.EqualError(t, err, "Appointment with ID missing not found")
}

func TestSQLite_CreateWithDetailsThenGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateWithDetails(ctx, CreateWithDetailsInput{
		AppointmentStartTime: at(14, 0),
		AppointmentEndTime:   at(15, 0),
		Location:             domain.LocationInput{Line1: "9 Elm St", City: "Dallas", State: "TX", ZipCode: "75201"},
		Customer:             domain.CustomerInput{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"},
		Vehicle:              domain.VehicleInput{VIN: "5YJ3E1EA7KF317000"},
	})
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestSQLite_CreateWithDetailsConflictWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.input(14, 0, 15, 0))
	require.NoError(t, err)

	_, err = f.svc.CreateWithDetails(ctx, CreateWithDetailsInput{
		AppointmentStartTime: at(14, 30),
		AppointmentEndTime:   at(15, 30),
		Location:             domain.LocationInput{Line1: "9 Elm St", City: "Dallas", State: "TX", ZipCode: "75201"},
		Customer:             domain.CustomerInput{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"},
		Vehicle:              domain.VehicleInput{VIN: "5YJ3E1EA7KF317000"},
	})
	require.ErrorIs(t, err, store.ErrConflict)

	customers, err := f.st.FindCustomers(ctx, store.CustomerFilter{Email: "grace@example.com"})
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestSQLite_MissingReferenceIsNotFound(t *testing.T) {
	f := newFixture(t)

	in := f.input(10, 0, 11, 0)
	in.LocationID = "nowhere"
	_, err := f.svc.Create(context.Background(), in)
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.EqualError(t, err, "Location with ID nowhere not found")
}

func TestSQLite_IdempotentReplay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.input(10, 0, 11, 0)
	in.IdempotencyKey = "retry-me"
	first, err := f.svc.Create(ctx, in)
	require.NoError(t, err)

	again, err := f.svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	other := f.input(13, 0, 14, 0)
	other.IdempotencyKey = "retry-me"
	_, err = f.svc.Create(ctx, other)
	require.ErrorIs(t, err, store.ErrIdempotencyConflict)

	all, err := f.svc.Find(ctx, store.AppointmentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLite_ConcurrentSameSlotExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
		others    []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(ctx, f.input(10, 0, 11, 0))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, store.ErrConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, others)
	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)
}

func TestSQLite_FindFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, f.input(10, 0, 11, 0))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.input(12, 0, 13, 0))
	require.NoError(t, err)

	start := at(10, 0)
	got, err := f.svc.Find(ctx, store.AppointmentFilter{AppointmentStartTime: &start})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)

	got, err = f.svc.Find(ctx, store.AppointmentFilter{CustomerID: "someone-else"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
