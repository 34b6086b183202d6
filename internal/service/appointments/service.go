package appointments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DesignByOnyx/curbee-coding-exercise/internal/booking"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/domain"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/events"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/metrics"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/store"
)

type Service struct {
	store   store.Store
	hours   booking.BusinessHours
	rule    booking.OverlapRule
	locker  booking.Locker
	events  events.Publisher
	metrics *metrics.Collector
	log     *slog.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

type Option func(*Service)

func WithBusinessHours(h booking.BusinessHours) Option {
	return func(s *Service) { s.hours = h }
}

func WithOverlapRule(r booking.OverlapRule) Option {
	return func(s *Service) { s.rule = r }
}

func WithLocker(l booking.Locker) Option {
	return func(s *Service) { s.locker = l }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		hours:  booking.DefaultBusinessHours(),
		rule:   booking.OverlapInterval,
		locker: booking.NewLocalLocker(),
		events: events.Discard{},
		log:    slog.Default(),
		tracer: otel.Tracer("curbee/service/appointments"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(slog.String("component", "service.appointments"))
	return s
}

type CreateInput struct {
	AppointmentStartTime time.Time
	AppointmentEndTime   time.Time
	LocationID           string
	CustomerID           string
	VehicleID            string
	IdempotencyKey       string
}

type CreateWithDetailsInput struct {
	AppointmentStartTime time.Time
	AppointmentEndTime   time.Time
	Location             domain.LocationInput
	Customer             domain.CustomerInput
	Vehicle              domain.VehicleInput
}

func (s *Service) Get(ctx context.Context, id string) (domain.AppointmentWithDetails, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.AppointmentWithDetails{}, domain.NewValidationError("id is required", "id")
	}

	appt, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return domain.AppointmentWithDetails{}, store.NotFound(err, "Appointment", id)
	}
	loc, err := s.store.GetLocation(ctx, appt.LocationID)
	if err != nil {
		return domain.AppointmentWithDetails{}, store.NotFound(err, "Location", appt.LocationID)
	}
	cust, err := s.store.GetCustomer(ctx, appt.CustomerID)
	if err != nil {
		return domain.AppointmentWithDetails{}, store.NotFound(err, "Customer", appt.CustomerID)
	}
	veh, err := s.store.GetVehicle(ctx, appt.VehicleID)
	if err != nil {
		return domain.AppointmentWithDetails{}, store.NotFound(err, "Vehicle", appt.VehicleID)
	}

	return domain.AppointmentWithDetails{Appointment: appt, Location: loc, Customer: cust, Vehicle: veh}, nil
}

func (s *Service) Find(ctx context.Context, filter store.AppointmentFilter) ([]domain.Appointment, error) {
	return s.store.FindAppointments(ctx, filter)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (out domain.Appointment, err error) {
	ctx, span := s.tracer.Start(ctx, "appointments.Create")
	replayed := false
	defer func() { s.finish(span, err, replayed) }()

	appt := domain.Appointment{
		LocationID: strings.TrimSpace(in.LocationID),
		CustomerID: strings.TrimSpace(in.CustomerID),
		VehicleID:  strings.TrimSpace(in.VehicleID),
	}
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"locationId", appt.LocationID},
		{"customerId", appt.CustomerID},
		{"vehicleId", appt.VehicleID},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return domain.Appointment{}, domain.NewValidationError(strings.Join(missing, ", ")+" required", missing...)
	}

	start, end, err := s.validateTimes(in.AppointmentStartTime, in.AppointmentEndTime)
	if err != nil {
		return domain.Appointment{}, err
	}
	appt.AppointmentStartTime = start
	appt.AppointmentEndTime = end

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		if len(key) > 256 {
			return domain.Appointment{}, domain.NewValidationError("idempotency key too long")
		}
		appt.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("curbee:create_appointment:"+key)).String()
	}
	span.SetAttributes(
		attribute.String("appointment.location_id", appt.LocationID),
		attribute.String("appointment.day", s.hours.Day(start)),
	)

	err = s.inBookingTransaction(ctx, start, func(ctx context.Context, tx store.BookingTx) error {
		if appt.ID != "" {
			existing, err := tx.GetAppointment(ctx, appt.ID)
			switch {
			case err == nil:
				if !sameBooking(existing, appt) {
					return store.ErrIdempotencyConflict
				}
				out = existing
				replayed = true
				return nil
			case !errors.Is(err, store.ErrNotFound):
				return err
			}
		}

		if err := ensureReferences(ctx, tx, appt); err != nil {
			return err
		}
		if err := s.ensureNoConflicts(ctx, tx, start, end); err != nil {
			return err
		}

		created, err := tx.CreateAppointment(ctx, appt)
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}

	if !replayed {
		s.publish(ctx, out)
	}
	return out, nil
}

func (s *Service) CreateWithDetails(ctx context.Context, in CreateWithDetailsInput) (out domain.AppointmentWithDetails, err error) {
	ctx, span := s.tracer.Start(ctx, "appointments.CreateWithDetails")
	defer func() { s.finish(span, err, false) }()

	loc := in.Location.Normalize()
	cust := in.Customer.Normalize()
	veh := in.Vehicle.Normalize()
	if err := mergeValidation(
		nested("location", loc.Validate()),
		nested("customer", cust.Validate()),
		nested("vehicle", veh.Validate()),
	); err != nil {
		return domain.AppointmentWithDetails{}, err
	}

	start, end, err := s.validateTimes(in.AppointmentStartTime, in.AppointmentEndTime)
	if err != nil {
		return domain.AppointmentWithDetails{}, err
	}
	span.SetAttributes(attribute.String("appointment.day", s.hours.Day(start)))

	err = s.inBookingTransaction(ctx, start, func(ctx context.Context, tx store.BookingTx) error {
		if err := s.ensureNoConflicts(ctx, tx, start, end); err != nil {
			return err
		}

		location, err := tx.CreateLocation(ctx, loc.Location())
		if err != nil {
			return fmt.Errorf("create location: %w", err)
		}
		customer, err := tx.CreateCustomer(ctx, cust.Customer())
		if err != nil {
			return fmt.Errorf("create customer: %w", err)
		}
		vehicle, err := tx.CreateVehicle(ctx, veh.Vehicle())
		if err != nil {
			return fmt.Errorf("create vehicle: %w", err)
		}

		appt, err := tx.CreateAppointment(ctx, domain.Appointment{
			AppointmentStartTime: start,
			AppointmentEndTime:   end,
			LocationID:           location.ID,
			CustomerID:           customer.ID,
			VehicleID:            vehicle.ID,
		})
		if err != nil {
			return err
		}

		out = domain.AppointmentWithDetails{Appointment: appt, Location: location, Customer: customer, Vehicle: vehicle}
		return nil
	})
	if err != nil {
		return domain.AppointmentWithDetails{}, err
	}

	s.publish(ctx, out.Appointment)
	return out, nil
}

// validateTimes normalizes both instants to UTC at microsecond precision and
// applies the business-hours rules.
func (s *Service) validateTimes(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, domain.NewValidationError(
			"appointmentStartTime and appointmentEndTime are required",
			"appointmentStartTime", "appointmentEndTime",
		)
	}
	start = start.UTC().Truncate(time.Microsecond)
	end = end.UTC().Truncate(time.Microsecond)
	if err := s.hours.Validate(start, end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// inBookingTransaction holds the per-day booking lock for the whole store
// transaction so no other booking for that day can read between our conflict
// check and our insert.
func (s *Service) inBookingTransaction(ctx context.Context, start time.Time, fn func(ctx context.Context, tx store.BookingTx) error) error {
	key := s.hours.Day(start)

	waitStart := time.Now()
	unlock, err := s.locker.Lock(ctx, key)
	if err != nil {
		return fmt.Errorf("acquire booking lock %s: %w", key, err)
	}
	defer unlock()
	s.metrics.LockWait(time.Since(waitStart))

	return s.store.InBookingTransaction(ctx, key, fn)
}

func (s *Service) ensureNoConflicts(ctx context.Context, tx store.BookingTx, start, end time.Time) error {
	from, to := s.hours.DayWindow(start)
	booked, err := tx.ListAppointments(ctx, from, to)
	if err != nil {
		return fmt.Errorf("list booked appointments: %w", err)
	}
	return booking.EnsureNoConflicts(start, end, booked, s.rule)
}

func ensureReferences(ctx context.Context, tx store.BookingTx, appt domain.Appointment) error {
	if _, err := tx.GetLocation(ctx, appt.LocationID); err != nil {
		return store.NotFound(err, "Location", appt.LocationID)
	}
	if _, err := tx.GetCustomer(ctx, appt.CustomerID); err != nil {
		return store.NotFound(err, "Customer", appt.CustomerID)
	}
	if _, err := tx.GetVehicle(ctx, appt.VehicleID); err != nil {
		return store.NotFound(err, "Vehicle", appt.VehicleID)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, appt domain.Appointment) {
	ev := events.NewAppointmentCreated(appt, s.now())
	if err := s.events.Publish(ctx, ev); err != nil {
		s.metrics.PublishFailed()
		s.log.Warn(
			"event publish failed",
			slog.String("event_type", ev.Type),
			slog.String("appointment_id", appt.ID),
			slog.Any("err", err),
		)
	}
}

func (s *Service) finish(span trace.Span, err error, replayed bool) {
	defer span.End()
	if replayed {
		s.metrics.Booking(metrics.OutcomeReplayed)
		return
	}
	s.metrics.Booking(outcome(err))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
}

func outcome(err error) string {
	var trErr *booking.TimeRangeError
	var vErr *domain.ValidationError
	switch {
	case err == nil:
		return metrics.OutcomeCreated
	case errors.As(err, &trErr):
		return metrics.OutcomeInvalidTime
	case errors.As(err, &vErr):
		return metrics.OutcomeInvalid
	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrIdempotencyConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, store.ErrNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

func sameBooking(existing, want domain.Appointment) bool {
	return existing.LocationID == want.LocationID &&
		existing.CustomerID == want.CustomerID &&
		existing.VehicleID == want.VehicleID &&
		existing.AppointmentStartTime.Equal(want.AppointmentStartTime) &&
		existing.AppointmentEndTime.Equal(want.AppointmentEndTime)
}

func nested(prefix string, err error) error {
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		return err
	}
	fields := make([]string, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		fields = append(fields, prefix+"."+f)
	}
	return domain.NewValidationError(prefix+": "+vErr.Error(), fields...)
}

func mergeValidation(errs ...error) error {
	var msgs, fields []string
	for _, err := range errs {
		if err == nil {
			continue
		}
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			return err
		}
		msgs = append(msgs, vErr.Error())
		fields = append(fields, vErr.Fields...)
	}
	if len(msgs) == 0 {
		return nil
	}
	return domain.NewValidationError(strings.Join(msgs, "; "), fields...)
}
