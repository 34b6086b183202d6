package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	curbeev1 "github.com/DesignByOnyx/curbee-coding-exercise/internal/api/curbeev1"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/booking"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/domain"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/service/appointments"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/store"
)

type AppointmentsServer struct {
	curbeev1.UnimplementedAppointmentsServiceServer

	svc appointmentsService
	log *slog.Logger
}

type appointmentsService interface {
	Get(ctx context.Context, id string) (domain.AppointmentWithDetails, error)
	Find(ctx context.Context, filter store.AppointmentFilter) ([]domain.Appointment, error)
	Create(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error)
	CreateWithDetails(ctx context.Context, in appointments.CreateWithDetailsInput) (domain.AppointmentWithDetails, error)
}

func NewAppointmentsServer(svc appointmentsService, log *slog.Logger) *AppointmentsServer {
	if log == nil {
		log = slog.Default()
	}
	return &AppointmentsServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.appointments")),
	}
}

func (s *AppointmentsServer) GetAppointment(ctx context.Context, req *curbeev1.GetAppointmentRequest) (*curbeev1.GetAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "GetAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	appt, err := s.svc.Get(ctx, req.Id)
	if err != nil {
		return nil, statusError(log, err, slog.String("appointment_id", req.Id))
	}

	log.Debug("appointment fetched", slog.String("appointment_id", appt.ID))
	return &curbeev1.GetAppointmentResponse{Appointment: toProtoAppointmentWithDetails(appt)}, nil
}

func (s *AppointmentsServer) FindAppointments(ctx context.Context, req *curbeev1.FindAppointmentsRequest) (*curbeev1.FindAppointmentsResponse, error) {
	log := s.log.With(slog.String("rpc", "FindAppointments"))

	if req == nil {
		req = &curbeev1.FindAppointmentsRequest{}
	}
	filter := store.AppointmentFilter{
		ID:         strings.TrimSpace(req.Id),
		LocationID: strings.TrimSpace(req.LocationId),
		CustomerID: strings.TrimSpace(req.CustomerId),
		VehicleID:  strings.TrimSpace(req.VehicleId),
	}
	if req.AppointmentStartTime != nil {
		t := req.AppointmentStartTime.AsTime()
		filter.AppointmentStartTime = &t
	}
	if req.AppointmentEndTime != nil {
		t := req.AppointmentEndTime.AsTime()
		filter.AppointmentEndTime = &t
	}

	appts, err := s.svc.Find(ctx, filter)
	if err != nil {
		return nil, statusError(log, err)
	}

	out := make([]*curbeev1.Appointment, 0, len(appts))
	for _, a := range appts {
		out = append(out, toProtoAppointment(a))
	}

	log.Debug("appointments found", slog.Int("count", len(out)))
	return &curbeev1.FindAppointmentsResponse{Appointments: out}, nil
}

func (s *AppointmentsServer) CreateAppointment(ctx context.Context, req *curbeev1.CreateAppointmentRequest) (*curbeev1.CreateAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "CreateAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.AppointmentStartTime == nil || req.AppointmentEndTime == nil {
		log.Warn("invalid request", slog.String("reason", "missing_times"))
		return nil, status.Error(codes.InvalidArgument, "appointmentStartTime and appointmentEndTime are required")
	}

	appt, err := s.svc.Create(ctx, appointments.CreateInput{
		AppointmentStartTime: req.AppointmentStartTime.AsTime(),
		AppointmentEndTime:   req.AppointmentEndTime.AsTime(),
		LocationID:           req.LocationId,
		CustomerID:           req.CustomerId,
		VehicleID:            req.VehicleId,
		IdempotencyKey:       idempotencyKey(ctx),
	})
	if err != nil {
		return nil, statusError(log, err,
			slog.String("location_id", req.LocationId),
			slog.Time("start_time", req.AppointmentStartTime.AsTime()),
			slog.Time("end_time", req.AppointmentEndTime.AsTime()),
		)
	}

	log.Info(
		"appointment created",
		slog.String("appointment_id", appt.ID),
		slog.String("location_id", appt.LocationID),
		slog.Time("start_time", appt.AppointmentStartTime),
		slog.Time("end_time", appt.AppointmentEndTime),
	)

	return &curbeev1.CreateAppointmentResponse{Appointment: toProtoAppointment(appt)}, nil
}

func (s *AppointmentsServer) CreateAppointmentWithDetails(ctx context.Context, req *curbeev1.CreateAppointmentWithDetailsRequest) (*curbeev1.CreateAppointmentWithDetailsResponse, error) {
	log := s.log.With(slog.String("rpc", "CreateAppointmentWithDetails"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.AppointmentStartTime == nil || req.AppointmentEndTime == nil {
		log.Warn("invalid request", slog.String("reason", "missing_times"))
		return nil, status.Error(codes.InvalidArgument, "appointmentStartTime and appointmentEndTime are required")
	}
	if req.Location == nil || req.Customer == nil || req.Vehicle == nil {
		log.Warn("invalid request", slog.String("reason", "missing_details"))
		return nil, status.Error(codes.InvalidArgument, "location, customer and vehicle are required")
	}

	appt, err := s.svc.CreateWithDetails(ctx, appointments.CreateWithDetailsInput{
		AppointmentStartTime: req.AppointmentStartTime.AsTime(),
		AppointmentEndTime:   req.AppointmentEndTime.AsTime(),
		Location: domain.LocationInput{
			Line1:   req.Location.Line1,
			Line2:   req.Location.Line2,
			City:    req.Location.City,
			State:   req.Location.State,
			ZipCode: req.Location.ZipCode,
		},
		Customer: domain.CustomerInput{
			FirstName: req.Customer.FirstName,
			LastName:  req.Customer.LastName,
			Email:     req.Customer.Email,
			Phone:     req.Customer.Phone,
		},
		Vehicle: domain.VehicleInput{VIN: req.Vehicle.Vin},
	})
	if err != nil {
		return nil, statusError(log, err,
			slog.Time("start_time", req.AppointmentStartTime.AsTime()),
			slog.Time("end_time", req.AppointmentEndTime.AsTime()),
		)
	}

	log.Info(
		"appointment created",
		slog.String("appointment_id", appt.ID),
		slog.String("location_id", appt.LocationID),
		slog.String("customer_id", appt.CustomerID),
		slog.String("vehicle_id", appt.VehicleID),
	)

	return &curbeev1.CreateAppointmentWithDetailsResponse{Appointment: toProtoAppointmentWithDetails(appt)}, nil
}

// statusError maps a service error to its gRPC status and logs it at the
// level its kind deserves.
func statusError(log *slog.Logger, err error, attrs ...any) error {
	args := append([]any{slog.Any("err", err)}, attrs...)

	var trErr *booking.TimeRangeError
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &trErr):
		log.Warn("invalid request", append(args, slog.String("reason", string(trErr.Reason)))...)
		return status.Error(codes.InvalidArgument, trErr.Error())
	case errors.As(err, &vErr):
		log.Warn("invalid request", args...)
		return status.Error(codes.InvalidArgument, vErr.Error())
	case errors.Is(err, store.ErrIdempotencyConflict):
		log.Info("idempotency key reused", args...)
		return status.Error(codes.AlreadyExists, "This request key was already used for a different appointment.")
	case errors.Is(err, store.ErrConflict):
		log.Info("appointment conflict", args...)
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, store.ErrNotFound):
		log.Info("not found", args...)
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("deadline exceeded", args...)
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	default:
		log.Error("request failed", args...)
		return status.Error(codes.Internal, "internal error")
	}
}

func idempotencyKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("idempotency-key")
	if len(values) == 0 {
		values = md.Get("x-idempotency-key")
	}
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func toProtoAppointment(a domain.Appointment) *curbeev1.Appointment {
	return &curbeev1.Appointment{
		Id:                   a.ID,
		AppointmentStartTime: timestamppb.New(a.AppointmentStartTime),
		AppointmentEndTime:   timestamppb.New(a.AppointmentEndTime),
		LocationId:           a.LocationID,
		CustomerId:           a.CustomerID,
		VehicleId:            a.VehicleID,
		CreatedAt:            optionalTimestamp(a.CreatedAt),
	}
}

func toProtoAppointmentWithDetails(a domain.AppointmentWithDetails) *curbeev1.AppointmentWithDetails {
	return &curbeev1.AppointmentWithDetails{
		Appointment: toProtoAppointment(a.Appointment),
		Location: &curbeev1.Location{
			Id:        a.Location.ID,
			Line1:     a.Location.Line1,
			Line2:     a.Location.Line2,
			City:      a.Location.City,
			State:     a.Location.State,
			ZipCode:   a.Location.ZipCode,
			CreatedAt: optionalTimestamp(a.Location.CreatedAt),
		},
		Customer: &curbeev1.Customer{
			Id:        a.Customer.ID,
			FirstName: a.Customer.FirstName,
			LastName:  a.Customer.LastName,
			Email:     a.Customer.Email,
			Phone:     a.Customer.Phone,
			CreatedAt: optionalTimestamp(a.Customer.CreatedAt),
		},
		Vehicle: &curbeev1.Vehicle{
			Id:        a.Vehicle.ID,
			Vin:       a.Vehicle.VIN,
			CreatedAt: optionalTimestamp(a.Vehicle.CreatedAt),
		},
	}
}

func optionalTimestamp(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}
	return timestamppb.New(t)
}
