// Package curbeev1 defines the curbee.v1 RPC messages and the
// AppointmentsService descriptor. Messages travel as JSON over gRPC; see
// codec.go.
package curbeev1

import "google.golang.org/protobuf/types/known/timestamppb"

type Appointment struct {
	Id                   string                 `json:"id"`
	AppointmentStartTime *timestamppb.Timestamp `json:"appointmentStartTime"`
	AppointmentEndTime   *timestamppb.Timestamp `json:"appointmentEndTime"`
	LocationId           string                 `json:"locationId"`
	CustomerId           string                 `json:"customerId"`
	VehicleId            string                 `json:"vehicleId"`
	CreatedAt            *timestamppb.Timestamp `json:"createdAt,omitempty"`
}

type Location struct {
	Id        string                 `json:"id,omitempty"`
	Line1     string                 `json:"line1"`
	Line2     string                 `json:"line2,omitempty"`
	City      string                 `json:"city"`
	State     string                 `json:"state"`
	ZipCode   string                 `json:"zipCode"`
	CreatedAt *timestamppb.Timestamp `json:"createdAt,omitempty"`
}

type Customer struct {
	Id        string                 `json:"id,omitempty"`
	FirstName string                 `json:"firstName"`
	LastName  string                 `json:"lastName"`
	Email     string                 `json:"email"`
	Phone     int64                  `json:"phone"`
	CreatedAt *timestamppb.Timestamp `json:"createdAt,omitempty"`
}

type Vehicle struct {
	Id        string                 `json:"id,omitempty"`
	Vin       string                 `json:"vin"`
	CreatedAt *timestamppb.Timestamp `json:"createdAt,omitempty"`
}

type AppointmentWithDetails struct {
	Appointment *Appointment `json:"appointment"`
	Location    *Location    `json:"location"`
	Customer    *Customer    `json:"customer"`
	Vehicle     *Vehicle     `json:"vehicle"`
}

type GetAppointmentRequest struct {
	Id string `json:"id"`
}

type GetAppointmentResponse struct {
	Appointment *AppointmentWithDetails `json:"appointment"`
}

// FindAppointmentsRequest matches on every field that is set.
type FindAppointmentsRequest struct {
	Id                   string                 `json:"id,omitempty"`
	LocationId           string                 `json:"locationId,omitempty"`
	CustomerId           string                 `json:"customerId,omitempty"`
	VehicleId            string                 `json:"vehicleId,omitempty"`
	AppointmentStartTime *timestamppb.Timestamp `json:"appointmentStartTime,omitempty"`
	AppointmentEndTime   *timestamppb.Timestamp `json:"appointmentEndTime,omitempty"`
}

type FindAppointmentsResponse struct {
	Appointments []*Appointment `json:"appointments"`
}

type CreateAppointmentRequest struct {
	AppointmentStartTime *timestamppb.Timestamp `json:"appointmentStartTime"`
	AppointmentEndTime   *timestamppb.Timestamp `json:"appointmentEndTime"`
	LocationId           string                 `json:"locationId"`
	CustomerId           string                 `json:"customerId"`
	VehicleId            string                 `json:"vehicleId"`
}

type CreateAppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type CreateAppointmentWithDetailsRequest struct {
	AppointmentStartTime *timestamppb.Timestamp `json:"appointmentStartTime"`
	AppointmentEndTime   *timestamppb.Timestamp `json:"appointmentEndTime"`
	Location             *Location              `json:"location"`
	Customer             *Customer              `json:"customer"`
	Vehicle              *Vehicle               `json:"vehicle"`
}

type CreateAppointmentWithDetailsResponse struct {
	Appointment *AppointmentWithDetails `json:"appointment"`
}
