package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DesignByOnyx/curbee-coding-exercise/internal/domain"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/service/appointments"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/store"
)

type createAppointmentRequest struct {
	AppointmentStartTime instant `json:"appointmentStartTime"`
	AppointmentEndTime   instant `json:"appointmentEndTime"`
	LocationID           string  `json:"locationId"`
	CustomerID           string  `json:"customerId"`
	VehicleID            string  `json:"vehicleId"`
}

type createAppointmentWithDetailsRequest struct {
	AppointmentStartTime instant              `json:"appointmentStartTime"`
	AppointmentEndTime   instant              `json:"appointmentEndTime"`
	Location             domain.LocationInput `json:"location"`
	Customer             domain.CustomerInput `json:"customer"`
	Vehicle              domain.VehicleInput  `json:"vehicle"`
}

func (h *handler) getAppointment(c *gin.Context) {
	appt, err := h.appts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *handler) findAppointments(c *gin.Context) {
	filter := store.AppointmentFilter{
		ID:         strings.TrimSpace(c.Query("id")),
		LocationID: strings.TrimSpace(c.Query("locationId")),
		CustomerID: strings.TrimSpace(c.Query("customerId")),
		VehicleID:  strings.TrimSpace(c.Query("vehicleId")),
	}
	var ok bool
	if filter.AppointmentStartTime, ok = queryInstant(c, "appointmentStartTime"); !ok {
		return
	}
	if filter.AppointmentEndTime, ok = queryInstant(c, "appointmentEndTime"); !ok {
		return
	}

	appts, err := h.appts.Find(c.Request.Context(), filter)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if appts == nil {
		appts = []domain.Appointment{}
	}
	c.JSON(http.StatusOK, appts)
}

func (h *handler) createAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	appt, err := h.appts.Create(c.Request.Context(), appointments.CreateInput{
		AppointmentStartTime: req.AppointmentStartTime.Time,
		AppointmentEndTime:   req.AppointmentEndTime.Time,
		LocationID:           req.LocationID,
		CustomerID:           req.CustomerID,
		VehicleID:            req.VehicleID,
		IdempotencyKey:       c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

func (h *handler) createAppointmentWithDetails(c *gin.Context) {
	var req createAppointmentWithDetailsRequest
	if !bindJSON(c, &req) {
		return
	}

	appt, err := h.appts.CreateWithDetails(c.Request.Context(), appointments.CreateWithDetailsInput{
		AppointmentStartTime: req.AppointmentStartTime.Time,
		AppointmentEndTime:   req.AppointmentEndTime.Time,
		Location:             req.Location,
		Customer:             req.Customer,
		Vehicle:              req.Vehicle,
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// queryInstant returns nil when param is absent. On a malformed value it
// writes the 400 itself and reports false.
func queryInstant(c *gin.Context, param string) (*time.Time, bool) {
	raw := c.Query(param)
	if raw == "" {
		return nil, true
	}
	t, err := parseInstant(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, param+": "+err.Error())
		return nil, false
	}
	return &t, true
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}
