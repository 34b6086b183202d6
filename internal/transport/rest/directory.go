package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DesignByOnyx/curbee-coding-exercise/internal/domain"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/store"
)

func (h *handler) getCustomer(c *gin.Context) {
	cust, err := h.dir.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *handler) findCustomers(c *gin.Context) {
	filter := store.CustomerFilter{
		ID:        strings.TrimSpace(c.Query("id")),
		FirstName: strings.TrimSpace(c.Query("firstName")),
		LastName:  strings.TrimSpace(c.Query("lastName")),
		Email:     strings.TrimSpace(c.Query("email")),
	}
	if raw := strings.TrimSpace(c.Query("phone")); raw != "" {
		phone, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "phone must be a number")
			return
		}
		filter.Phone = &phone
	}

	customers, err := h.dir.FindCustomers(c.Request.Context(), filter)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	c.JSON(http.StatusOK, customers)
}

func (h *handler) createCustomer(c *gin.Context) {
	var in domain.CustomerInput
	if !bindJSON(c, &in) {
		return
	}
	cust, err := h.dir.CreateCustomer(c.Request.Context(), in)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cust)
}

func (h *handler) getVehicle(c *gin.Context) {
	veh, err := h.dir.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, veh)
}

func (h *handler) findVehicles(c *gin.Context) {
	vehicles, err := h.dir.FindVehicles(c.Request.Context(), store.VehicleFilter{
		ID:  strings.TrimSpace(c.Query("id")),
		VIN: strings.TrimSpace(c.Query("vin")),
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	c.JSON(http.StatusOK, vehicles)
}

func (h *handler) createVehicle(c *gin.Context) {
	var in domain.VehicleInput
	if !bindJSON(c, &in) {
		return
	}
	veh, err := h.dir.CreateVehicle(c.Request.Context(), in)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, veh)
}

func (h *handler) getLocation(c *gin.Context) {
	loc, err := h.dir.GetLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (h *handler) findLocations(c *gin.Context) {
	locations, err := h.dir.FindLocations(c.Request.Context(), store.LocationFilter{
		ID:      strings.TrimSpace(c.Query("id")),
		Line1:   strings.TrimSpace(c.Query("line1")),
		Line2:   strings.TrimSpace(c.Query("line2")),
		City:    strings.TrimSpace(c.Query("city")),
		State:   strings.TrimSpace(c.Query("state")),
		ZipCode: strings.TrimSpace(c.Query("zipCode")),
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if locations == nil {
		locations = []domain.Location{}
	}
	c.JSON(http.StatusOK, locations)
}

func (h *handler) createLocation(c *gin.Context) {
	var in domain.LocationInput
	if !bindJSON(c, &in) {
		return
	}
	loc, err := h.dir.CreateLocation(c.Request.Context(), in)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loc)
}
