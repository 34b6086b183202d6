// Package rest exposes the booking services over JSON/HTTP with gin.
package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DesignByOnyx/curbee-coding-exercise/internal/domain"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/metrics"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/service/appointments"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/store"
)

type appointmentsService interface {
	Get(ctx context.Context, id string) (domain.AppointmentWithDetails, error)
	Find(ctx context.Context, filter store.AppointmentFilter) ([]domain.Appointment, error)
	Create(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error)
	CreateWithDetails(ctx context.Context, in appointments.CreateWithDetailsInput) (domain.AppointmentWithDetails, error)
}

type directoryService interface {
	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
	FindCustomers(ctx context.Context, filter store.CustomerFilter) ([]domain.Customer, error)
	CreateCustomer(ctx context.Context, in domain.CustomerInput) (domain.Customer, error)

	GetVehicle(ctx context.Context, id string) (domain.Vehicle, error)
	FindVehicles(ctx context.Context, filter store.VehicleFilter) ([]domain.Vehicle, error)
	CreateVehicle(ctx context.Context, in domain.VehicleInput) (domain.Vehicle, error)

	GetLocation(ctx context.Context, id string) (domain.Location, error)
	FindLocations(ctx context.Context, filter store.LocationFilter) ([]domain.Location, error)
	CreateLocation(ctx context.Context, in domain.LocationInput) (domain.Location, error)
}

type Config struct {
	Appointments appointmentsService
	Directory    directoryService
	Metrics      *metrics.Collector
	Logger       *slog.Logger
	// Ready, when set, backs /healthz.
	Ready func(ctx context.Context) error
}

type handler struct {
	appts appointmentsService
	dir   directoryService
	log   *slog.Logger
}

func NewRouter(cfg Config) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "http"))

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), observe(cfg.Metrics, log))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "curbee", "rest": "/rest"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		if cfg.Ready != nil {
			if err := cfg.Ready(c.Request.Context()); err != nil {
				log.Warn("health check failed", slog.Any("err", err))
				respondError(c, http.StatusServiceUnavailable, "unavailable")
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	h := &handler{appts: cfg.Appointments, dir: cfg.Directory, log: log}
	api := r.Group("/rest")
	{
		api.GET("/appointment", h.findAppointments)
		api.GET("/appointment/:id", h.getAppointment)
		api.POST("/appointment", h.createAppointment)
		api.POST("/appointment/details", h.createAppointmentWithDetails)

		api.GET("/customer", h.findCustomers)
		api.GET("/customer/:id", h.getCustomer)
		api.POST("/customer", h.createCustomer)

		api.GET("/vehicle", h.findVehicles)
		api.GET("/vehicle/:id", h.getVehicle)
		api.POST("/vehicle", h.createVehicle)

		api.GET("/location", h.findLocations)
		api.GET("/location/:id", h.getLocation)
		api.POST("/location", h.createLocation)
	}

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "route not found")
	})
	return r
}
