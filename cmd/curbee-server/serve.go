package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"

	curbeev1 "github.com/DesignByOnyx/curbee-coding-exercise/internal/api/curbeev1"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/booking"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/config"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/events"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/metrics"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/service/appointments"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/service/directory"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/store/sqlstore"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/telemetry"
	grpcTransport "github.com/DesignByOnyx/curbee-coding-exercise/internal/transport/grpc"
	"github.com/DesignByOnyx/curbee-coding-exercise/internal/transport/rest"
)

func serve(parent context.Context, configFile string) error {
	cfg, log, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	log.Info("starting",
		slog.String("http_addr", cfg.HTTPAddr),
		slog.String("grpc_addr", cfg.GRPCAddr()),
		slog.String("log_level", cfg.LogLevel),
	)

	shutdownTracing, err := telemetry.Setup(parent, telemetry.Config{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  serviceName,
		OTLPEndpoint: cfg.OTelEndpoint,
		SampleRatio:  cfg.OTelSampleRatio,
	})
	if err != nil {
		log.Error("telemetry setup failed", slog.Any("err", err))
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("telemetry shutdown failed", slog.Any("err", err))
		}
	}()

	db, err := openStore(log, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlstore.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(parent, time.Minute)
		err := sqlstore.Migrate(ctx, db)
		cancel()
		if err != nil {
			log.Error("migration failed", slog.Any("err", err))
			return err
		}
	}

	hours, err := booking.NewBusinessHours(cfg.ScheduleTimezone, cfg.ScheduleOpen, cfg.ScheduleClose)
	if err != nil {
		log.Error("invalid business hours", slog.Any("err", err))
		return err
	}
	rule, err := booking.ParseOverlapRule(cfg.OverlapRule)
	if err != nil {
		log.Error("invalid overlap rule", slog.Any("err", err))
		return err
	}

	locker, closeLocker, err := newLocker(parent, log, cfg)
	if err != nil {
		return err
	}
	defer closeLocker()

	publisher, closePublisher := newPublisher(log, cfg)
	defer closePublisher()

	collector := metrics.NewCollector("curbee")
	st := sqlstore.NewStore(db)

	apptSvc := appointments.NewService(st,
		appointments.WithBusinessHours(hours),
		appointments.WithOverlapRule(rule),
		appointments.WithLocker(locker),
		appointments.WithPublisher(publisher),
		appointments.WithMetrics(collector),
		appointments.WithLogger(log),
	)
	dirSvc := directory.NewService(st, log)

	log.Info("booking configured",
		slog.String("timezone", cfg.ScheduleTimezone),
		slog.String("open", hours.Open.String()),
		slog.String("close", hours.Close.String()),
		slog.String("overlap_rule", rule.String()),
		slog.String("lock_driver", cfg.LockDriver),
	)

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(defaultRequestTimeoutInterceptor(cfg.GRPCRequestTimeout)),
	)
	curbeev1.RegisterAppointmentsServiceServer(grpcServer, grpcTransport.NewAppointmentsServer(apptSvc, log))

	gin.SetMode(gin.ReleaseMode)
	router := rest.NewRouter(rest.Config{
		Appointments: apptSvc,
		Directory:    dirSvc,
		Metrics:      collector,
		Logger:       log,
		Ready:        db.PingContext,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, "curbee.http"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr()))
		return err
	}
	httpLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		_ = grpcLis.Close()
		log.Error("http listen failed", slog.Any("err", err), slog.String("http_addr", cfg.HTTPAddr))
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		errCh <- grpcServer.Serve(grpcLis)
	}()
	go func() {
		errCh <- httpServer.Serve(httpLis)
	}()

	log.Info("grpc server started", slog.String("grpc_addr", cfg.GRPCAddr()))
	log.Info("http server started", slog.String("http_addr", cfg.HTTPAddr))

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped with error", slog.Any("err", err))
			runErr = err
		}
	}

	shutdownHTTP(log, httpServer, cfg.ShutdownTimeout)
	shutdown(log, grpcServer, cfg.ShutdownTimeout)
	return runErr
}

func openStore(log *slog.Logger, cfg config.Config) (*bun.DB, error) {
	dsn := cfg.SQLitePath
	if cfg.StoreDriver == sqlstore.DriverPostgres {
		dsn = cfg.DatabaseURL
	}

	log.Info("connecting to database", databaseLogArgs(cfg)...)
	db, err := sqlstore.Open(cfg.StoreDriver, dsn, sqlstore.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg)...)
		log.Error("database connection failed", args...)
		return nil, err
	}
	return db, nil
}

func newLocker(ctx context.Context, log *slog.Logger, cfg config.Config) (booking.Locker, func(), error) {
	if cfg.LockDriver != "redis" {
		return booking.NewLocalLocker(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		log.Error("redis connection failed", slog.Any("err", err), slog.String("redis_addr", cfg.RedisAddr))
		return nil, nil, err
	}

	closeFn := func() {
		if err := rdb.Close(); err != nil {
			log.Warn("redis close failed", slog.Any("err", err))
		}
	}
	return booking.NewRedisLocker(rdb, cfg.LockTTL, "", log), closeFn, nil
}

func newPublisher(log *slog.Logger, cfg config.Config) (events.Publisher, func()) {
	brokers := events.SplitBrokers(cfg.KafkaBrokers)
	if len(brokers) == 0 {
		log.Info("no kafka brokers configured; booking events are discarded")
		return events.Discard{}, func() {}
	}

	p := events.NewKafkaPublisher(brokers, cfg.KafkaTopic)
	log.Info("publishing booking events", slog.Any("kafka_brokers", brokers), slog.String("kafka_topic", cfg.KafkaTopic))
	return p, func() {
		if err := p.Close(); err != nil {
			log.Warn("kafka writer close failed", slog.Any("err", err))
		}
	}
}

func defaultRequestTimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return handler(ctx, req)
	}
}

func shutdown(log *slog.Logger, s *grpc.Server, timeout time.Duration) {
	log.Info("shutting down grpc server", slog.Duration("timeout", timeout))

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		log.Info("grpc server stopped")
	case <-timer.C:
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		s.Stop()
	}
}

func shutdownHTTP(log *slog.Logger, s *http.Server, timeout time.Duration) {
	log.Info("shutting down http server", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Warn("http graceful shutdown timed out; forcing close", slog.Any("err", err))
		_ = s.Close()
		return
	}
	log.Info("http server stopped")
}
