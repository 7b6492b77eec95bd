package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/google/uuid"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/rodneyosodo/flock/coordinator"
	"github.com/rodneyosodo/flock/coordinator/api"
	"github.com/rodneyosodo/flock/coordinator/middleware"
	"github.com/rodneyosodo/flock/model"
	"github.com/rodneyosodo/flock/pkg/mqtt"
	"github.com/rodneyosodo/flock/pkg/storage"
)

const svcName = "coordinator"

type envConfig struct {
	LogLevel    string        `env:"FLOCK_COORDINATOR_LOG_LEVEL"    envDefault:"info"`
	InstanceID  string        `env:"FLOCK_COORDINATOR_INSTANCE_ID"`
	HTTPPort    string        `env:"FLOCK_COORDINATOR_HTTP_PORT"    envDefault:"7070"`
	MQTTAddress string        `env:"FLOCK_MQTT_ADDRESS"             envDefault:"tcp://localhost:1883"`
	MQTTQoS     uint8         `env:"FLOCK_MQTT_QOS"                 envDefault:"2"`
	MQTTTimeout time.Duration `env:"FLOCK_MQTT_TIMEOUT"             envDefault:"30s"`
	Channel     string        `env:"FLOCK_CHANNEL"                  envDefault:"demo"`

	Rounds              uint64        `env:"FLOCK_ROUNDS"                envDefault:"3"`
	MinFitClients       int           `env:"FLOCK_MIN_FIT_CLIENTS"       envDefault:"2"`
	MinEvaluateClients  int           `env:"FLOCK_MIN_EVALUATE_CLIENTS"  envDefault:"2"`
	MinAvailableClients int           `env:"FLOCK_MIN_AVAILABLE_CLIENTS" envDefault:"2"`
	RoundTimeout        time.Duration `env:"FLOCK_ROUND_TIMEOUT"         envDefault:"2m"`
	LocalEpochs         int           `env:"FLOCK_LOCAL_EPOCHS"          envDefault:"1"`
	BatchSize           int           `env:"FLOCK_BATCH_SIZE"            envDefault:"32"`

	ModelFeatures int     `env:"FLOCK_MODEL_FEATURES" envDefault:"20"`
	ModelClasses  int     `env:"FLOCK_MODEL_CLASSES"  envDefault:"4"`
	LearningRate  float64 `env:"FLOCK_LEARNING_RATE"  envDefault:"0.1"`
	ModelSeed     int64   `env:"FLOCK_MODEL_SEED"     envDefault:"42"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load configuration: %s", err.Error())
	}
	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	mqttPubSub, err := mqtt.NewPubSub(cfg.MQTTAddress, cfg.MQTTQoS, svcName+"-"+cfg.InstanceID, cfg.MQTTTimeout, logger)
	if err != nil {
		logger.Error("failed to initialize mqtt pubsub", slog.Any("error", err))
		os.Exit(1)
	}

	factory := model.New(cfg.ModelFeatures, cfg.ModelClasses, cfg.LearningRate, cfg.ModelSeed)
	strategy := coordinator.NewStrategy(factory.Parameters)

	events := coordinator.NewEventLog(logger)
	svc := coordinator.NewService(
		cfg.Channel,
		coordinator.Config{
			Rounds:              cfg.Rounds,
			MinFitClients:       cfg.MinFitClients,
			MinEvaluateClients:  cfg.MinEvaluateClients,
			MinAvailableClients: cfg.MinAvailableClients,
			RoundTimeout:        cfg.RoundTimeout,
			LocalEpochs:         cfg.LocalEpochs,
			BatchSize:           cfg.BatchSize,
		},
		strategy,
		storage.NewInMemoryStorage(),
		storage.NewInMemoryStorage(),
		mqttPubSub,
		events,
	)
	svc = middleware.Logging(logger, svc)
	svc = middleware.Tracing(noop.NewTracerProvider().Tracer(svcName), svc)
	counter := kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: "flock",
		Subsystem: svcName,
		Name:      "request_count",
		Help:      "Number of requests received.",
	}, []string{"method"})
	latency := kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
		Namespace: "flock",
		Subsystem: svcName,
		Name:      "request_latency_microseconds",
		Help:      "Total duration of requests in microseconds.",
	}, []string{"method"})
	svc = middleware.Metrics(counter, latency, svc)

	if err := svc.Subscribe(ctx); err != nil {
		logger.Error("failed to subscribe to coordinator channel", slog.Any("error", err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.MakeHandler(svc, logger, cfg.InstanceID),
	}

	g.Go(func() error {
		logger.Info("coordinator HTTP server listening", slog.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to bind coordinator endpoint: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		return svc.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}

		return mqttPubSub.Disconnect(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(fmt.Sprintf("%s service exited with error: %s", svcName, err))
		os.Exit(1)
	}
}
