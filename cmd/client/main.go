package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/0x6flab/namegenerator"
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rodneyosodo/flock/client"
	"github.com/rodneyosodo/flock/model"
	"github.com/rodneyosodo/flock/pkg/fl"
	"github.com/rodneyosodo/flock/pkg/mqtt"
)

const svcName = "client"

var namegen = namegenerator.NewGenerator()

type envConfig struct {
	LogLevel    string        `env:"FLOCK_CLIENT_LOG_LEVEL" envDefault:"info"`
	ClientID    string        `env:"FLOCK_CLIENT_ID"`
	ClientName  string        `env:"FLOCK_CLIENT_NAME"`
	MQTTAddress string        `env:"FLOCK_MQTT_ADDRESS"     envDefault:"tcp://localhost:1883"`
	MQTTQoS     uint8         `env:"FLOCK_MQTT_QOS"         envDefault:"2"`
	MQTTTimeout time.Duration `env:"FLOCK_MQTT_TIMEOUT"     envDefault:"30s"`
	Channel     string        `env:"FLOCK_CHANNEL"          envDefault:"demo"`
	Liveliness  time.Duration `env:"FLOCK_LIVELINESS"       envDefault:"10s"`

	Partition    int     `env:"FLOCK_PARTITION"      envDefault:"0"`
	NumExamples  int     `env:"FLOCK_NUM_EXAMPLES"   envDefault:"600"`
	TestFraction float64 `env:"FLOCK_TEST_FRACTION"  envDefault:"0.2"`
	LocalEpochs  int     `env:"FLOCK_LOCAL_EPOCHS"   envDefault:"1"`
	BatchSize    int     `env:"FLOCK_BATCH_SIZE"     envDefault:"32"`

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
	if cfg.ClientID == "" {
		cfg.ClientID = uuid.NewString()
	}
	if cfg.ClientName == "" {
		cfg.ClientName = namegen.Generate()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("failed to parse log level: %s", err.Error())
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("loading dataset partition",
		slog.Int("partition", cfg.Partition),
		slog.Int("num_examples", cfg.NumExamples))
	dataset := model.LoadPartition(cfg.ModelSeed, cfg.Partition, cfg.NumExamples, cfg.ModelFeatures, cfg.ModelClasses, cfg.TestFraction)
	m := model.New(cfg.ModelFeatures, cfg.ModelClasses, cfg.LearningRate, cfg.ModelSeed)

	offline := fl.AliveMessage{ClientID: cfg.ClientID, Status: "offline"}
	mqttPubSub, err := mqtt.NewPubSub(
		cfg.MQTTAddress,
		cfg.MQTTQoS,
		svcName+"-"+cfg.ClientID,
		cfg.MQTTTimeout,
		logger,
		mqtt.WithLastWill(fl.AliveTopic(cfg.Channel), offline),
	)
	if err != nil {
		logger.Error("failed to initialize mqtt pubsub", slog.Any("error", err))
		os.Exit(1)
	}

	agent := client.NewAgent(cfg.ClientID, m, dataset, cfg.LocalEpochs, cfg.BatchSize, logger)
	svc := client.NewService(cfg.Channel, cfg.ClientName, agent, mqttPubSub, cfg.Liveliness, logger)

	g.Go(func() error {
		return svc.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		return mqttPubSub.Disconnect(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(fmt.Sprintf("%s service exited with error: %s", svcName, err))
		os.Exit(1)
	}
}
