package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"resource-board/internal/config"
	"resource-board/internal/platform/metrics"
	rabbitmqClient "resource-board/internal/platform/rabbitmq"
	redisClient "resource-board/internal/platform/redis"
)

type App struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Metrics *metrics.Metrics
	Storage *Storage

	// Redis and MQConn are nil when their section is disabled.
	Redis     *redis.Client
	MQConn    *amqp.Connection
	Publisher *rabbitmqClient.EventPublisher

	StartedAt time.Time
}

func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	storage, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := &App{
		Config:    cfg,
		Logger:    log,
		Metrics:   metrics.New(),
		Storage:   storage,
		StartedAt: time.Now(),
	}

	if err := storage.Migrate(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}

	if cfg.Redis.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.Redis = redisCli
	}

	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.MQConn = mqConn
		app.Publisher = rabbitmqClient.NewEventPublisher(mqConn, cfg.RabbitMQ.ResourceEventsQueue)
	}

	log.WithFields(logrus.Fields{
		"storage":  storage.Driver,
		"redis":    app.Redis != nil,
		"rabbitmq": app.MQConn != nil,
	}).Info("dependencies ready")
	return app, nil
}

func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis failed: %w", err))
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close rabbitmq failed: %w", err))
		}
	}
	if a.Storage != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Storage.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close storage failed: %w", err))
		}
	}
	return errors.Join(errs...)
}
