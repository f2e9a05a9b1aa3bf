package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/archive-lab/magpie/internal/config"
	"github.com/archive-lab/magpie/internal/queue"
	"github.com/archive-lab/magpie/internal/util"
	"github.com/archive-lab/magpie/pkg/consolidate"
	"github.com/archive-lab/magpie/pkg/logger"
	"github.com/archive-lab/magpie/pkg/logger/console"
	"github.com/archive-lab/magpie/pkg/names"
	"github.com/archive-lab/magpie/pkg/relate"
	"github.com/archive-lab/magpie/pkg/risk"
	pgxstore "github.com/archive-lab/magpie/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	cfg, err := config.Load(util.GetEnv("MAGPIE_CONFIG"))
	if err != nil {
		logger.Fatal("Could not load config", "err", err)
	}

	databaseURL := util.GetEnv("DATABASE_URL")
	if databaseURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	migrationsURL := util.GetEnvString("MIGRATIONS_URL", "file://migrations")
	if err := pgxstore.RunMigrations(migrationsURL, databaseURL); err != nil {
		logger.Fatal("Failed to run migrations", "err", err)
	}

	pgConn, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer pgConn.Close()

	if err := util.RetryErrWithContext(ctx, 5, 2*time.Second, pgConn.Ping); err != nil {
		logger.Fatal("Database unreachable", "err", err)
	}

	storage := pgxstore.NewEntityStorage(pgConn)
	pipeline := consolidate.NewPipeline(storage, consolidate.Params{
		Dictionary: names.Default().Extend(cfg.Nicknames),
		Relate: relate.Params{
			MinStrength:   cfg.Relationships.MinStrength,
			MaxEdges:      cfg.Relationships.MaxEdges,
			ParallelScans: cfg.Relationships.ParallelScans,
		},
		Risk: risk.Params{
			Anchors:  cfg.Risk.Anchors,
			Keywords: cfg.Risk.Keywords,
		},
	})

	conn := queue.Init()
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	queues := []string{queue.ConsolidateQueue}
	if err := queue.SetupQueues(ch, queues); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	// Consolidation runs are exclusive-process; prefetch=1 keeps one
	// job in flight at a time.
	if err := consumerCh.Qos(1, 0, true); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(
		queue.ConsolidateQueue,
		"consolidate_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "err", err)
	}

	logger.Info("Listening for consolidation jobs")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received, exiting...")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Info("Message channel closed")
				return
			}

			err := queue.ProcessConsolidateMessage(ctx, pipeline, string(msg.Body))
			if err != nil {
				logger.Error("Error processing consolidate job", "err", err)
				handleProcessingError(consumerCh, msg, queue.ConsolidateQueue)
				continue
			}

			if err := msg.Ack(false); err != nil {
				logger.Error("Failed to ack message", "err", err)
			}
			logger.Info("Consolidate job processed")
		}
	}
}

// handleProcessingError requeues a failed job through the retry queue,
// pushing it to the dead-letter queue after too many attempts.
func handleProcessingError(ch *amqp.Channel, msg amqp.Delivery, queueName string) {
	retries := 0
	if val, ok := msg.Headers["x-retries"]; ok {
		if v, ok := val.(int32); ok {
			retries = int(v)
		}
	}

	if retries >= 5 {
		dlqName := queueName + "_dlq"
		logger.Info("Sending job to DLQ", "dlq", dlqName)
		pubErr := ch.Publish(
			"",
			dlqName,
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        msg.Body,
				Headers:     msg.Headers,
			},
		)
		if pubErr != nil {
			logger.Error("Failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			msg.Nack(false, true)
			return
		}
		msg.Ack(false)
		return
	}

	retryName := queueName + "_retry"
	headers := msg.Headers
	if headers == nil {
		headers = amqp.Table{}
	}
	headers["x-retries"] = int32(retries + 1)

	pubErr := ch.Publish(
		"",
		retryName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        msg.Body,
			Headers:     headers,
		},
	)
	if pubErr != nil {
		logger.Error("Failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}
