package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/readstack/library-service/config"
	"github.com/readstack/library-service/internal/handler"
	"github.com/readstack/library-service/internal/repository"
	"github.com/readstack/library-service/internal/server"
	"github.com/readstack/library-service/internal/service"
	"github.com/readstack/library-service/migrations"
	"github.com/readstack/library-service/pkg/assets"
	"github.com/readstack/library-service/pkg/auth"
	"github.com/readstack/library-service/pkg/kafka"
	"github.com/readstack/library-service/pkg/logger"
	"github.com/readstack/library-service/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	auth.SetJWTKey(cfg.JWT.Key)

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	var assetClient *assets.Client
	if cfg.Assets.Enabled() {
		if assetClient, err = assets.New(context.Background(), cfg.Assets, log); err != nil {
			log.Fatal("assets.New", zap.Error(err))
		}
	} else {
		log.Warn("asset host disabled: image uploads will be rejected")
	}

	svc := service.NewService(repo, assetClient, cfg.JWT.TTL, log)
	if err = svc.EnsureAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatal("ensure admin", zap.Error(err))
	}

	consumeCtx, stopConsume := context.WithCancel(context.Background())
	defer stopConsume()

	var (
		audit    handler.StatsLog
		producer sarama.SyncProducer
		consumer sarama.ConsumerGroup
	)
	if cfg.Kafka.Enabled() {
		if producer, err = kafka.NewProducer(cfg.Kafka); err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		audit = handler.NewStatsLog(producer, kafka.AuditTopic)

		if consumer, err = kafka.NewConsumer(cfg.Kafka, kafka.AuditConsumerGroup); err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		go kafka.Consume(consumeCtx, consumer, handler.NewConsumer(svc.RecordEvent, log), kafka.AuditTopic)
	} else {
		log.Warn("kafka disabled: audit events will not be published")
	}

	h := handler.New(handler.Services{
		Auth:    svc,
		Catalog: svc,
		Loans:   svc,
		Reviews: svc,
		Profile: svc,
		Stats:   svc,
	}, audit, cfg.Static, log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	stopConsume()
	if consumer != nil {
		if err = consumer.Close(); err != nil {
			log.Error("consumer.Close", zap.Error(err))
		}
	}
	if producer != nil {
		if err = producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
