package main

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/petnic-studio-api/config"
	"github.com/kendall-kelly/petnic-studio-api/services"
	"gorm.io/gorm"
)

// ginMode maps GO_ENV onto a gin mode. Unknown environments run in release mode.
func ginMode(cfg *config.Config) string {
	switch {
	case cfg.IsDevelopment():
		return gin.DebugMode
	case cfg.IsTest():
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}

// newStorage picks the upload backend. The local backend is also returned
// on its own so the router can serve its files.
func newStorage(ctx context.Context, cfg *config.Config) (services.Storage, *services.LocalStorage, error) {
	if cfg.StorageBackend == "s3" {
		s3Storage, err := services.NewS3Storage(ctx, services.S3Config{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.AWSS3Bucket,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, nil, err
		}
		slog.Info("storing uploads in S3", "bucket", cfg.AWSS3Bucket)
		return s3Storage, nil, nil
	}

	local, err := services.NewLocalStorage(cfg.UploadDir, cfg.UploadURLPrefix)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("storing uploads on disk", "dir", cfg.UploadDir)
	return local, local, nil
}

// newSessionStore keeps sessions in Redis when REDIS_URL is set and in the
// database otherwise.
func newSessionStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (services.SessionStore, error) {
	if cfg.RedisURL == "" {
		return services.NewGormSessionStore(db), nil
	}
	rdb, err := services.ConnectRedis(ctx, cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	slog.Info("storing sessions in redis")
	return services.NewRedisSessionStore(rdb), nil
}

// newPublisher sends order events to Kafka when brokers are configured
func newPublisher(cfg *config.Config) services.EventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		return services.NoopPublisher{}
	}
	slog.Info("publishing order events to kafka", "topic", cfg.KafkaOrderTopic)
	return services.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
}
