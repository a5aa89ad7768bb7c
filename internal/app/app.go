// Package app connects the MongoDB and Redis backends shared by the commands.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"followership/internal/cache"
	"followership/internal/config"
	"followership/internal/repository"
	"followership/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// App holds the backend clients and the stores built on them
type App struct {
	Mongo *mongo.Client
	Redis *redis.Client
	DB    *mongo.Database

	ReportRepo   repository.ReportRepo
	QuestionRepo repository.QuestionRepo
	Reports      storage.BlobStore
	SessionCache cache.SessionCache
	StatsCache   cache.StatsCache
}

// Connect dials MongoDB and Redis, pings both and builds the stores
func Connect(ctx context.Context, cfg *config.Config) (*App, error) {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	log.Println("Connected to MongoDB")

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr(),
	})
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		rdb.Close()
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("ping Redis: %w", err)
	}
	log.Println("Connected to Redis")

	db := mongoClient.Database(cfg.MongoDatabase)
	reports, err := storage.NewGridFSStore(db, storage.DefaultBucket)
	if err != nil {
		rdb.Close()
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("open report bucket: %w", err)
	}

	return &App{
		Mongo:        mongoClient,
		Redis:        rdb,
		DB:           db,
		ReportRepo:   repository.NewReportRepo(db),
		QuestionRepo: repository.NewQuestionRepo(db),
		Reports:      reports,
		SessionCache: cache.NewSessionCache(rdb, cfg.SessionTTL),
		StatsCache:   cache.NewStatsCache(rdb),
	}, nil
}

// Close releases both clients
func (a *App) Close(ctx context.Context) {
	if err := a.Redis.Close(); err != nil {
		log.Printf("Failed to close Redis: %v", err)
	}
	if err := a.Mongo.Disconnect(ctx); err != nil {
		log.Printf("Failed to disconnect MongoDB: %v", err)
	}
}
