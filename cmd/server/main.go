package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"adaptiq/internal/cache"
	"adaptiq/internal/config"
	"adaptiq/internal/repository"
	"adaptiq/internal/service"
	"adaptiq/internal/transport/rest"
)

// @title AdaptIQ Assessment API
// @version 1.0
// @description Adaptive quiz engine with difficulty tracking and leaderboards
// @BasePath /api/v1
func main() {
	cfg := config.Load()
	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logrus.WithError(err).Fatal("failed to ping MongoDB")
	}
	logrus.Info("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		// The cache is an optimization, never a correctness dependency.
		logrus.WithError(err).Warn("failed to ping Redis, continuing without cache")
	} else {
		logrus.Info("connected to Redis")
	}

	// Repositories
	userRepo := repository.NewUserRepo(db)
	stateRepo := repository.NewUserStateRepo(db)
	questionRepo := repository.NewQuestionRepo(db)
	answerRepo := repository.NewAnswerLogRepo(db)
	txn := repository.NewTxn(mongoClient)

	for name, ensure := range map[string]func(context.Context) error{
		"users":       userRepo.EnsureIndexes,
		"user_states": stateRepo.EnsureIndexes,
		"questions":   questionRepo.EnsureIndexes,
		"answer_logs": answerRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			logrus.WithError(err).WithField("collection", name).Fatal("failed to create indexes")
		}
	}

	// Caches
	stateCache := cache.NewStateCache(rdb)
	poolCache := cache.NewQuestionPoolCache(rdb)
	lbCache := cache.NewLeaderboardCache(rdb)

	// Services
	authSvc := service.NewAuthService(userRepo, stateRepo, cfg.JWTSecret, cfg.JWTExpiry)
	lbSvc := service.NewLeaderboardService(stateRepo, userRepo, lbCache)
	assessSvc := service.NewAssessmentService(stateRepo, questionRepo, answerRepo, txn, stateCache, poolCache, lbSvc)

	router := rest.NewRouter(&rest.Container{
		AuthService:        authSvc,
		AssessmentService:  assessSvc,
		LeaderboardService: lbSvc,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logrus.WithField("port", cfg.HTTPPort).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("listen and serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Fatal("server forced to shutdown")
	}

	logrus.Info("server exited")
}
