package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BuzzLyutic/task-tracker-api/internal/config"
	"github.com/BuzzLyutic/task-tracker-api/internal/database"
	"github.com/BuzzLyutic/task-tracker-api/internal/handler"
	"github.com/BuzzLyutic/task-tracker-api/internal/repo"
	"github.com/BuzzLyutic/task-tracker-api/internal/service"
)

func main() {
	var envFile string
	flag.StringVar(&envFile, "env-file", ".env", "dotenv file with settings")
	flag.Parse()

	// Загрузка конфигурации
	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Подключаем логгер
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	// Подключаем БД, без неё сервер не поднимаем
	client, db, err := openDatabase(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to prepare the Database", zap.Error(err))
	}
	logger.Info("Successfully connected to the Database!", zap.String("db", cfg.MongoDBName))

	taskHandler := handler.NewTaskHandler(service.NewTaskService(repo.NewTaskRepo(db)), logger)
	router := handler.NewRouter(taskHandler, handler.RouterConfig{
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.AllowedOrigins(),
	}, logger)

	srv := &http.Server{ // Создаем сервер
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("addr", srv.Addr), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown: сначала HTTP, потом соединение с БД
	wait := gfshutdown.GracefulShutdown(context.Background(), cfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			logger.Info("Shutting down server...")
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			logger.Info("Closing the Database connection...")
			return client.Disconnect(ctx)
		},
	})

	exitCode := <-wait
	logger.Info("Server stopped", zap.Int("exit_code", exitCode))
	_ = logger.Sync()
	os.Exit(exitCode)
}

// openDatabase connects to MongoDB and creates the task indexes. The client
// is disconnected again when index creation fails.
func openDatabase(ctx context.Context, cfg config.Config) (*mongo.Client, *mongo.Database, error) {
	client, err := database.Connect(ctx, database.Options{
		URI:         cfg.MongoURI,
		Timeout:     cfg.MongoTimeout,
		MaxPoolSize: cfg.MongoMaxPool,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}

	db := client.Database(cfg.MongoDBName)
	if err := database.EnsureIndexes(ctx, db.Collection(repo.CollectionName)); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("create indexes: %w", err)
	}
	return client, db, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
