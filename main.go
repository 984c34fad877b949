package main

import (
	"context"
	"go.uber.org/zap"
	"inventra-backend/cmd/config"
	migration "inventra-backend/cmd/database/migrate"
	"inventra-backend/internal/utils"
	"inventra-backend/internal/utils/logger"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	utils.LoadConfig()

	zapLogger, err := logger.Init(logger.Config{
		Mode:     utils.GetConfig("LOG_MODE"),
		Filename: utils.GetConfig("LOG_FILE"),
	})
	if err != nil {
		log.Fatalf("error initializing logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	db, err := config.ConnectDB()
	if err != nil {
		zap.L().Fatal("database connection failed", zap.Error(err))
	}

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := migration.Migrate(db); err != nil {
			zap.L().Fatal("migration failed", zap.Error(err))
		}
		return
	}

	accessLog, err := config.OpenAccessLog()
	if err != nil {
		zap.L().Fatal("error opening access log", zap.Error(err))
	}
	defer accessLog.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services := config.NewServices(db)
	app := config.NewApp(services, accessLog)

	sched, err := config.NewScheduler(ctx, services)
	if err != nil {
		zap.L().Fatal("error scheduling jobs", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down")
		_ = app.Shutdown()
	}()

	port := utils.GetConfig("APP_PORT")
	zap.L().Info("server starting", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}
