package main

import (
	"log"

	"be-fest/cmd"
	"be-fest/internal/data/repository"
	"be-fest/internal/wire"
	"be-fest/pkg/broker"
	"be-fest/pkg/database"
	"be-fest/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.Float64("fee_rate", config.Pricing.FeeRate),
		zap.String("tier_gap_policy", config.Pricing.TierGapPolicy),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Correction events go to Kafka when brokers are configured
	publisher, err := broker.NewPublisher(config.Kafka.Brokers)
	if err != nil {
		logger.Fatal("Failed to connect to Kafka", zap.Error(err), zap.Strings("brokers", config.Kafka.Brokers))
	}
	defer publisher.Close()

	repos := repository.NewRepository(db, logger)

	app, err := wire.Wiring(repos, config, publisher, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
