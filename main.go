package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolia-backend/api"
	"github.com/rpupo63/portfolia-backend/config"
	"github.com/rpupo63/portfolia-backend/database"
	"github.com/rpupo63/portfolia-backend/models"
	"github.com/rpupo63/portfolia-backend/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.Log)
	log.Info().Msg("Initializing app...")

	ctx := context.Background()

	if cfg.NeedsSecrets() {
		client, err := config.NewSSMClient(ctx, cfg.Storage.S3Region)
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating SSM client")
		}
		if err := config.ResolveSecrets(ctx, cfg, client); err != nil {
			log.Fatal().Err(err).Msg("Error resolving secrets")
		}
	}

	db, err := openDatabase(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// If generating models, run generation and exit
	if strings.ToLower(os.Getenv("GENERATE_MODELS")) == "true" {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if strings.ToLower(os.Getenv("GENERATE_COLUMN_REPORT")) == "true" {
		log.Info().Msg("Generating column mismatch report...")
		if err := models.PrintColumnMismatchReport(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating column report")
		}
		return
	}

	currentDB := database.New(db)
	if err := currentDB.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	llm, err := services.NewLLM(ctx, cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing AI client")
	}
	storage, err := services.NewFileStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing file storage")
	}

	server, err := api.NewServer(cfg, currentDB, api.Dependencies{
		Storage: storage,
		LLM:     llm,
		Extract: services.ExtractText,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	errChannel := make(chan error, 2)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(cfg.Server.ShutdownTimeout)
}

func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func openDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	newLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             cfg.SlowThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if len(cfg.ReplicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.ReplicaDSNs))
		for _, dsn := range cfg.ReplicaDSNs {
			replicas = append(replicas, postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}))
		}
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
		log.Info().Int("replicas", len(replicas)).Msg("Read replicas registered")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test connection: %w", err)
	}
	return db, nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
