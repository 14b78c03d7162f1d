/*
Copyright © 2025 insureval authors
*/
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/pkg/amqp"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	httpHdlr "insureval/handler/http"
	"insureval/src/core/chat"
	"insureval/src/core/evaluation"
	jobctrl "insureval/src/infrastructure/job"
	"insureval/src/log"
	"insureval/src/ollama"
	"insureval/src/storage/evalstore"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the insurance chatbot server",
	Long: `The serve command starts an HTTP server that answers insurance
questions and evaluates every production answer in the background.`,
	Run: RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	settingDefaultConfig()
}

func RunServer(cmd *cobra.Command, args []string) {
	if err := validateStoreMode(viper.GetString("eval.store"), viper.GetString("eval.async")); err != nil {
		log.Error(err, "Invalid evaluation store configuration")
		return
	}

	// Load the evaluation dataset
	dataset, err := loadDataset()
	if err != nil {
		log.Error(err, "Failed to load evaluation dataset")
		return
	}

	// Initialize Ollama client and model provider
	oc := ollama.NewClient(viper.GetString("ollama.url"), &http.Client{
		Timeout: 120 * time.Second,
	})
	provider := ollama.NewProvider(oc, viper.GetString("ollama.model"))

	// Initialize the record store
	store, cleanup, err := openRecordStore()
	if err != nil {
		log.Error(err, "Failed to open record store")
		return
	}
	defer cleanup()

	// Assemble the evaluation pipeline
	matcher := evaluation.NewSimilarityMatcher(provider, dataset,
		evaluation.WithConfidenceThreshold(viper.GetFloat64("eval.confidence_threshold")))
	judge := evaluation.NewJudgeScorer(provider)
	pipeline := evaluation.NewPipeline(matcher, judge, store)

	// Pick how finished answers reach the pipeline
	recorder, recorderCleanup, err := buildRecorder(pipeline)
	if err != nil {
		log.Error(err, "Failed to set up evaluation recorder")
		return
	}
	defer recorderCleanup()

	chatService := chat.NewService(provider, recorder)

	// Initialize HTTP handler
	handler := httpHdlr.NewHandler(chatService, pipeline, oc, viper.GetString("ollama.model"))

	// Setup gin router
	r := gin.Default()

	// Register routes
	handler.RegisterRoutes(r)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "Failed to start server")
			return
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Parse shutdown timeout
	timeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		log.Error(err, "Invalid shutdown timeout, using default 5s")
		timeout = 5 * time.Second
	}

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}

// loadDataset returns the dataset configured via eval.dataset, falling
// back to the built-in insurance dataset.
func loadDataset() (*evaluation.Dataset, error) {
	path := viper.GetString("eval.dataset")
	if path == "" {
		return evaluation.BuiltinInsuranceDataset(), nil
	}
	return evaluation.LoadDataset(path)
}

// openPostgres opens the shared PostgreSQL connection from config.
func openPostgres() (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		viper.GetString("postgres.host"),
		viper.GetString("postgres.user"),
		viper.GetString("postgres.password"),
		viper.GetString("postgres.db"),
		viper.GetString("postgres.port"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// validateStoreMode rejects store/async combinations that cannot hold
// the append-only guarantee. The file store is single-process: it
// loads the JSON lists once and rewrites whole files from memory, so
// the serve and worker processes sharing one directory would each
// overwrite the other's appends.
func validateStoreMode(store, async string) error {
	if async == "queue" && store != "postgres" {
		return fmt.Errorf("eval.async=queue requires eval.store=postgres, got eval.store=%q", store)
	}
	return nil
}

// openRecordStore builds the configured record store. The returned
// cleanup closes any underlying connection.
func openRecordStore() (evaluation.RecordStore, func(), error) {
	switch driver := viper.GetString("eval.store"); driver {
	case "postgres":
		db, err := openPostgres()
		if err != nil {
			return nil, nil, err
		}
		store, err := evalstore.NewPostgresStore(db)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return store, cleanup, nil
	case "file":
		store, err := evalstore.NewFileStore(viper.GetString("eval.data_dir"))
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown eval store driver: %s", driver)
	}
}

// buildRecorder wires finished chat answers into the evaluation
// pipeline, either inline in a goroutine or through the AMQP job queue.
func buildRecorder(pipeline *evaluation.Pipeline) (chat.Recorder, func(), error) {
	switch mode := viper.GetString("eval.async"); mode {
	case "queue":
		db, err := openPostgres()
		if err != nil {
			return nil, nil, err
		}

		repo, err := jobctrl.NewPostgresJobRepository(db)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize job repository: %w", err)
		}

		logger := watermill.NewStdLogger(false, false)
		publisher, err := amqp.NewPublisher(
			amqp.NewDurableQueueConfig(viper.GetString("amqp.url")),
			logger,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create AMQP publisher: %w", err)
		}

		jobs := jobctrl.NewJobEnqueuer(publisher, repo)
		cleanup := func() {
			publisher.Close()
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return &queueRecorder{jobs: jobs}, cleanup, nil
	case "inline":
		return &inlineRecorder{pipeline: pipeline}, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown eval async mode: %s", mode)
	}
}

// inlineRecorder runs the pipeline in a detached goroutine so the chat
// response is never blocked by evaluation.
type inlineRecorder struct {
	pipeline *evaluation.Pipeline
}

func (r *inlineRecorder) Record(ctx context.Context, question, answer string) error {
	go func() {
		evalCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		r.pipeline.Evaluate(evalCtx, question, answer)
	}()
	return nil
}

// queueRecorder hands the pair to the background worker over AMQP.
type queueRecorder struct {
	jobs *jobctrl.JobEnqueuer
}

func (r *queueRecorder) Record(ctx context.Context, question, answer string) error {
	_, err := r.jobs.EnqueueEvaluation(ctx, question, answer)
	return err
}
