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
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"insureval/src/core/evaluation"
	jobctrl "insureval/src/infrastructure/job"
	"insureval/src/log"
	"insureval/src/ollama"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background evaluation worker",
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
	settingDefaultConfig()
}

func runWorker(cmd *cobra.Command, args []string) error {
	// The worker always shares the store with the serve process.
	if err := validateStoreMode(viper.GetString("eval.store"), "queue"); err != nil {
		return err
	}

	// Initialize logger
	logger := watermill.NewStdLogger(false, false)

	// Initialize PostgreSQL connection for the job repository
	db, err := openPostgres()
	if err != nil {
		return err
	}

	// Get underlying *sql.DB for cleanup
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying *sql.DB: %v", err)
	}
	defer sqlDB.Close()

	// Initialize AMQP publisher
	amqpPublisher, err := amqp.NewPublisher(
		amqp.NewDurableQueueConfig(viper.GetString("amqp.url")),
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		return err
	}
	defer amqpPublisher.Close()

	// Initialize AMQP subscriber
	subscriberConfig := amqp.NewDurableQueueConfig(viper.GetString("amqp.url"))
	subscriberConfig.Consume.NoRequeueOnNack = true
	amqpSubscriber, err := amqp.NewSubscriber(
		subscriberConfig,
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		return err
	}
	defer amqpSubscriber.Close()

	// Initialize router
	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return err
	}

	// Add middleware
	router.AddMiddleware(
		middleware.Recoverer,
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: time.Second,
			Logger:          logger,
		}.Middleware,
	)

	// Load the evaluation dataset
	dataset, err := loadDataset()
	if err != nil {
		return fmt.Errorf("failed to load evaluation dataset: %v", err)
	}

	// Initialize Ollama client and model provider
	oc := ollama.NewClient(viper.GetString("ollama.url"), &http.Client{
		Timeout: 120 * time.Second,
	})
	provider := ollama.NewProvider(oc, viper.GetString("ollama.model"))

	// Initialize the record store
	store, cleanup, err := openRecordStore()
	if err != nil {
		return fmt.Errorf("failed to open record store: %v", err)
	}
	defer cleanup()

	// Assemble the evaluation pipeline and its task wrapper
	matcher := evaluation.NewSimilarityMatcher(provider, dataset,
		evaluation.WithConfidenceThreshold(viper.GetFloat64("eval.confidence_threshold")))
	judge := evaluation.NewJudgeScorer(provider)
	pipeline := evaluation.NewPipeline(matcher, judge, store)
	evalTask := jobctrl.NewEvaluationTask(pipeline)

	// Initialize job repository and service
	jobRepo, err := jobctrl.NewPostgresJobRepository(db)
	if err != nil {
		return fmt.Errorf("failed to initialize job repository: %v", err)
	}
	jobService := jobctrl.NewJobService(amqpPublisher, jobRepo, logger, evalTask)

	// Add handler for processing jobs
	router.AddNoPublisherHandler(
		"evaluation_job_processor",
		jobctrl.JobsTopic,
		amqpSubscriber,
		func(msg *message.Message) error {
			return jobService.ProcessJobMessage(msg)
		},
	)

	// Run the router
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := router.Run(ctx); err != nil {
			log.Error(err, "Job router stopped unexpectedly")
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c

	log.Info("Shutting down...")
	cancel()
	<-router.Running()
	log.Info("Router stopped")

	return nil
}
