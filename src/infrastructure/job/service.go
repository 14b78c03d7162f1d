package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// JobsTopic is the queue topic evaluation jobs are published to.
const JobsTopic = "evaluation_jobs"

// JobEnqueuer is the publish-only side of the queue. The serve process
// only ever enqueues, so it gets this surface and cannot reach the
// consume path.
type JobEnqueuer struct {
	publisher message.Publisher
	repo      JobRepository
}

// JobService is the consume side, used by the worker. It embeds the
// enqueuer so the worker can also publish follow-up jobs.
type JobService struct {
	JobEnqueuer
	logger   watermill.LoggerAdapter
	evalTask *EvaluationTask
}

type JobMessage struct {
	JobID    int64           `json:"job_id"`
	TaskType string          `json:"task_type"`
	Payload  json.RawMessage `json:"payload"`
}

func NewJobEnqueuer(publisher message.Publisher, repo JobRepository) *JobEnqueuer {
	return &JobEnqueuer{
		publisher: publisher,
		repo:      repo,
	}
}

func NewJobService(
	publisher message.Publisher,
	repo JobRepository,
	logger watermill.LoggerAdapter,
	evalTask *EvaluationTask,
) *JobService {
	return &JobService{
		JobEnqueuer: JobEnqueuer{
			publisher: publisher,
			repo:      repo,
		},
		logger:   logger,
		evalTask: evalTask,
	}
}

// EnqueueEvaluation persists an evaluation job and publishes it to the
// queue for the background worker.
func (e *JobEnqueuer) EnqueueEvaluation(ctx context.Context, question, answer string) (*Job, error) {
	payload, err := json.Marshal(EvaluateAnswerPayload{
		Question: question,
		Answer:   answer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal evaluation payload: %w", err)
	}

	return e.EnqueueJob(ctx, TaskTypeEvaluateAnswer, payload)
}

// EnqueueJob creates a new job and publishes it to the message queue
func (e *JobEnqueuer) EnqueueJob(ctx context.Context, taskType string, payload json.RawMessage) (*Job, error) {
	// Create job record
	job, err := e.repo.Create(ctx, taskType, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	// Prepare message
	jobMsg := JobMessage{
		JobID:    job.ID,
		TaskType: job.TaskType,
		Payload:  job.Payload,
	}

	msgPayload, err := json.Marshal(jobMsg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job message: %w", err)
	}

	// Publish message
	msg := message.NewMessage(watermill.NewUUID(), msgPayload)
	if err := e.publisher.Publish(JobsTopic, msg); err != nil {
		return nil, fmt.Errorf("failed to publish job message: %w", err)
	}

	return job, nil
}

// ProcessJobMessage processes a job message from the queue
func (s *JobService) ProcessJobMessage(msg *message.Message) error {
	var jobMsg JobMessage
	if err := json.Unmarshal(msg.Payload, &jobMsg); err != nil {
		return fmt.Errorf("failed to unmarshal job message: %w", err)
	}

	ctx := context.Background()

	// Get job from database
	job, err := s.repo.Get(ctx, jobMsg.JobID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return fmt.Errorf("job not found: %d", jobMsg.JobID)
	}

	// Update status to running
	if err := s.repo.UpdateStatus(ctx, job.ID, JobStatusRunning, nil); err != nil {
		return fmt.Errorf("failed to update job status to running: %w", err)
	}

	// Process the job based on task type
	err = s.processJob(ctx, job)

	if err != nil {
		// Update status to failed
		errStr := err.Error()
		if updateErr := s.repo.UpdateStatus(ctx, job.ID, JobStatusFailed, &errStr); updateErr != nil {
			s.logger.Error("Failed to update job status to failed", updateErr, watermill.LogFields{
				"job_id": job.ID,
			})
		}
		return fmt.Errorf("failed to process job: %w", err)
	}

	// Update status to completed
	if err := s.repo.UpdateStatus(ctx, job.ID, JobStatusCompleted, nil); err != nil {
		return fmt.Errorf("failed to update job status to completed: %w", err)
	}

	return nil
}

// processJob handles different types of jobs
func (s *JobService) processJob(ctx context.Context, job *Job) error {
	switch job.TaskType {
	case TaskTypeEvaluateAnswer:
		return s.evalTask.HandleEvaluateAnswerTask(ctx, job.Payload)
	default:
		return fmt.Errorf("unknown task type: %s", job.TaskType)
	}
}
