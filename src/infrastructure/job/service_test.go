package job_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"insureval/src/core/evaluation"
	jobctrl "insureval/src/infrastructure/job"
	"insureval/src/storage/evalstore"
)

type stubPublisher struct {
	topic    string
	messages []*message.Message
}

func (p *stubPublisher) Publish(topic string, messages ...*message.Message) error {
	p.topic = topic
	p.messages = append(p.messages, messages...)
	return nil
}

func (p *stubPublisher) Close() error { return nil }

type memoryJobRepository struct {
	nextID int64
	jobs   map[int64]*jobctrl.Job
}

func newMemoryJobRepository() *memoryJobRepository {
	return &memoryJobRepository{jobs: make(map[int64]*jobctrl.Job)}
}

func (r *memoryJobRepository) Create(_ context.Context, taskType string, payload json.RawMessage) (*jobctrl.Job, error) {
	r.nextID++
	j := &jobctrl.Job{
		ID:       r.nextID,
		TaskType: taskType,
		Payload:  payload,
		Status:   jobctrl.JobStatusPending,
	}
	r.jobs[j.ID] = j
	return j, nil
}

func (r *memoryJobRepository) Get(_ context.Context, id int64) (*jobctrl.Job, error) {
	return r.jobs[id], nil
}

func (r *memoryJobRepository) UpdateStatus(_ context.Context, id int64, status jobctrl.JobStatus, errStr *string) error {
	j, ok := r.jobs[id]
	if !ok {
		return errors.New("job not found")
	}
	j.Status = status
	j.Error = errStr
	return nil
}

type noMatchLLM struct{}

func (noMatchLLM) Chat(_ context.Context, _ []evaluation.Message) (string, error) {
	return "MATCH: 0\nCONFIDENCE: 0.0\nREASON: not insurance related", nil
}

func newTestTask(t *testing.T) (*jobctrl.EvaluationTask, *evalstore.FileStore) {
	t.Helper()

	store, err := evalstore.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	dataset := evaluation.NewDataset([]evaluation.QAPair{
		{Question: "What does liability insurance cover?", GroundTruth: "Legal responsibility for damage."},
	})
	matcher := evaluation.NewSimilarityMatcher(noMatchLLM{}, dataset)
	judge := evaluation.NewJudgeScorer(noMatchLLM{})
	pipeline := evaluation.NewPipeline(matcher, judge, store)
	return jobctrl.NewEvaluationTask(pipeline), store
}

func TestJobEnqueuerEnqueueEvaluation(t *testing.T) {
	// The enqueuer is the full publish-side surface: it needs no
	// evaluation task and no consumer wiring.
	publisher := &stubPublisher{}
	repo := newMemoryJobRepository()
	enqueuer := jobctrl.NewJobEnqueuer(publisher, repo)

	created, err := enqueuer.EnqueueEvaluation(context.Background(), "Do you cover flood damage?", "Usually not.")
	if err != nil {
		t.Fatalf("EnqueueEvaluation() error = %v", err)
	}

	if created.TaskType != jobctrl.TaskTypeEvaluateAnswer {
		t.Errorf("TaskType = %q, want %q", created.TaskType, jobctrl.TaskTypeEvaluateAnswer)
	}
	if created.Status != jobctrl.JobStatusPending {
		t.Errorf("Status = %q, want %q", created.Status, jobctrl.JobStatusPending)
	}

	if publisher.topic != jobctrl.JobsTopic {
		t.Errorf("published to topic %q, want %q", publisher.topic, jobctrl.JobsTopic)
	}
	if len(publisher.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(publisher.messages))
	}

	var jobMsg jobctrl.JobMessage
	if err := json.Unmarshal(publisher.messages[0].Payload, &jobMsg); err != nil {
		t.Fatalf("failed to unmarshal published message: %v", err)
	}
	if jobMsg.JobID != created.ID {
		t.Errorf("JobID = %d, want %d", jobMsg.JobID, created.ID)
	}

	var payload jobctrl.EvaluateAnswerPayload
	if err := json.Unmarshal(jobMsg.Payload, &payload); err != nil {
		t.Fatalf("failed to unmarshal job payload: %v", err)
	}
	if payload.Question != "Do you cover flood damage?" || payload.Answer != "Usually not." {
		t.Errorf("payload = %+v, want the enqueued pair", payload)
	}
}

func TestJobServiceProcessJobMessage(t *testing.T) {
	t.Run("evaluation job runs the pipeline and completes", func(t *testing.T) {
		publisher := &stubPublisher{}
		repo := newMemoryJobRepository()
		task, store := newTestTask(t)
		service := jobctrl.NewJobService(publisher, repo, watermill.NopLogger{}, task)

		created, err := service.EnqueueEvaluation(context.Background(), "Do you cover flood damage?", "Usually not.")
		if err != nil {
			t.Fatalf("EnqueueEvaluation() error = %v", err)
		}

		if err := service.ProcessJobMessage(publisher.messages[0]); err != nil {
			t.Fatalf("ProcessJobMessage() error = %v", err)
		}

		processed, _ := repo.Get(context.Background(), created.ID)
		if processed.Status != jobctrl.JobStatusCompleted {
			t.Errorf("Status = %q, want %q", processed.Status, jobctrl.JobStatusCompleted)
		}

		count, err := store.NewQuestionCount(context.Background())
		if err != nil {
			t.Fatalf("NewQuestionCount() error = %v", err)
		}
		if count != 1 {
			t.Errorf("NewQuestionCount() = %d, want 1", count)
		}
	})

	t.Run("unknown task type fails the job", func(t *testing.T) {
		publisher := &stubPublisher{}
		repo := newMemoryJobRepository()
		task, _ := newTestTask(t)
		service := jobctrl.NewJobService(publisher, repo, watermill.NopLogger{}, task)

		created, err := service.EnqueueJob(context.Background(), "reindex_documents", json.RawMessage(`{}`))
		if err != nil {
			t.Fatalf("EnqueueJob() error = %v", err)
		}

		if err := service.ProcessJobMessage(publisher.messages[0]); err == nil {
			t.Fatal("ProcessJobMessage() error = nil, want unknown task type")
		}

		processed, _ := repo.Get(context.Background(), created.ID)
		if processed.Status != jobctrl.JobStatusFailed {
			t.Errorf("Status = %q, want %q", processed.Status, jobctrl.JobStatusFailed)
		}
		if processed.Error == nil {
			t.Error("Error = nil, want the failure recorded on the job")
		}
	})
}
