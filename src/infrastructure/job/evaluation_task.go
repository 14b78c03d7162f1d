package job

import (
	"context"
	"encoding/json"
	"fmt"

	"insureval/src/core/evaluation"
	"insureval/src/log"
)

const TaskTypeEvaluateAnswer = "evaluate_answer"

// EvaluateAnswerPayload carries one production question/answer pair to
// the background evaluation worker.
type EvaluateAnswerPayload struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// EvaluationTask runs the production evaluation pipeline for queued
// question/answer pairs.
type EvaluationTask struct {
	pipeline *evaluation.Pipeline
}

func NewEvaluationTask(pipeline *evaluation.Pipeline) *EvaluationTask {
	return &EvaluationTask{
		pipeline: pipeline,
	}
}

func (task *EvaluationTask) HandleEvaluateAnswerTask(ctx context.Context, payload json.RawMessage) error {
	var evalPayload EvaluateAnswerPayload
	if err := json.Unmarshal(payload, &evalPayload); err != nil {
		return fmt.Errorf("failed to unmarshal evaluate answer payload: %w", err)
	}
	if evalPayload.Question == "" {
		return fmt.Errorf("evaluate answer payload has no question")
	}

	// The pipeline is total: the job only fails on payload problems,
	// never on evaluation outcomes.
	result := task.pipeline.Evaluate(ctx, evalPayload.Question, evalPayload.Answer)
	log.Info("background evaluation finished",
		"question", evalPayload.Question,
		"evaluated", result.Evaluated,
		"saved_as_new", result.SavedAsNew,
		"confidence", result.Confidence,
		"persistence_failed", result.PersistenceFailed)

	return nil
}
