package evaluation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"insureval/src/log"
)

// PipelineResult is what the chat-serving layer gets back from one
// evaluation invocation.
type PipelineResult struct {
	// Evaluated is true when the question matched a known evaluation
	// question and was scored by the judge.
	Evaluated bool `json:"evaluated"`
	// SavedAsNew is true when the question was persisted as a novel
	// question for later curation.
	SavedAsNew bool    `json:"saved_as_new"`
	Confidence float64 `json:"confidence"`
	// Judge is present only when Evaluated is true.
	Judge *JudgeScore `json:"judge,omitempty"`
	// RecordID identifies the persisted record in either store.
	RecordID string `json:"record_id,omitempty"`
	// NewQuestionCount is the total number of novel questions after
	// this invocation, best effort.
	NewQuestionCount int `json:"new_question_count,omitempty"`
	// PersistenceFailed reports that the record could not be written.
	// The evaluation outcome is still valid.
	PersistenceFailed bool `json:"persistence_failed,omitempty"`
}

// Pipeline routes production traffic into either "scored against known
// ground truth" or "logged as novel". It owns the two append-only
// stores exclusively; no other component writes to them.
//
// Each invocation is independent: at most two sequential model calls,
// no retries, no cross-request state beyond the stores and the
// read-only dataset.
type Pipeline struct {
	matcher *SimilarityMatcher
	judge   *JudgeScorer
	store   RecordStore
}

func NewPipeline(matcher *SimilarityMatcher, judge *JudgeScorer, store RecordStore) *Pipeline {
	return &Pipeline{
		matcher: matcher,
		judge:   judge,
		store:   store,
	}
}

// Matcher exposes the similarity matcher for diagnostic callers that
// want a match decision without judging or persistence.
func (p *Pipeline) Matcher() *SimilarityMatcher {
	return p.matcher
}

// Evaluate runs the full evaluation flow for one production question
// and its live answer. Both branches are total: any internal failure
// downgrades to the unscored outcome and nothing propagates to the
// caller, because evaluation is a side channel of the chat request.
func (p *Pipeline) Evaluate(ctx context.Context, userQuestion, producedAnswer string) PipelineResult {
	start := time.Now()

	decision := p.matcher.FindSimilarQuestion(ctx, userQuestion)
	similarityLatency := time.Since(start)

	if decision.IsMatch && decision.Resolved != nil {
		return p.scoreAgainstGroundTruth(ctx, userQuestion, producedAnswer, decision, similarityLatency, start)
	}

	return p.saveAsNewQuestion(ctx, userQuestion, producedAnswer, decision, start)
}

func (p *Pipeline) scoreAgainstGroundTruth(ctx context.Context, userQuestion, producedAnswer string, decision MatchDecision, similarityLatency time.Duration, start time.Time) PipelineResult {
	log.Info("matched evaluation question",
		"confidence", decision.Confidence,
		"matched_index", decision.Resolved.Index,
		"matched_question", decision.Resolved.Question)

	judgeScore := p.judge.Score(ctx, userQuestion, producedAnswer, decision.Resolved.GroundTruth)

	record := EvaluationRecord{
		ID:                       uuid.New().String(),
		Timestamp:                time.Now().UTC(),
		UserQuestion:             userQuestion,
		ProducedAnswer:           producedAnswer,
		MatchedQuestion:          decision.Resolved.Question,
		GroundTruth:              decision.Resolved.GroundTruth,
		SimilarityConfidence:     decision.Confidence,
		SimilarityReason:         decision.Reason,
		Judge:                    judgeScore,
		SimilarityLatencySeconds: similarityLatency.Seconds(),
		TotalLatencySeconds:      time.Since(start).Seconds(),
	}

	result := PipelineResult{
		Evaluated:  true,
		Confidence: decision.Confidence,
		Judge:      &judgeScore,
		RecordID:   record.ID,
	}

	if err := p.store.AppendEvaluation(ctx, record); err != nil {
		log.Error(err, "failed to persist evaluation record", "record_id", record.ID)
		result.PersistenceFailed = true
	}

	return result
}

func (p *Pipeline) saveAsNewQuestion(ctx context.Context, userQuestion, producedAnswer string, decision MatchDecision, start time.Time) PipelineResult {
	log.Info("novel question detected",
		"confidence", decision.Confidence,
		"question", userQuestion)

	record := NewQuestionRecord{
		ID:             uuid.New().String(),
		Timestamp:      time.Now().UTC(),
		Question:       userQuestion,
		ProducedAnswer: producedAnswer,
		Similarity:     decision,
		LatencySeconds: time.Since(start).Seconds(),
	}

	result := PipelineResult{
		SavedAsNew: true,
		Confidence: decision.Confidence,
		RecordID:   record.ID,
	}

	if err := p.store.AppendNewQuestion(ctx, record); err != nil {
		log.Error(err, "failed to persist new question record", "record_id", record.ID)
		result.PersistenceFailed = true
		return result
	}

	if count, err := p.store.NewQuestionCount(ctx); err == nil {
		result.NewQuestionCount = count
	}

	return result
}

// NewQuestionCount reports how many novel questions have accumulated.
func (p *Pipeline) NewQuestionCount(ctx context.Context) (int, error) {
	return p.store.NewQuestionCount(ctx)
}

// RecentNewQuestions returns the most recent k novel questions for the
// reporting endpoint.
func (p *Pipeline) RecentNewQuestions(ctx context.Context, k int) ([]NewQuestionRecord, error) {
	return p.store.RecentNewQuestions(ctx, k)
}

// EvaluationCount reports how many scored evaluations have accumulated.
func (p *Pipeline) EvaluationCount(ctx context.Context) (int, error) {
	return p.store.EvaluationCount(ctx)
}
