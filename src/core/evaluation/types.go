package evaluation

import (
	"context"
	"time"
)

// Message is a single role-tagged chat message sent to the language
// model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMClient is the language model used for similarity matching and
// judging. It is synchronous and one-shot: one ordered message list in,
// one completion string out, no retries and no streaming surface.
type LLMClient interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// MatchDecision is the structured result of one similarity judgment
// against the evaluation dataset.
type MatchDecision struct {
	// MatchedIndex is the 1-based index reported by the model,
	// 0 meaning no match.
	MatchedIndex int `json:"matched_index"`
	// MatchedText is the evaluation question as echoed by the model.
	// Empty means absent or an explicit "No match".
	MatchedText string  `json:"matched_text,omitempty"`
	Confidence  float64 `json:"confidence"`
	Reason      string  `json:"reason"`
	// Resolved is the evaluation question ultimately selected. It is
	// always drawn from the dataset, never fabricated.
	Resolved *EvalQuestion `json:"resolved_question,omitempty"`
	// IsMatch is true iff Confidence reached the matcher threshold AND
	// a question was resolved. Both conditions are required.
	IsMatch  bool     `json:"is_match"`
	Warnings []string `json:"warnings,omitempty"`
}

// JudgeScore holds the five-criterion quality rating of a generated
// answer against a reference answer. A criterion value of 0 means the
// model did not report it in a parseable form.
type JudgeScore struct {
	Accuracy     float64 `json:"accuracy"`
	Completeness float64 `json:"completeness"`
	Clarity      float64 `json:"clarity"`
	Relevance    float64 `json:"relevance"`
	Helpfulness  float64 `json:"helpfulness"`
	// Overall is the model-reported overall score when present,
	// otherwise the mean of the parsed criteria; 0 if none parsed.
	Overall float64 `json:"overall"`
	// CriteriaCount is how many of the five criteria were actually
	// parsed, so consumers can detect partial scoring.
	CriteriaCount int    `json:"criteria_count"`
	Feedback      string `json:"feedback,omitempty"`
}

// NewQuestionRecord is a production question that could not be matched
// to any known evaluation question, logged for later curation. Records
// are append-only: once written they are never edited or removed.
type NewQuestionRecord struct {
	ID             string        `json:"id"`
	Timestamp      time.Time     `json:"timestamp"`
	Question       string        `json:"question"`
	ProducedAnswer string        `json:"produced_answer"`
	Similarity     MatchDecision `json:"similarity"`
	LatencySeconds float64       `json:"latency_seconds"`
}

// EvaluationRecord is a production question that was matched to a known
// evaluation question and scored by the judge. Written once, immutable.
type EvaluationRecord struct {
	ID                       string     `json:"id"`
	Timestamp                time.Time  `json:"timestamp"`
	UserQuestion             string     `json:"user_question"`
	ProducedAnswer           string     `json:"produced_answer"`
	MatchedQuestion          string     `json:"matched_question"`
	GroundTruth              string     `json:"ground_truth"`
	SimilarityConfidence     float64    `json:"similarity_confidence"`
	SimilarityReason         string     `json:"similarity_reason"`
	Judge                    JudgeScore `json:"judge"`
	SimilarityLatencySeconds float64    `json:"similarity_latency_seconds"`
	TotalLatencySeconds      float64    `json:"total_latency_seconds"`
	Error                    string     `json:"error,omitempty"`
}

// RecordStore persists the two append-only collections owned by the
// pipeline. Appends must be atomic with respect to concurrent appends;
// ordering between concurrent records is not significant.
type RecordStore interface {
	AppendNewQuestion(ctx context.Context, rec NewQuestionRecord) error
	AppendEvaluation(ctx context.Context, rec EvaluationRecord) error
	NewQuestionCount(ctx context.Context) (int, error)
	RecentNewQuestions(ctx context.Context, k int) ([]NewQuestionRecord, error)
	EvaluationCount(ctx context.Context) (int, error)
}
