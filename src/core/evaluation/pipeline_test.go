package evaluation_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"insureval/src/core/evaluation"
	"insureval/src/storage/evalstore"
)

// scriptedLLM answers the similarity call first and the judge call
// second, matching the pipeline's call order.
type scriptedLLM struct {
	mu        sync.Mutex
	responses []string
	calls     int
}

func (s *scriptedLLM) Chat(_ context.Context, _ []evaluation.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls >= len(s.responses) {
		return "", errors.New("unexpected model call")
	}
	response := s.responses[s.calls]
	s.calls++
	return response, nil
}

type failingStore struct{}

func (failingStore) AppendNewQuestion(context.Context, evaluation.NewQuestionRecord) error {
	return errors.New("disk full")
}

func (failingStore) AppendEvaluation(context.Context, evaluation.EvaluationRecord) error {
	return errors.New("disk full")
}

func (failingStore) NewQuestionCount(context.Context) (int, error) { return 0, errors.New("disk full") }

func (failingStore) RecentNewQuestions(context.Context, int) ([]evaluation.NewQuestionRecord, error) {
	return nil, errors.New("disk full")
}

func (failingStore) EvaluationCount(context.Context) (int, error) { return 0, errors.New("disk full") }

func newTestPipeline(t *testing.T, llm evaluation.LLMClient) (*evaluation.Pipeline, *evalstore.FileStore) {
	t.Helper()

	store, err := evalstore.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	matcher := evaluation.NewSimilarityMatcher(llm, testDataset())
	judge := evaluation.NewJudgeScorer(llm)
	return evaluation.NewPipeline(matcher, judge, store), store
}

func TestPipelineEvaluateMatchedQuestion(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		"MATCH: 1\n" +
			"MATCHED EVALUATION QUESTION: What does liability insurance cover?\n" +
			"CONFIDENCE: 1.0\n" +
			"REASON: Exact same concept.",
		"Accuracy: 4/5\n" +
			"Completeness: 4/5\n" +
			"Clarity: 5/5\n" +
			"Relevance: 5/5\n" +
			"Helpfulness: 4/5\n" +
			"Overall: 4.4/5\n" +
			"Feedback: Accurate and on topic.",
	}}
	pipeline, store := newTestPipeline(t, llm)
	ctx := context.Background()

	result := pipeline.Evaluate(ctx, "What am I covered for with liability insurance?", "Liability insurance pays when you are responsible for damage.")

	if !result.Evaluated || result.SavedAsNew {
		t.Fatalf("result = %+v, want evaluated", result)
	}
	if result.Judge == nil || result.Judge.Overall != 4.4 {
		t.Errorf("Judge = %+v, want overall 4.4", result.Judge)
	}
	if result.RecordID == "" {
		t.Error("RecordID is empty")
	}
	if result.PersistenceFailed {
		t.Error("PersistenceFailed = true")
	}

	count, err := store.EvaluationCount(ctx)
	if err != nil {
		t.Fatalf("EvaluationCount() error = %v", err)
	}
	if count != 1 {
		t.Errorf("EvaluationCount() = %d, want 1", count)
	}
	if n, _ := store.NewQuestionCount(ctx); n != 0 {
		t.Errorf("NewQuestionCount() = %d, want 0", n)
	}
}

func TestPipelineEvaluateNovelQuestion(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		"MATCH: 0\nCONFIDENCE: 0.0\nREASON: not insurance related",
	}}
	pipeline, store := newTestPipeline(t, llm)
	ctx := context.Background()

	result := pipeline.Evaluate(ctx, "What is the meaning of life?", "42.")

	if result.Evaluated || !result.SavedAsNew {
		t.Fatalf("result = %+v, want saved as new", result)
	}
	if result.Judge != nil {
		t.Errorf("Judge = %+v, want nil for a novel question", result.Judge)
	}
	if result.NewQuestionCount != 1 {
		t.Errorf("NewQuestionCount = %d, want 1", result.NewQuestionCount)
	}
	if llm.calls != 1 {
		t.Errorf("llm calls = %d, want 1 (no judge call for a novel question)", llm.calls)
	}

	recent, err := store.RecentNewQuestions(ctx, 10)
	if err != nil {
		t.Fatalf("RecentNewQuestions() error = %v", err)
	}
	if len(recent) != 1 || recent[0].Question != "What is the meaning of life?" {
		t.Errorf("recent = %+v, want the novel question", recent)
	}
}

func TestPipelineEvaluateBelowThreshold(t *testing.T) {
	// A resolved question below the confidence threshold goes down the
	// novel-question path, preserving the decision for curation.
	llm := &scriptedLLM{responses: []string{
		"MATCH: 2\nCONFIDENCE: 0.7\nREASON: vaguely related",
	}}
	pipeline, _ := newTestPipeline(t, llm)

	result := pipeline.Evaluate(context.Background(), "Can I claim for a scratched bumper?", "Yes, usually.")

	if result.Evaluated {
		t.Errorf("Evaluated = true at confidence 0.7")
	}
	if !result.SavedAsNew {
		t.Errorf("SavedAsNew = false, result %+v", result)
	}
	if result.Confidence != 0.7 {
		t.Errorf("Confidence = %v, want 0.7", result.Confidence)
	}
}

func TestPipelineEvaluatePersistenceFailure(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		"MATCH: 0\nCONFIDENCE: 0.0",
	}}
	matcher := evaluation.NewSimilarityMatcher(llm, testDataset())
	judge := evaluation.NewJudgeScorer(llm)
	pipeline := evaluation.NewPipeline(matcher, judge, failingStore{})

	result := pipeline.Evaluate(context.Background(), "Hello", "Hi!")

	if !result.SavedAsNew {
		t.Errorf("SavedAsNew = false, result %+v", result)
	}
	if !result.PersistenceFailed {
		t.Errorf("PersistenceFailed = false, want true")
	}
}

func TestPipelineEvaluateConcurrent(t *testing.T) {
	// Two concurrent invocations against a shared file store must both
	// persist, each under its own record ID.
	llm := &scriptedLLM{responses: []string{
		"MATCH: 0\nCONFIDENCE: 0.0",
		"MATCH: 0\nCONFIDENCE: 0.0",
	}}
	pipeline, store := newTestPipeline(t, llm)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]evaluation.PipelineResult, 2)
	questions := []string{"First novel question?", "Second novel question?"}
	for i := range questions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = pipeline.Evaluate(ctx, questions[i], "answer")
		}(i)
	}
	wg.Wait()

	if results[0].RecordID == results[1].RecordID {
		t.Errorf("both invocations got record ID %q", results[0].RecordID)
	}

	count, err := store.NewQuestionCount(ctx)
	if err != nil {
		t.Fatalf("NewQuestionCount() error = %v", err)
	}
	if count != 2 {
		t.Errorf("NewQuestionCount() = %d, want 2", count)
	}
}
