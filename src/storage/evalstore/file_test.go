package evalstore_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"insureval/src/core/evaluation"
	"insureval/src/storage/evalstore"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := evalstore.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	newQ := evaluation.NewQuestionRecord{
		ID:        "nq-1",
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Question:  "Do you cover flood damage?",
		Similarity: evaluation.MatchDecision{
			Confidence: 0.2,
			Reason:     "no close question",
		},
	}
	if err := store.AppendNewQuestion(ctx, newQ); err != nil {
		t.Fatalf("AppendNewQuestion() error = %v", err)
	}

	eval := evaluation.EvaluationRecord{
		ID:              "ev-1",
		Timestamp:       time.Date(2026, 8, 1, 12, 1, 0, 0, time.UTC),
		UserQuestion:    "What does liability insurance cover?",
		MatchedQuestion: "What does liability insurance cover?",
		Judge:           evaluation.JudgeScore{Overall: 4.5, CriteriaCount: 5},
	}
	if err := store.AppendEvaluation(ctx, eval); err != nil {
		t.Fatalf("AppendEvaluation() error = %v", err)
	}

	// A fresh store over the same directory must see both records.
	reopened, err := evalstore.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() reopen error = %v", err)
	}

	if n, _ := reopened.NewQuestionCount(ctx); n != 1 {
		t.Errorf("NewQuestionCount() = %d, want 1", n)
	}
	if n, _ := reopened.EvaluationCount(ctx); n != 1 {
		t.Errorf("EvaluationCount() = %d, want 1", n)
	}

	recent, err := reopened.RecentNewQuestions(ctx, 10)
	if err != nil {
		t.Fatalf("RecentNewQuestions() error = %v", err)
	}
	if len(recent) != 1 || recent[0].ID != "nq-1" || recent[0].Question != newQ.Question {
		t.Errorf("recent = %+v, want the persisted record", recent)
	}
	if recent[0].Similarity.Reason != "no close question" {
		t.Errorf("Similarity.Reason = %q, want preserved decision", recent[0].Similarity.Reason)
	}
}

func TestFileStoreRecentNewQuestions(t *testing.T) {
	ctx := context.Background()
	store, err := evalstore.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	for i := 1; i <= 5; i++ {
		rec := evaluation.NewQuestionRecord{
			ID:       fmt.Sprintf("nq-%d", i),
			Question: fmt.Sprintf("question %d", i),
		}
		if err := store.AppendNewQuestion(ctx, rec); err != nil {
			t.Fatalf("AppendNewQuestion() error = %v", err)
		}
	}

	tests := []struct {
		name    string
		k       int
		wantIDs []string
	}{
		{name: "latest three most recent first", k: 3, wantIDs: []string{"nq-5", "nq-4", "nq-3"}},
		{name: "more than stored", k: 10, wantIDs: []string{"nq-5", "nq-4", "nq-3", "nq-2", "nq-1"}},
		{name: "zero", k: 0, wantIDs: []string{}},
		{name: "negative", k: -1, wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.RecentNewQuestions(ctx, tt.k)
			if err != nil {
				t.Fatalf("RecentNewQuestions(%d) error = %v", tt.k, err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d records, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestFileStoreCorruptFileDiscarded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new_questions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	store, err := evalstore.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v, want corrupt file discarded", err)
	}

	if n, _ := store.NewQuestionCount(context.Background()); n != 0 {
		t.Errorf("NewQuestionCount() = %d, want 0 after discarding corrupt file", n)
	}
}

func TestFileStoreConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := evalstore.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := evaluation.NewQuestionRecord{ID: fmt.Sprintf("nq-%d", i)}
			if err := store.AppendNewQuestion(ctx, rec); err != nil {
				t.Errorf("AppendNewQuestion() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if n, _ := store.NewQuestionCount(ctx); n != writers {
		t.Errorf("NewQuestionCount() = %d, want %d", n, writers)
	}

	// Reopen to prove every append reached disk.
	reopened, err := evalstore.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() reopen error = %v", err)
	}
	if n, _ := reopened.NewQuestionCount(ctx); n != writers {
		t.Errorf("reopened NewQuestionCount() = %d, want %d", n, writers)
	}
}
