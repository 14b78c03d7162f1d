package evalstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"insureval/src/core/evaluation"
	"insureval/src/log"
)

const (
	newQuestionsFile = "new_questions.json"
	evaluationsFile  = "production_evaluations.json"
)

// FileStore keeps the two append-only collections as JSON document
// lists on the local filesystem. Appends are atomic with respect to
// concurrent appends: the in-memory list is guarded by a mutex and each
// write replaces the whole file via a temp-file rename, so readers
// never observe a partial record.
//
// A FileStore owns its directory exclusively. Records are loaded once
// at open and every append rewrites the whole file from memory, so two
// stores over the same directory overwrite each other's appends.
type FileStore struct {
	mu           sync.Mutex
	dir          string
	newQuestions []evaluation.NewQuestionRecord
	evaluations  []evaluation.EvaluationRecord
}

// NewFileStore opens (or creates) a file store rooted at dir, loading
// any previously persisted records.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &FileStore{dir: dir}

	if err := loadRecords(filepath.Join(dir, newQuestionsFile), &s.newQuestions); err != nil {
		log.Error(err, "discarding unreadable new questions file", "path", newQuestionsFile)
		s.newQuestions = nil
	}
	if err := loadRecords(filepath.Join(dir, evaluationsFile), &s.evaluations); err != nil {
		log.Error(err, "discarding unreadable evaluations file", "path", evaluationsFile)
		s.evaluations = nil
	}

	return s, nil
}

func (s *FileStore) AppendNewQuestion(ctx context.Context, rec evaluation.NewQuestionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.newQuestions = append(s.newQuestions, rec)
	if err := s.writeAtomic(newQuestionsFile, s.newQuestions); err != nil {
		// Roll the in-memory list back so memory and disk stay in sync.
		s.newQuestions = s.newQuestions[:len(s.newQuestions)-1]
		return fmt.Errorf("failed to write new questions: %w", err)
	}
	return nil
}

func (s *FileStore) AppendEvaluation(ctx context.Context, rec evaluation.EvaluationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evaluations = append(s.evaluations, rec)
	if err := s.writeAtomic(evaluationsFile, s.evaluations); err != nil {
		s.evaluations = s.evaluations[:len(s.evaluations)-1]
		return fmt.Errorf("failed to write evaluations: %w", err)
	}
	return nil
}

func (s *FileStore) NewQuestionCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.newQuestions), nil
}

func (s *FileStore) EvaluationCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.evaluations), nil
}

// RecentNewQuestions returns up to k records, most recent first.
func (s *FileStore) RecentNewQuestions(ctx context.Context, k int) ([]evaluation.NewQuestionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if k <= 0 || len(s.newQuestions) == 0 {
		return []evaluation.NewQuestionRecord{}, nil
	}
	if k > len(s.newQuestions) {
		k = len(s.newQuestions)
	}

	out := make([]evaluation.NewQuestionRecord, 0, k)
	for i := len(s.newQuestions) - 1; i >= len(s.newQuestions)-k; i-- {
		out = append(out, s.newQuestions[i])
	}
	return out, nil
}

func (s *FileStore) writeAtomic(name string, records interface{}) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

func loadRecords(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
