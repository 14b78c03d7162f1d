package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// QAPair is a single reference question with its curated ground truth
// answer, before it is assigned a stable index in a Dataset.
type QAPair struct {
	Question    string `json:"question"`
	GroundTruth string `json:"ground_truth"`
	Category    string `json:"category,omitempty"`
}

// EvalQuestion is an immutable reference record inside a Dataset.
// Index is 1-based and stable for the lifetime of the process.
type EvalQuestion struct {
	Index       int    `json:"index"`
	Question    string `json:"question"`
	GroundTruth string `json:"ground_truth"`
	Category    string `json:"category,omitempty"`
}

// Dataset is the fixed, ordered collection of evaluation questions.
// It is loaded once at startup and never mutated afterwards, so it is
// safe to share across concurrent pipeline invocations.
type Dataset struct {
	questions []EvalQuestion
}

// NewDataset builds a dataset from question/ground-truth pairs,
// assigning 1-based indexes in input order.
func NewDataset(pairs []QAPair) *Dataset {
	questions := make([]EvalQuestion, 0, len(pairs))
	for i, p := range pairs {
		questions = append(questions, EvalQuestion{
			Index:       i + 1,
			Question:    p.Question,
			GroundTruth: p.GroundTruth,
			Category:    p.Category,
		})
	}
	return &Dataset{questions: questions}
}

// LoadDataset reads a dataset from a JSON file containing an array of
// question/ground-truth pairs.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	var pairs []QAPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("failed to parse dataset file: %w", err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("dataset file %s contains no questions", path)
	}

	return NewDataset(pairs), nil
}

// Len returns the number of questions in the dataset.
func (d *Dataset) Len() int {
	return len(d.questions)
}

// ByIndex resolves a question by its 1-based index.
func (d *Dataset) ByIndex(index int) (*EvalQuestion, bool) {
	if index < 1 || index > len(d.questions) {
		return nil, false
	}
	q := d.questions[index-1]
	return &q, true
}

// ByText resolves a question by case- and whitespace-insensitive exact
// text match. The first match wins.
func (d *Dataset) ByText(text string) *EvalQuestion {
	want := normalizeQuestion(text)
	for _, q := range d.questions {
		if normalizeQuestion(q.Question) == want {
			match := q
			return &match
		}
	}
	return nil
}

// Questions returns a copy of all questions in index order.
func (d *Dataset) Questions() []EvalQuestion {
	out := make([]EvalQuestion, len(d.questions))
	copy(out, d.questions)
	return out
}

// Categories groups the questions by their category label. Questions
// without a category are grouped under "Uncategorized".
func (d *Dataset) Categories() map[string][]EvalQuestion {
	out := make(map[string][]EvalQuestion)
	for _, q := range d.questions {
		category := q.Category
		if category == "" {
			category = "Uncategorized"
		}
		out[category] = append(out[category], q)
	}
	return out
}

// normalizeQuestion lowercases and collapses all whitespace so that
// trivial formatting differences do not break text comparison.
func normalizeQuestion(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
