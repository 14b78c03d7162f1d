package evaluation

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"insureval/src/log"
)

// DefaultConfidenceThreshold is deliberately conservative: a mismatch
// silently corrupts evaluation ground truth, which is far worse than
// logging one more novel question.
const DefaultConfidenceThreshold = 0.98

type similarityTemplateData struct {
	UserQuestion  string
	EvalQuestions string
	QuestionCount int
	Threshold     float64
}

// SimilarityMatcher asks the model whether a live user question is
// semantically equivalent to one of the known evaluation questions.
type SimilarityMatcher struct {
	llm       LLMClient
	dataset   *Dataset
	threshold float64
}

type MatcherOption func(m *SimilarityMatcher)

// WithConfidenceThreshold overrides the minimum confidence required
// before a match is trusted.
func WithConfidenceThreshold(threshold float64) MatcherOption {
	return func(m *SimilarityMatcher) {
		m.threshold = threshold
	}
}

func NewSimilarityMatcher(llm LLMClient, dataset *Dataset, opts ...MatcherOption) *SimilarityMatcher {
	m := &SimilarityMatcher{
		llm:       llm,
		dataset:   dataset,
		threshold: DefaultConfidenceThreshold,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Threshold returns the confidence threshold this matcher applies.
func (m *SimilarityMatcher) Threshold() float64 {
	return m.threshold
}

// Dataset returns the evaluation dataset this matcher resolves against.
func (m *SimilarityMatcher) Dataset() *Dataset {
	return m.dataset
}

// FindSimilarQuestion runs one similarity judgment for the given user
// question. It never returns an error: transport and template failures
// are downgraded to a zero-confidence decision with the failure
// captured in Reason.
func (m *SimilarityMatcher) FindSimilarQuestion(ctx context.Context, userQuestion string) MatchDecision {
	prompt, err := m.buildPrompt(userQuestion)
	if err != nil {
		log.Error(err, "failed to build similarity prompt")
		return MatchDecision{Reason: fmt.Sprintf("error: %v", err)}
	}

	response, err := m.llm.Chat(ctx, []Message{
		{Role: "system", Content: SimilaritySystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		log.Error(err, "similarity model call failed", "question", userQuestion)
		return MatchDecision{Reason: fmt.Sprintf("error: %v", err)}
	}

	log.Debug("similarity model response", "response", response)

	decision := ParseMatchResponse(response, userQuestion, m.dataset, m.threshold)
	decision.Warnings = append(decision.Warnings, SuspicionWarnings(&decision, userQuestion)...)
	for _, w := range decision.Warnings {
		log.Info("similarity warning", "warning", w)
	}

	return decision
}

func (m *SimilarityMatcher) buildPrompt(userQuestion string) (string, error) {
	numbered := make([]string, 0, m.dataset.Len())
	for _, q := range m.dataset.Questions() {
		numbered = append(numbered, fmt.Sprintf("Question %d: %s", q.Index, q.Question))
	}

	tmpl, err := template.New("similarity").Parse(similarityPromptTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse similarity template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, similarityTemplateData{
		UserQuestion:  userQuestion,
		EvalQuestions: strings.Join(numbered, "\n"),
		QuestionCount: m.dataset.Len(),
		Threshold:     m.threshold,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute similarity template: %w", err)
	}

	return buf.String(), nil
}
