package evaluation

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/tmc/langchaingo/textsplitter"

	"insureval/src/log"
)

// DefaultMaxAnswerChars bounds the candidate answer embedded in the
// judge prompt so the whole rubric stays inside the model context.
const DefaultMaxAnswerChars = 4000

type judgeTemplateData struct {
	Question  string
	Candidate string
	Reference string
}

// JudgeScorer rates a candidate answer against a reference answer using
// a second model invocation as the evaluator.
type JudgeScorer struct {
	llm            LLMClient
	maxAnswerChars int
}

type JudgeOption func(j *JudgeScorer)

// WithMaxAnswerChars overrides the candidate answer length budget.
func WithMaxAnswerChars(n int) JudgeOption {
	return func(j *JudgeScorer) {
		j.maxAnswerChars = n
	}
}

func NewJudgeScorer(llm LLMClient, opts ...JudgeOption) *JudgeScorer {
	j := &JudgeScorer{
		llm:            llm,
		maxAnswerChars: DefaultMaxAnswerChars,
	}

	for _, opt := range opts {
		opt(j)
	}

	return j
}

// Score rates the candidate answer on five criteria. It is total: a
// model failure yields a zero score with the failure in Feedback, and a
// response with no parseable criteria is a soft failure that is logged,
// not raised.
func (j *JudgeScorer) Score(ctx context.Context, question, candidate, reference string) JudgeScore {
	prompt, err := j.buildPrompt(question, j.trimAnswer(candidate), reference)
	if err != nil {
		log.Error(err, "failed to build judge prompt")
		return JudgeScore{Feedback: fmt.Sprintf("judge unavailable: %v", err)}
	}

	response, err := j.llm.Chat(ctx, []Message{
		{Role: "system", Content: JudgeSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		log.Error(err, "judge model call failed", "question", question)
		return JudgeScore{Feedback: fmt.Sprintf("judge unavailable: %v", err)}
	}

	score := ParseJudgeResponse(response)
	if score.CriteriaCount == 0 {
		log.Info("judge returned no parseable criteria", "question", question, "response", response)
	}

	return score
}

func (j *JudgeScorer) buildPrompt(question, candidate, reference string) (string, error) {
	tmpl, err := template.New("judge").Parse(judgePromptTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse judge template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, judgeTemplateData{
		Question:  question,
		Candidate: candidate,
		Reference: reference,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute judge template: %w", err)
	}

	return buf.String(), nil
}

// trimAnswer cuts an overlong candidate answer down to the character
// budget, preferring a split on natural boundaries.
func (j *JudgeScorer) trimAnswer(answer string) string {
	if len(answer) <= j.maxAnswerChars {
		return answer
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(j.maxAnswerChars),
		textsplitter.WithChunkOverlap(0),
	)
	chunks, err := splitter.SplitText(answer)
	if err != nil || len(chunks) == 0 {
		return answer[:j.maxAnswerChars]
	}

	return chunks[0]
}

// judgeCriteria maps response line prefixes to the criterion fields.
// Same tolerant scanner as the similarity parser: lines are scanned
// independently and unparseable ones are skipped.
var judgeCriteria = []struct {
	prefix string
	field  func(s *JudgeScore) *float64
}{
	{"ACCURACY:", func(s *JudgeScore) *float64 { return &s.Accuracy }},
	{"COMPLETENESS:", func(s *JudgeScore) *float64 { return &s.Completeness }},
	{"CLARITY:", func(s *JudgeScore) *float64 { return &s.Clarity }},
	{"RELEVANCE:", func(s *JudgeScore) *float64 { return &s.Relevance }},
	{"HELPFULNESS:", func(s *JudgeScore) *float64 { return &s.Helpfulness }},
}

// ParseJudgeResponse extracts the criterion scores from a raw judge
// completion. Overall uses the model-reported overall score if present
// and parseable, otherwise the arithmetic mean of the criteria that did
// parse; 0 if none did.
func ParseJudgeResponse(raw string) JudgeScore {
	var score JudgeScore
	parsed := make(map[string]bool)
	overallExplicit := false

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)

		matched := false
		for _, c := range judgeCriteria {
			if !strings.HasPrefix(upper, c.prefix) {
				continue
			}
			if v, ok := parseCriterionValue(line[len(c.prefix):]); ok {
				*c.field(&score) = v
				if !parsed[c.prefix] {
					parsed[c.prefix] = true
					score.CriteriaCount++
				}
			}
			matched = true
			break
		}
		if matched {
			continue
		}

		if strings.HasPrefix(upper, "OVERALL:") {
			if v, ok := parseCriterionValue(line[len("OVERALL:"):]); ok {
				score.Overall = v
				overallExplicit = true
			}
			continue
		}
		if strings.HasPrefix(upper, "FEEDBACK:") {
			score.Feedback = strings.TrimSpace(line[len("FEEDBACK:"):])
		}
	}

	if !overallExplicit && score.CriteriaCount > 0 {
		sum := score.Accuracy + score.Completeness + score.Clarity + score.Relevance + score.Helpfulness
		score.Overall = sum / float64(score.CriteriaCount)
	}

	return score
}

// parseCriterionValue reads the leading number of a "n/5" style value.
// Values outside [1, 5] are dropped.
func parseCriterionValue(rest string) (float64, bool) {
	number := decimalRun.FindString(rest)
	if number == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(number, 64)
	if err != nil || v < 1 || v > 5 {
		return 0, false
	}
	return v, true
}
