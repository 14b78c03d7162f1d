package evaluation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	digitRun   = regexp.MustCompile(`\d+`)
	decimalRun = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// noMatchSentinels are the "matched question" values the model uses to
// report the absence of a match.
var noMatchSentinels = map[string]struct{}{
	"no match": {},
	"none":     {},
	"n/a":      {},
}

// matchLineHandler maps a case-insensitive line prefix to the field it
// sets on the decision. Lines are independent and last-write-wins per
// field, so handler order only matters for prefix disambiguation.
type matchLineHandler struct {
	prefix string
	apply  func(d *MatchDecision, rest string)
}

var matchLineHandlers = []matchLineHandler{
	{
		prefix: "MATCHED EVALUATION QUESTION:",
		apply: func(d *MatchDecision, rest string) {
			if _, sentinel := noMatchSentinels[strings.ToLower(rest)]; sentinel {
				d.MatchedText = ""
				return
			}
			d.MatchedText = rest
		},
	},
	{
		prefix: "MATCH:",
		apply: func(d *MatchDecision, rest string) {
			// No digits leaves the prior value unchanged.
			digits := digitRun.FindString(rest)
			if digits == "" {
				return
			}
			n, err := strconv.Atoi(digits)
			if err != nil {
				return
			}
			d.MatchedIndex = n
		},
	},
	{
		prefix: "CONFIDENCE:",
		apply: func(d *MatchDecision, rest string) {
			number := decimalRun.FindString(rest)
			if number == "" {
				return
			}
			confidence, err := strconv.ParseFloat(number, 64)
			if err != nil || confidence < 0 || confidence > 1 {
				// Unparseable or out-of-range values are dropped.
				return
			}
			d.Confidence = confidence
		},
	},
	{
		prefix: "REASON:",
		apply: func(d *MatchDecision, rest string) {
			d.Reason = rest
		},
	},
}

// ParseMatchResponse converts one raw completion from the similarity
// prompt into a MatchDecision. The input is untrusted model output:
// every field defaults to a safe "no evidence" state and malformed
// lines are skipped, so the function never fails.
//
// IsMatch is computed only after resolution: it requires both the
// confidence threshold and a resolved question. High confidence with no
// resolved question never counts as a match.
func ParseMatchResponse(raw, userQuestion string, dataset *Dataset, threshold float64) MatchDecision {
	decision := MatchDecision{}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		for _, h := range matchLineHandlers {
			if strings.HasPrefix(upper, h.prefix) {
				h.apply(&decision, strings.TrimSpace(line[len(h.prefix):]))
				break
			}
		}
	}

	resolveQuestion(&decision, userQuestion, dataset)
	decision.IsMatch = decision.Confidence >= threshold && decision.Resolved != nil

	return decision
}

// resolveQuestion selects the evaluation question the decision refers
// to. The numeric index has strict priority over the echoed text; the
// text is only a fallback when the index is out of range.
func resolveQuestion(d *MatchDecision, userQuestion string, dataset *Dataset) {
	if q, ok := dataset.ByIndex(d.MatchedIndex); ok {
		d.Resolved = q
		if d.MatchedText != "" && normalizeQuestion(d.MatchedText) != normalizeQuestion(q.Question) {
			d.Warnings = append(d.Warnings, fmt.Sprintf(
				"matched question text %q disagrees with question %d (%q); trusting the index",
				d.MatchedText, q.Index, q.Question))
		}
		return
	}

	if d.MatchedText == "" {
		return
	}

	// The model sometimes echoes the user question into the matched
	// question field. That is not evidence of a dataset match.
	if normalizeQuestion(d.MatchedText) == normalizeQuestion(userQuestion) {
		d.Warnings = append(d.Warnings,
			"model echoed the user question into the matched question field")
		return
	}

	if q := dataset.ByText(d.MatchedText); q != nil {
		d.Resolved = q
		return
	}

	d.Warnings = append(d.Warnings, fmt.Sprintf(
		"no evaluation question matches text %q", d.MatchedText))
}
