package evaluation

import (
	"fmt"
	"sort"
	"strings"
)

// suspicionConfidence is the level at which a resolved match gets the
// lexical-overlap check. The matcher is known to occasionally report
// very high confidence for questions that share almost no vocabulary.
const suspicionConfidence = 0.95

// minSharedMeaningfulTokens is the overlap below which a
// high-confidence match is flagged as a possible hallucination.
const minSharedMeaningfulTokens = 2

var stopwords = map[string]struct{}{
	"what": {}, "does": {}, "is": {}, "the": {}, "a": {}, "an": {},
	"and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "how": {},
	"do": {}, "i": {}, "you": {}, "can": {}, "will": {}, "would": {},
	"should": {},
}

// SuspicionWarnings runs the advisory consistency heuristics over a
// resolved decision. It never alters the decision: the confidence
// threshold stays the single source of truth for IsMatch, and these
// warnings are diagnostic only.
func SuspicionWarnings(d *MatchDecision, userQuestion string) []string {
	if d.Resolved == nil || d.Confidence < suspicionConfidence {
		return nil
	}

	shared := sharedMeaningfulTokens(userQuestion, d.Resolved.Question)
	if len(shared) >= minSharedMeaningfulTokens {
		return nil
	}

	return []string{fmt.Sprintf(
		"possible hallucinated match: confidence %.2f but only %d meaningful shared tokens %v between %q and %q",
		d.Confidence, len(shared), shared, userQuestion, d.Resolved.Question)}
}

// sharedMeaningfulTokens returns the sorted set of non-stopword tokens
// common to both questions, using case-insensitive whitespace
// tokenization.
func sharedMeaningfulTokens(a, b string) []string {
	tokensA := tokenSet(a)

	seen := make(map[string]struct{})
	var shared []string
	for _, tok := range strings.Fields(strings.ToLower(b)) {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if _, ok := tokensA[tok]; !ok {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		shared = append(shared, tok)
	}
	sort.Strings(shared)
	return shared
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}
