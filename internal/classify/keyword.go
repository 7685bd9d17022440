package classify

import (
	"context"
	"strings"

	dom "inputdash/internal/domain"
)

var (
	incidentWords = []string{"incident", "outage", "breach", "sev"}
	issueWords    = []string{"error", "fail", "failure", "bug", "issue"}
	taskWords     = []string{"todo", "action", "please", "fix", "call", "email", "ship"}
	logWords      = []string{"log:", "trace", "stack", "timestamp"}
	eventWords    = []string{"meeting", "deploy", "release", "event"}

	questionWords = []string{"how to", "can we", "what is", "why"}
	deadlineWords = []string{"deadline", "due", "by eod", "by tomorrow", "by "}
	warningWords  = []string{"warn", "warning", "risk", "attention"}

	highWords   = []string{"sev1", "p0", "critical", "urgent", "immediately", "outage"}
	mediumWords = []string{"sev2", "p1", "major", "asap"}
	lowWords    = []string{"minor", "low", "nice to have"}
)

// Keyword classifies by substring matching on the lowered text. It never fails
// and is the fallback for every other classifier.
type Keyword struct{}

func (Keyword) Name() string { return "keyword" }

func (Keyword) Classify(_ context.Context, text string, hint dom.Source) (dom.Classification, error) {
	return KeywordClassify(text, hint), nil
}

// KeywordClassify is the pure form of Keyword.Classify.
func KeywordClassify(text string, hint dom.Source) dom.Classification {
	t := strings.ToLower(text)

	category := dom.CategoryNote
	switch {
	case containsAny(t, incidentWords):
		category = dom.CategoryIncident
	case containsAny(t, issueWords):
		category = dom.CategoryIssue
	case containsAny(t, taskWords):
		category = dom.CategoryTask
	case containsAny(t, logWords):
		category = dom.CategoryLog
	case containsAny(t, eventWords):
		category = dom.CategoryEvent
	}

	var intent dom.Intent
	switch {
	case strings.Contains(t, "?") || containsAny(t, questionWords):
		intent = dom.IntentQuestion
	case containsAny(t, deadlineWords):
		intent = dom.IntentDeadline
	case containsAny(t, warningWords):
		intent = dom.IntentWarning
	case category == dom.CategoryTask:
		intent = dom.IntentTodo
	default:
		intent = dom.IntentInformation
	}

	severity := dom.SeverityUnknown
	switch {
	case containsAny(t, highWords):
		severity = dom.SeverityHigh
	case containsAny(t, mediumWords):
		severity = dom.SeverityMedium
	case containsAny(t, lowWords):
		severity = dom.SeverityLow
	}

	source := hint
	if source == "" {
		source = dom.SourceUnknown
	}

	return dom.Classification{
		Category: category,
		Intent:   intent,
		Severity: severity,
		Source:   source,
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
