package classify

import (
	"context"
	"testing"

	dom "inputdash/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordClassify(t *testing.T) {
	cases := []struct {
		name string
		text string
		hint dom.Source
		want dom.Classification
	}{
		{
			name: "outage is a high severity incident",
			text: "Major OUTAGE in eu-west",
			want: dom.Classification{Category: dom.CategoryIncident, Intent: dom.IntentInformation, Severity: dom.SeverityHigh, Source: dom.SourceUnknown},
		},
		{
			name: "incident wins over issue words",
			text: "incident: login error for some users",
			want: dom.Classification{Category: dom.CategoryIncident, Intent: dom.IntentInformation, Severity: dom.SeverityUnknown, Source: dom.SourceUnknown},
		},
		{
			name: "bug report with priority",
			text: "Checkout bug, p1",
			want: dom.Classification{Category: dom.CategoryIssue, Intent: dom.IntentInformation, Severity: dom.SeverityMedium, Source: dom.SourceUnknown},
		},
		{
			name: "task without deadline is a todo",
			text: "Please ship the new build",
			want: dom.Classification{Category: dom.CategoryTask, Intent: dom.IntentTodo, Severity: dom.SeverityUnknown, Source: dom.SourceUnknown},
		},
		{
			name: "task with deadline",
			text: "fix the docs by tomorrow",
			want: dom.Classification{Category: dom.CategoryTask, Intent: dom.IntentDeadline, Severity: dom.SeverityUnknown, Source: dom.SourceUnknown},
		},
		{
			name: "question mark beats everything for intent",
			text: "why did the deploy fail?",
			want: dom.Classification{Category: dom.CategoryIssue, Intent: dom.IntentQuestion, Severity: dom.SeverityUnknown, Source: dom.SourceUnknown},
		},
		{
			name: "log line",
			text: "log: stack trace attached",
			want: dom.Classification{Category: dom.CategoryLog, Intent: dom.IntentInformation, Severity: dom.SeverityUnknown, Source: dom.SourceUnknown},
		},
		{
			name: "event with warning",
			text: "Release train has some risk",
			want: dom.Classification{Category: dom.CategoryEvent, Intent: dom.IntentWarning, Severity: dom.SeverityUnknown, Source: dom.SourceUnknown},
		},
		{
			name: "plain note keeps source hint",
			text: "nice to have: darker theme",
			hint: dom.SourceHuman,
			want: dom.Classification{Category: dom.CategoryNote, Intent: dom.IntentInformation, Severity: dom.SeverityLow, Source: dom.SourceHuman},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KeywordClassify(tc.text, tc.hint))
		})
	}
}

func TestKeyword_NeverFails(t *testing.T) {
	c, err := Keyword{}.Classify(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, dom.CategoryNote, c.Category)
	assert.Equal(t, dom.IntentInformation, c.Intent)
	assert.Equal(t, dom.SeverityUnknown, c.Severity)
	assert.Equal(t, dom.SourceUnknown, c.Source)
}

func TestParseOutput(t *testing.T) {
	t.Run("full object", func(t *testing.T) {
		c, err := parseOutput(`{"category":"issue","intent":"warning","severity":"high","source":"machine"}`, "")
		require.NoError(t, err)
		assert.Equal(t, dom.Classification{Category: dom.CategoryIssue, Intent: dom.IntentWarning, Severity: dom.SeverityHigh, Source: dom.SourceMachine}, c)
	})

	t.Run("missing keys take defaults and hint", func(t *testing.T) {
		c, err := parseOutput(`{}`, dom.SourceVendor)
		require.NoError(t, err)
		assert.Equal(t, dom.Classification{Category: dom.CategoryNote, Intent: dom.IntentUnknown, Severity: dom.SeverityUnknown, Source: dom.SourceVendor}, c)
	})

	t.Run("code fences are tolerated", func(t *testing.T) {
		c, err := parseOutput("```json\n{\"category\":\"task\"}\n```", "")
		require.NoError(t, err)
		assert.Equal(t, dom.CategoryTask, c.Category)
	})

	t.Run("unknown enum value", func(t *testing.T) {
		_, err := parseOutput(`{"category":"banana"}`, "")
		assert.ErrorIs(t, err, ErrInvalidOutput)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := parseOutput(`sure! here you go`, "")
		assert.ErrorIs(t, err, ErrInvalidOutput)
	})
}
