package classify

import (
	"encoding/json"
	"fmt"
	"strings"

	dom "inputdash/internal/domain"
)

const systemPrompt = "You classify unstructured operational inputs into structured fields. " +
	"Return ONLY valid JSON (no markdown) with keys: category, intent, severity, source. " +
	"Allowed category: issue,event,log,task,incident,note. " +
	"Allowed intent: todo,warning,deadline,information,question,unknown. " +
	"Allowed severity: low,medium,high,unknown. " +
	"Allowed source: human,machine,vendor,unknown. "

type promptInput struct {
	Text       string  `json:"text"`
	SourceHint *string `json:"source_hint"`
}

func userPrompt(text string, hint dom.Source) (string, error) {
	in := promptInput{Text: text}
	if hint != "" {
		h := string(hint)
		in.SourceHint = &h
	}
	b, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type modelOutput struct {
	Category string `json:"category"`
	Intent   string `json:"intent"`
	Severity string `json:"severity"`
	Source   string `json:"source"`
}

// parseOutput decodes the model answer. Missing keys take the documented
// defaults; values outside the enumerations are an error.
func parseOutput(raw string, hint dom.Source) (dom.Classification, error) {
	s := stripCodeFences(strings.TrimSpace(raw))
	if s == "" {
		s = "{}"
	}
	var out modelOutput
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return dom.Classification{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	c := dom.Classification{
		Category: dom.CategoryNote,
		Intent:   dom.IntentUnknown,
		Severity: dom.SeverityUnknown,
		Source:   dom.SourceUnknown,
	}
	if hint != "" {
		c.Source = hint
	}

	var err error
	if out.Category != "" {
		if c.Category, err = dom.ParseCategory(out.Category); err != nil {
			return dom.Classification{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
	}
	if out.Intent != "" {
		if c.Intent, err = dom.ParseIntent(out.Intent); err != nil {
			return dom.Classification{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
	}
	if out.Severity != "" {
		if c.Severity, err = dom.ParseSeverity(out.Severity); err != nil {
			return dom.Classification{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
	}
	if out.Source != "" {
		if c.Source, err = dom.ParseSource(out.Source); err != nil {
			return dom.Classification{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
	}
	return c, nil
}

// stripCodeFences drops a surrounding ```json ... ``` block if the model added one.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
