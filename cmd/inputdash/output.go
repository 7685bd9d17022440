package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"inputdash/internal/api"
	"inputdash/internal/view"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// writer renders results in the format selected by --json / --yaml.
type writer struct {
	out  io.Writer
	json bool
	yaml bool
}

func (c *cli) writer(cmd *cobra.Command) writer {
	return writer{out: cmd.OutOrStdout(), json: c.jsonOutput, yaml: c.yamlOutput}
}

func (w writer) structured() bool { return w.json || w.yaml }

// encode writes payload as JSON or YAML. It reports false when neither was asked for.
func (w writer) encode(payload any) (bool, error) {
	switch {
	case w.json:
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		return true, enc.Encode(payload)
	case w.yaml:
		enc := yaml.NewEncoder(w.out)
		enc.SetIndent(2)
		if err := enc.Encode(toYAML(payload)); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

func (w writer) plain(format string, args ...any) error {
	_, err := fmt.Fprintf(w.out, format, args...)
	return err
}

func (w writer) input(in api.Input) error {
	if ok, err := w.encode(in); ok {
		return err
	}
	return w.plain("%s\n", renderDetail(in))
}

func (w writer) buckets(b view.Buckets) error {
	if ok, err := w.encode(b); ok {
		return err
	}
	sections := []struct {
		title string
		items []api.Input
	}{
		{"Open", b.Open},
		{"Done", b.Done},
	}
	for i, s := range sections {
		if i > 0 {
			if err := w.plain("\n"); err != nil {
				return err
			}
		}
		if err := w.plain("%s\n", titleStyle.Render(fmt.Sprintf("%s (%d)", s.title, len(s.items)))); err != nil {
			return err
		}
		if len(s.items) == 0 {
			if err := w.plain("  %s\n", mutedStyle.Render("nothing here")); err != nil {
				return err
			}
			continue
		}
		for _, in := range s.items {
			if err := w.plain("  %s\n", renderLine(in)); err != nil {
				return err
			}
		}
	}
	return nil
}

// toYAML round-trips through JSON so YAML keys follow the json tags.
func toYAML(payload any) any {
	b, err := json.Marshal(payload)
	if err != nil {
		return payload
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return payload
	}
	return generic
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
