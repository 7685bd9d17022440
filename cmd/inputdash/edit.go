package main

import (
	"errors"

	"inputdash/internal/api"
	dom "inputdash/internal/domain"
	"inputdash/internal/view"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var errNoChanges = errors.New("no changes")

func newEditCmd(c *cli) *cobra.Command {
	var d view.Draft
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an input's text or classification",
		Long: "Edit an input. Flags set fields directly; with no flags on a terminal a form opens.\n" +
			"Changing the text re-classifies the input, fields you set explicitly are kept.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := view.ParseID(args[0])
			if err != nil {
				return err
			}
			b, err := c.authed()
			if err != nil {
				return err
			}
			original, err := b.GetInput(cmd.Context(), id)
			if err != nil {
				return err
			}

			draft := view.DraftFrom(original)
			flags := cmd.Flags()
			changed := false
			for name, dst := range map[string]*string{
				"text":     &draft.Text,
				"status":   &draft.Status,
				"category": &draft.Category,
				"intent":   &draft.Intent,
				"severity": &draft.Severity,
				"source":   &draft.Source,
			} {
				if flags.Changed(name) {
					v, _ := flags.GetString(name)
					*dst = v
					changed = true
				}
			}
			if !changed {
				if !interactive(cmd) {
					return errors.New("nothing to change: pass --text, --status, --category, --intent, --severity or --source")
				}
				if err := editForm(&draft).RunWithContext(cmd.Context()); err != nil {
					return err
				}
			}

			patch, err := editPatch(original, draft)
			if err != nil {
				return err
			}
			in, err := b.UpdateInput(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return c.writer(cmd).input(in)
		},
	}
	f := cmd.Flags()
	f.StringVar(&d.Text, "text", "", "new text (re-classifies)")
	f.StringVar(&d.Status, "status", "", "open or done")
	f.StringVar(&d.Category, "category", "", "issue, event, log, task, incident or note")
	f.StringVar(&d.Intent, "intent", "", "todo, warning, deadline, information, question or unknown")
	f.StringVar(&d.Severity, "severity", "", "low, medium, high or unknown")
	f.StringVar(&d.Source, "source", "", "human, machine, vendor or unknown")
	return cmd
}

func editForm(d *view.Draft) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Text").
				Value(&d.Text).
				Validate(required("text")),
		),
		huh.NewGroup(
			selectField("Status", dom.Statuses, &d.Status),
			selectField("Category", dom.Categories, &d.Category),
			selectField("Intent", dom.Intents, &d.Intent),
			selectField("Severity", dom.Severities, &d.Severity),
			selectField("Source", dom.Sources, &d.Source),
		),
	).WithShowHelp(false)
}

func selectField[T ~string](title string, values []T, value *string) *huh.Select[string] {
	opts := make([]string, len(values))
	for i, v := range values {
		opts[i] = string(v)
	}
	return huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(opts...)...).
		Value(value)
}

// editPatch validates d and returns only the fields that differ from original.
func editPatch(original api.Input, d view.Draft) (api.InputUpdate, error) {
	if err := d.Validate(); err != nil {
		return api.InputUpdate{}, err
	}
	patch := view.Diff(&original, d)
	if view.UpdateEmpty(patch) {
		return patch, errNoChanges
	}
	return patch, nil
}
