package main

import (
	"errors"
	"fmt"

	"inputdash/internal/view"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newDeleteCmd(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an input",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := view.ParseID(args[0])
			if err != nil {
				return err
			}
			b, err := c.authed()
			if err != nil {
				return err
			}
			if !yes && interactive(cmd) {
				confirmed := false
				form := huh.NewForm(huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Delete input #%d?", id)).
						Affirmative("Delete").
						Negative("Cancel").
						Value(&confirmed),
				)).WithShowHelp(false)
				if err := form.RunWithContext(cmd.Context()); err != nil {
					return err
				}
				if !confirmed {
					return errors.New("cancelled")
				}
			}
			if err := b.DeleteInput(cmd.Context(), id); err != nil {
				return err
			}
			w := c.writer(cmd)
			if ok, err := w.encode(map[string]any{"id": id, "status": "deleted"}); ok {
				return err
			}
			return w.plain("%s deleted #%d\n", successStyle.Render("✓"), id)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
