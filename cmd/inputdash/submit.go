package main

import (
	"strings"

	"inputdash/internal/view"

	"github.com/spf13/cobra"
)

func newSubmitCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "submit <text...>",
		Aliases: []string{"add"},
		Short:   "Submit a new input for classification",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if err := view.ValidateSubmit(text); err != nil {
				return err
			}
			b, err := c.authed()
			if err != nil {
				return err
			}
			in, err := b.CreateInput(cmd.Context(), text)
			if err != nil {
				return err
			}
			w := c.writer(cmd)
			if w.structured() {
				return w.input(in)
			}
			return w.plain("%s submitted\n%s\n", successStyle.Render("✓"), renderLine(in))
		},
	}
}
