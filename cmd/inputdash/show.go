package main

import (
	"inputdash/internal/view"

	"github.com/spf13/cobra"
)

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := view.ParseID(args[0])
			if err != nil {
				return err
			}
			b, err := c.authed()
			if err != nil {
				return err
			}
			in, err := b.GetInput(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.writer(cmd).input(in)
		},
	}
}
