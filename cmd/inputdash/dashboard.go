package main

import (
	"inputdash/internal/view"

	"github.com/spf13/cobra"
)

func newDashboardCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Show severity, status and category breakdowns",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.authed()
			if err != nil {
				return err
			}
			items, err := b.ListInputs(cmd.Context(), "dashboard")
			if err != nil {
				return err
			}
			s := view.Summarize(items)
			w := c.writer(cmd)
			if ok, err := w.encode(s); ok {
				return err
			}
			return w.plain("%s\n", renderDashboard(s))
		},
	}
}
