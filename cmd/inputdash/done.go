package main

import (
	"inputdash/internal/api"
	dom "inputdash/internal/domain"
	"inputdash/internal/view"

	"github.com/spf13/cobra"
)

func newDoneCmd(c *cli) *cobra.Command {
	var reopen bool
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark an input done (or open again with --reopen)",
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
			status := string(dom.StatusDone)
			if reopen {
				status = string(dom.StatusOpen)
			}
			in, err := b.UpdateInput(cmd.Context(), id, api.InputUpdate{Status: &status})
			if err != nil {
				return err
			}
			w := c.writer(cmd)
			if w.structured() {
				return w.input(in)
			}
			return w.plain("%s\n", renderLine(in))
		},
	}
	cmd.Flags().BoolVar(&reopen, "reopen", false, "set status back to open")
	return cmd
}
