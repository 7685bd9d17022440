package main

import (
	"path/filepath"

	"inputdash/internal/demo"

	"github.com/spf13/cobra"
)

func newDemoCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Manage the local demo data",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Delete every demo input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(c.cfg.Dir, demo.DataFileName)
			if err := demo.NewStore(path).Reset(); err != nil {
				return err
			}
			return c.writer(cmd).plain("%s demo data cleared (%s)\n", successStyle.Render("✓"), path)
		},
	})
	return cmd
}
