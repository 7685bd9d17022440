package main

import (
	"fmt"
	"strings"

	"inputdash/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read or change client settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get [key]",
			Short: "Print one setting, or all of them",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				w := c.writer(cmd)
				if len(args) == 1 {
					v, err := c.cfg.Get(args[0])
					if err != nil {
						return err
					}
					return w.plain("%s\n", v)
				}
				all := make(map[string]string, len(config.ClientKeys()))
				for _, k := range config.ClientKeys() {
					all[k], _ = c.cfg.Get(k)
				}
				if ok, err := w.encode(all); ok {
					return err
				}
				for _, k := range config.ClientKeys() {
					if err := w.plain("%s = %s\n", k, all[k]); err != nil {
						return err
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: fmt.Sprintf("Change a setting (%s)", strings.Join(config.ClientKeys(), ", ")),
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.SetClientKey(c.cfg.Path(), args[0], args[1]); err != nil {
					return err
				}
				return c.writer(cmd).plain("%s %s updated\n", successStyle.Render("✓"), args[0])
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.writer(cmd).plain("%s\n", c.cfg.Path())
			},
		},
	)
	return cmd
}
