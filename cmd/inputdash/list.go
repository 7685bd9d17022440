package main

import (
	"fmt"
	"slices"
	"strings"

	dom "inputdash/internal/domain"
	"inputdash/internal/view"

	"github.com/spf13/cobra"
)

func newListCmd(c *cli) *cobra.Command {
	var (
		search   string
		category string
		order    string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List inputs split into open and done",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category = strings.ToLower(strings.TrimSpace(category))
			if category != "" && !slices.Contains(view.Tabs, category) {
				return fmt.Errorf("invalid category %q (allowed: %s)", category, strings.Join(view.Tabs, ", "))
			}
			if !dom.ListOrder(order).Valid() {
				return fmt.Errorf("invalid order %q (allowed: dashboard, category, created_at)", order)
			}
			b, err := c.authed()
			if err != nil {
				return err
			}
			items, err := b.ListInputs(cmd.Context(), order)
			if err != nil {
				return err
			}
			return c.writer(cmd).buckets(view.Filter(items, search, category))
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive text filter")
	cmd.Flags().StringVarP(&category, "category", "c", view.TabAll, "category tab: "+strings.Join(view.Tabs, ", "))
	cmd.Flags().StringVarP(&order, "order", "o", string(dom.OrderDashboard), "dashboard, category or created_at")
	return cmd
}
