package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/geck-tools/geck/internal/query"
)

var (
	listSearch  string
	listStatus  string
	listFilters []string
)

var listCmd = &cobra.Command{
	Use:   "list <contexts|programs|users>",
	Short: "List resources, filtered locally after one fetch",
	Long: `List fetches the full collection once and filters it client-side.
--search matches any text field case-insensitively; --filter narrows on a
categorical attribute (industry, entity, vendor, type, api_type, role,
status). The value "all" on any filter is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		state := query.State{Search: listSearch, Filters: map[string]string{}}
		if listStatus != "" {
			state.Filters["status"] = listStatus
		}
		for _, f := range listFilters {
			key, value, ok := splitFilter(f)
			if !ok {
				return fmt.Errorf("invalid --filter %q, want key=value", f)
			}
			state.Filters[key] = value
		}

		c := newClient()
		out := cmd.OutOrStdout()
		switch args[0] {
		case "contexts":
			if err := c.Contexts.Refresh(ctx); err != nil {
				return err
			}
			items := c.Contexts.View(state)
			for _, item := range items {
				fmt.Fprintln(out, renderContextCard(item))
			}
			fmt.Fprintln(out, countLine(len(items), len(c.Contexts.Snapshot())))
		case "programs":
			if err := c.Programs.Refresh(ctx); err != nil {
				return err
			}
			items := c.Programs.View(state)
			for _, item := range items {
				fmt.Fprintln(out, renderProgramCard(item))
			}
			fmt.Fprintln(out, countLine(len(items), len(c.Programs.Snapshot())))
		case "users":
			if err := c.Users.Refresh(ctx); err != nil {
				return err
			}
			items := c.Users.View(state)
			for _, item := range items {
				fmt.Fprintln(out, renderUserCard(item))
			}
			fmt.Fprintln(out, countLine(len(items), len(c.Users.Snapshot())))
		default:
			return fmt.Errorf("unknown resource %q, want contexts, programs or users", args[0])
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listSearch, "search", "", "free-text search across all fields")
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (active, inactive, all)")
	listCmd.Flags().StringArrayVar(&listFilters, "filter", nil, "categorical filter key=value (repeatable)")
}

func splitFilter(s string) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], i > 0 && i < len(s)-1
		}
	}
	return "", "", false
}

func countLine(shown, total int) string {
	if shown == total {
		return mutedStyle.Render(fmt.Sprintf("%d resources", total))
	}
	return mutedStyle.Render(fmt.Sprintf("%d of %d resources", shown, total))
}
