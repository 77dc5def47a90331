package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/geck-tools/geck/internal/client"
	"github.com/geck-tools/geck/internal/validate"
)

var (
	deleteYes     bool
	duplicateName string
)

// resolve turns a name or ID argument into the resource's ID by scanning a
// freshly refreshed snapshot. Names are matched first so operators can use
// the value they see in listings.
func resolve(ctx context.Context, c *client.Client, kind, arg string) (id, name string, err error) {
	type entry struct{ id, name string }
	var entries []entry
	switch kind {
	case "contexts":
		if err := c.Contexts.Refresh(ctx); err != nil {
			return "", "", err
		}
		for _, item := range c.Contexts.Snapshot() {
			entries = append(entries, entry{item.ID, item.Name})
		}
	case "programs":
		if err := c.Programs.Refresh(ctx); err != nil {
			return "", "", err
		}
		for _, item := range c.Programs.Snapshot() {
			entries = append(entries, entry{item.ID, item.Name})
		}
	case "users":
		if err := c.Users.Refresh(ctx); err != nil {
			return "", "", err
		}
		for _, item := range c.Users.Snapshot() {
			entries = append(entries, entry{item.ID, item.Name})
		}
	default:
		return "", "", fmt.Errorf("unknown resource %q, want contexts, programs or users", kind)
	}
	for _, e := range entries {
		if e.name == arg {
			return e.id, e.name, nil
		}
	}
	for _, e := range entries {
		if e.id == arg {
			return e.id, e.name, nil
		}
	}
	return "", "", fmt.Errorf("no %s named %q", strings.TrimSuffix(kind, "s"), arg)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <contexts|programs|users> <name>",
	Short: "Delete a resource after confirmation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		c := newClient()
		id, name, err := resolve(ctx, c, args[0], args[1])
		if err != nil {
			return err
		}
		if !deleteYes && !confirm(cmd, fmt.Sprintf("Delete %q? This cannot be undone", name)) {
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Aborted."))
			return nil
		}

		switch args[0] {
		case "contexts":
			err = c.Contexts.Remove(ctx, id)
		case "programs":
			err = c.Programs.Remove(ctx, id)
		case "users":
			err = c.Users.Remove(ctx, id)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), passStyle.Render("✓")+" deleted "+name)
		return nil
	},
}

var duplicateCmd = &cobra.Command{
	Use:   "duplicate <contexts|programs> <name>",
	Short: "Copy a resource under a new name",
	Long: `Duplicate copies a resource. Without --name the copy is named
"<original>_copy". The new name is checked against the fetched collection
before the request is sent.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if args[0] != "contexts" && args[0] != "programs" {
			return fmt.Errorf("only contexts and programs can be duplicated")
		}

		c := newClient()
		id, name, err := resolve(ctx, c, args[0], args[1])
		if err != nil {
			return err
		}
		newName := duplicateName
		if newName == "" {
			newName = validate.CopyName(name)
		}

		switch args[0] {
		case "contexts":
			err = c.Contexts.Duplicate(ctx, id, newName)
		case "programs":
			err = c.Programs.Duplicate(ctx, id, newName)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), passStyle.Render("✓")+" duplicated "+name+" as "+newName)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <user>",
	Short: "Flip a user's active flag",
	Long: `Toggle activates an inactive user or deactivates an active one.
Toggling the acting user (--as) is refused.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		c := newClient()
		id, name, err := resolve(ctx, c, "users", args[0])
		if err != nil {
			return err
		}
		if err := c.ToggleUserActive(ctx, id); err != nil {
			return err
		}
		for _, u := range c.Users.Snapshot() {
			if u.ID == id {
				state := "inactive"
				if u.Active {
					state = "active"
				}
				fmt.Fprintln(cmd.OutOrStdout(), passStyle.Render("✓")+" "+name+" is now "+statusBadge(state))
				return nil
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), passStyle.Render("✓")+" toggled "+name)
		return nil
	},
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", warnStyle.Render(prompt))
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	duplicateCmd.Flags().StringVar(&duplicateName, "name", "", "name for the copy")
}
