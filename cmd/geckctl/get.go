package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <contexts|programs|users> <name>",
	Short: "Show one resource",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		c := newClient()
		id, _, err := resolve(ctx, c, args[0], args[1])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch args[0] {
		case "contexts":
			for _, item := range c.Contexts.Snapshot() {
				if item.ID == id {
					fmt.Fprintln(out, renderContextCard(item))
					fmt.Fprintln(out, mutedStyle.Render("id: "+item.ID+"  updated: "+item.UpdatedAt.Format("2006-01-02 15:04")))
				}
			}
		case "programs":
			for _, item := range c.Programs.Snapshot() {
				if item.ID == id {
					fmt.Fprintln(out, renderProgramCard(item))
					fmt.Fprintln(out, mutedStyle.Render("id: "+item.ID+"  updated: "+item.UpdatedAt.Format("2006-01-02 15:04")))
				}
			}
		case "users":
			for _, item := range c.Users.Snapshot() {
				if item.ID == id {
					fmt.Fprintln(out, renderUserCard(item))
					fmt.Fprintln(out, mutedStyle.Render("id: "+item.ID+"  updated: "+item.UpdatedAt.Format("2006-01-02 15:04")))
				}
			}
		}
		return nil
	},
}
