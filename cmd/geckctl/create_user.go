package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/geck-tools/geck/internal/validate"
)

var createUserDraft validate.UserDraft

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an operator account",
	Long: `Create-user validates the account locally before sending it: name,
a plausible email, and a password of at least 6 characters entered twice.
Field problems are printed per field and nothing is sent.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		c := newClient()
		fieldErrs, err := c.CreateUser(ctx, createUserDraft)
		if err != nil {
			return err
		}
		if len(fieldErrs) > 0 {
			printFieldErrors(cmd, fieldErrs)
			return fmt.Errorf("user not created")
		}
		fmt.Fprintln(cmd.OutOrStdout(), passStyle.Render("✓")+" created user "+createUserDraft.Name)
		return nil
	},
}

var updateUserDraft validate.UserDraft

var updateUserCmd = &cobra.Command{
	Use:   "update-user <name>",
	Short: "Edit an operator account",
	Long: `Update-user edits name, email and role. Passwords are never part
of an edit; they are only set at creation time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		c := newClient()
		id, name, err := resolve(ctx, c, "users", args[0])
		if err != nil {
			return err
		}
		if updateUserDraft.Name == "" {
			updateUserDraft.Name = name
		}
		fieldErrs, err := c.UpdateUser(ctx, id, updateUserDraft)
		if err != nil {
			return err
		}
		if len(fieldErrs) > 0 {
			printFieldErrors(cmd, fieldErrs)
			return fmt.Errorf("user not updated")
		}
		fmt.Fprintln(cmd.OutOrStdout(), passStyle.Render("✓")+" updated user "+updateUserDraft.Name)
		return nil
	},
}

func printFieldErrors(cmd *cobra.Command, errs map[string]string) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", failStyle.Render("✗"), k, errs[k])
	}
}

func init() {
	createUserCmd.Flags().StringVar(&createUserDraft.Name, "name", "", "display name")
	createUserCmd.Flags().StringVar(&createUserDraft.Email, "email", "", "email address")
	createUserCmd.Flags().StringVar(&createUserDraft.Role, "role", "viewer", "role (admin, editor, viewer)")
	createUserCmd.Flags().StringVar(&createUserDraft.Password, "password", "", "password (min 6 characters)")
	createUserCmd.Flags().StringVar(&createUserDraft.ConfirmPassword, "confirm-password", "", "password again")

	updateUserCmd.Flags().StringVar(&updateUserDraft.Name, "name", "", "display name")
	updateUserCmd.Flags().StringVar(&updateUserDraft.Email, "email", "", "email address")
	updateUserCmd.Flags().StringVar(&updateUserDraft.Role, "role", "", "role (admin, editor, viewer)")
}
