package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geck-tools/geck/internal/models"
)

// Shared flag set for context and program create/update. Only the flags
// matching the resource kind are honored; users have their own commands
// because of the password handling.
var (
	resName     string
	resStatus   string
	resCaps     []string
	ctxCustomer string
	ctxIndustry string
	ctxEntity   string
	prgVendor   string
	prgType     string
	prgAPIType  string
)

func registerResourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&resName, "name", "", "resource name")
	cmd.Flags().StringVar(&resStatus, "status", "", "lifecycle status (active, inactive)")
	cmd.Flags().StringArrayVar(&resCaps, "capability", nil, "capability (repeatable)")
	cmd.Flags().StringVar(&ctxCustomer, "customer", "", "customer display name (contexts)")
	cmd.Flags().StringVar(&ctxIndustry, "industry", "", "industry (contexts)")
	cmd.Flags().StringVar(&ctxEntity, "entity", "", "legal entity (contexts)")
	cmd.Flags().StringVar(&prgVendor, "vendor", "", "vendor (programs)")
	cmd.Flags().StringVar(&prgType, "type", "", "program type (programs)")
	cmd.Flags().StringVar(&prgAPIType, "api-type", "", "API flavor (programs)")
}

func contextFromFlags() *models.CustomerContext {
	return &models.CustomerContext{
		Name:         resName,
		CustomerName: ctxCustomer,
		Industry:     ctxIndustry,
		Entity:       ctxEntity,
		Status:       resStatus,
		Capabilities: resCaps,
	}
}

func programFromFlags() *models.ProgramConfig {
	return &models.ProgramConfig{
		Name:         resName,
		Vendor:       prgVendor,
		Type:         prgType,
		APIType:      prgAPIType,
		Status:       resStatus,
		Capabilities: resCaps,
	}
}

var createCmd = &cobra.Command{
	Use:   "create <contexts|programs>",
	Short: "Create a context or program from flags",
	Long: `Create posts a new resource built from flags. The name must be
unique; the server rejects duplicates. Users are created with create-user,
which handles the password fields.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if resName == "" {
			return fmt.Errorf("--name is required")
		}
		c := newClient()
		var err error
		switch args[0] {
		case "contexts":
			err = c.Contexts.Create(ctx, contextFromFlags())
		case "programs":
			err = c.Programs.Create(ctx, programFromFlags())
		default:
			return fmt.Errorf("create handles contexts and programs; use create-user for users")
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), passStyle.Render("✓")+" created "+resName)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <contexts|programs> <name>",
	Short: "Replace a context's or program's fields from flags",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if args[0] != "contexts" && args[0] != "programs" {
			return fmt.Errorf("update handles contexts and programs; use update-user for users")
		}
		c := newClient()
		id, name, err := resolve(ctx, c, args[0], args[1])
		if err != nil {
			return err
		}
		if resName == "" {
			resName = name
		}
		switch args[0] {
		case "contexts":
			err = c.Contexts.Update(ctx, id, contextFromFlags())
		case "programs":
			err = c.Programs.Update(ctx, id, programFromFlags())
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), passStyle.Render("✓")+" updated "+resName)
		return nil
	},
}

func init() {
	registerResourceFlags(createCmd)
	registerResourceFlags(updateCmd)
}
