// geckctl is the operator CLI for geckd: list, create, duplicate, delete,
// toggle, export and import GECK resources from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geck-tools/geck/internal/client"
)

var (
	version = "dev"

	serverURL  string
	actingUser string
)

func newClient() *client.Client {
	return client.New(serverURL, actingUser)
}

var rootCmd = &cobra.Command{
	Use:           "geckctl",
	Short:         "Manage GECK contexts, programs and users",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("GECK_SERVER", "http://localhost:8080"), "geckd base URL")
	rootCmd.PersistentFlags().StringVar(&actingUser, "as", os.Getenv("GECK_USER"), "acting user ID")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(updateUserCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(duplicateCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
