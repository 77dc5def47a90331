package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <contexts|programs|users> <name>",
	Short: "Download a resource as a definition file",
	Long: `Export writes the server-rendered definition file next to you,
using the server-suggested filename unless --out is given. The file can be
re-imported as-is.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		c := newClient()
		id, _, err := resolve(ctx, c, args[0], args[1])
		if err != nil {
			return err
		}

		var filename string
		var content []byte
		switch args[0] {
		case "contexts":
			filename, content, err = c.Contexts.Export(ctx, id)
		case "programs":
			filename, content, err = c.Programs.Export(ctx, id)
		case "users":
			filename, content, err = c.Users.Export(ctx, id)
		}
		if err != nil {
			return err
		}

		path := exportOut
		if path == "" {
			path = filename
		} else if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			path = filepath.Join(path, filename)
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), passStyle.Render("✓")+" wrote "+path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file or directory")
}
