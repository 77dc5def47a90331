package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geck-tools/geck/internal/models"
)

var (
	importBulk   bool
	importFollow bool
)

var importCmd = &cobra.Command{
	Use:   "import <contexts|programs|users> [file]",
	Short: "Import definition files",
	Long: `Import uploads one local definition file, or with --bulk asks the
server to scan its definitions directory. Both paths report the same
per-file summary: imported, updated, failed, skipped. With --bulk --follow
the server-side job log is replayed line by line after the summary.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if importBulk == (len(args) == 2) {
			return fmt.Errorf("pass either a file argument or --bulk")
		}
		if importFollow && !importBulk {
			return fmt.Errorf("--follow only applies to --bulk imports")
		}

		c := newClient()
		var result *models.ImportResult
		var jobID string
		var err error
		switch args[0] {
		case "contexts":
			if importBulk {
				result, jobID, err = c.Contexts.ImportBulk(ctx)
			} else {
				result, err = c.Contexts.ImportFile(ctx, args[1])
			}
		case "programs":
			if importBulk {
				result, jobID, err = c.Programs.ImportBulk(ctx)
			} else {
				result, err = c.Programs.ImportFile(ctx, args[1])
			}
		case "users":
			if importBulk {
				result, jobID, err = c.Users.ImportBulk(ctx)
			} else {
				result, err = c.Users.ImportFile(ctx, args[1])
			}
		default:
			return fmt.Errorf("unknown resource %q, want contexts, programs or users", args[0])
		}
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, renderImportResult(result))
		if importFollow {
			fmt.Fprintln(out, titleStyle.Render("Job log:"))
			if err := c.FollowJobLogs(ctx, jobID, func(line string) {
				fmt.Fprintln(out, mutedStyle.Render(line))
			}); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importBulk, "bulk", false, "scan the server-side definitions directory")
	importCmd.Flags().BoolVar(&importFollow, "follow", false, "replay the job log after a bulk import")
}
