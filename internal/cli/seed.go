package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tendant/leadflow/internal/seed"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Upsert teams, leads, applications and tasks from a YAML file",
		Long: `Load a seed file and upsert every row it declares in one transaction.

Rows are keyed by id, so applying the same file twice leaves the same data.
Tasks may give an absolute due_at or a due_in offset from now.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.Load(args[0])
			if err != nil {
				return err
			}
			plan, err := f.Plan(time.Now())
			if err != nil {
				return fmt.Errorf("invalid seed: %w", err)
			}

			out := cmd.OutOrStdout()
			if dryRun {
				printSeedResult(out, "would upsert", seed.Result{
					Teams:        len(plan.Teams),
					Members:      len(plan.Members),
					Leads:        len(plan.Leads),
					Applications: len(plan.Applications),
					Tasks:        len(plan.Tasks),
				})
				return nil
			}

			db, err := rootOpts.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := seed.Apply(cmd.Context(), db, plan)
			if err != nil {
				return err
			}
			printSeedResult(out, "upserted", res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and check the file without writing")
	return cmd
}

func printSeedResult(w io.Writer, verb string, r seed.Result) {
	fmt.Fprintf(w, "%s %d teams, %d members, %d leads, %d applications, %d tasks\n",
		verb, r.Teams, r.Members, r.Leads, r.Applications, r.Tasks)
}
