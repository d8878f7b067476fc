package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tendant/leadflow/internal/dashboard"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(rootOpts *RootOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:          "dashboard",
		Short:        "Watch today's open tasks",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := rootOpts.apiClient()
			if err != nil {
				return err
			}
			program := tea.NewProgram(
				dashboard.NewModel(client, interval),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("dashboard: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", dashboard.DefaultRefreshInterval, "refresh interval")
	return cmd
}

// NewCompleteCommand creates the complete command.
func NewCompleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "complete <task-id>",
		Short:        "Mark a task completed",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := rootOpts.apiClient()
			if err != nil {
				return err
			}
			if err := client.Complete(cmd.Context(), args[0]); err != nil {
				if dashboard.IsNotFound(err) {
					return fmt.Errorf("task %s not found", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "completed %s\n", args[0])
			return nil
		},
	}
}
