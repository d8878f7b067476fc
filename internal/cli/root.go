// Package cli implements leadflowctl, the operator command line.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tendant/leadflow/internal/config"
	"github.com/tendant/leadflow/internal/dashboard"
	"github.com/tendant/leadflow/pkg/repository"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DatabaseURL string
	APIURL      string
	Token       string
}

// NewRootCommand creates the root command for leadflowctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "leadflowctl",
		Short: "Operate a leadflow deployment",
		Long:  "Operator tools for a leadflow deployment.",

		// main prints the error once
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database-url", os.Getenv("DATABASE_URL"),
		"postgres URL (defaults to DATABASE_URL, then the DB_* variables)")
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", envOr("LEADFLOW_API_URL", "http://localhost:8080"),
		"leadflow API base URL")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", os.Getenv("LEADFLOW_TOKEN"),
		"bearer token for API calls")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewTokenCommand())
	cmd.AddCommand(NewDashboardCommand(opts))
	cmd.AddCommand(NewCompleteCommand(opts))

	return cmd
}

func (o *RootOptions) openDB() (*sql.DB, error) {
	if o.DatabaseURL != "" {
		return repository.Open(o.DatabaseURL)
	}
	return repository.NewDB(config.DatabaseFromEnv())
}

func (o *RootOptions) apiClient() (*dashboard.Client, error) {
	if o.Token == "" {
		return nil, fmt.Errorf("a token is required: pass --token or set LEADFLOW_TOKEN")
	}
	return dashboard.NewClient(o.APIURL, o.Token)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
