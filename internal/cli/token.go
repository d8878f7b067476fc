package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tendant/leadflow/pkg/auth"
	"github.com/tendant/leadflow/pkg/domain"
	"github.com/tendant/leadflow/pkg/policy"
)

// NewTokenCommand creates the token command, which signs a development token.
func NewTokenCommand() *cobra.Command {
	var (
		role   string
		tenant string
		user   string
		secret string
		issuer string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:          "token",
		Short:        "Sign a bearer token for local development",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("a signing secret is required: pass --secret or set JWT_SECRET")
			}
			parsedRole, err := domain.ParseRole(role)
			if err != nil {
				return err
			}
			tenantID, err := uuid.Parse(tenant)
			if err != nil {
				return fmt.Errorf("--tenant must be a UUID: %w", err)
			}
			userID := uuid.New()
			if user != "" {
				if userID, err = uuid.Parse(user); err != nil {
					return fmt.Errorf("--user must be a UUID: %w", err)
				}
			}

			svc := auth.NewTokenService(auth.TokenConfig{Secret: []byte(secret), Issuer: issuer, TTL: ttl})
			token, err := svc.IssueToken(policy.Claims{Role: parsedRole, TenantID: tenantID, UserID: userID}, time.Now())
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "counselor", "role claim (admin|counselor)")
	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant_id claim")
	cmd.Flags().StringVar(&user, "user", "", "user_id claim (random when empty)")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC signing secret")
	cmd.Flags().StringVar(&issuer, "issuer", envOr("JWT_ISSUER", "leadflow"), "issuer claim")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenTTL, "token lifetime")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}
