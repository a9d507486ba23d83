// Command issue-operator-token signs a JWT that authorizes price updates and refreshes
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/theunseenchapter/constructai-sub000/app/services"
	"github.com/theunseenchapter/constructai-sub000/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		operator string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue-operator-token",
		Short: "Issue a bearer token for the pricing write endpoints",
		Long: "Reads the JWT settings from the environment (or .env) the same way the server does " +
			"and prints a signed operator token to stdout.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadProductionConfig()
			if err != nil {
				return err
			}
			if ttl > 0 {
				cfg.JWT.OperatorTTL = ttl
			}

			svc, err := services.NewTokenService(cfg.JWT)
			if err != nil {
				return err
			}
			token, expiresAt, err := svc.GenerateOperatorToken(operator)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "operator=%s expires_at=%s\n", operator, expiresAt.UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVarP(&operator, "operator", "o", "", "operator name stored in the token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to JWT_OPERATOR_TTL")
	_ = cmd.MarkFlagRequired("operator")

	return cmd
}
