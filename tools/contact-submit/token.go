package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/metalstreets/contact-backend/services/common/auth"
	"github.com/metalstreets/contact-backend/services/intake-service/middleware"
)

func tokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin token for the export endpoint (needs ADMIN_JWT_SECRET)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tok, err := adminToken(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

func adminToken(subject string, ttl time.Duration) (string, error) {
	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		return "", errors.New("ADMIN_JWT_SECRET not set")
	}
	return auth.IssueToken([]byte(secret), subject, middleware.AdminTokenType, ttl)
}
