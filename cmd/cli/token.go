package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/runway/internal/infrastructure/auth"
)

var lookupEnv = os.Getenv

func tokenCmd() *cobra.Command {
	var (
		email  string
		name   string
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an API token for an allowlisted email",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = lookupEnv("JWT_SECRET")
			}
			if secret == "" {
				return errors.New("--secret or JWT_SECRET is required")
			}

			token, err := auth.NewJWTManager(secret, ttl).Generate(email, name)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().StringVar(&name, "name", "", "Optional display name")
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 secret (default: $JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
