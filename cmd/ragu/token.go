package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"resume-ragu/internal/config"
	"resume-ragu/internal/domain"
	"resume-ragu/internal/service"
)

func newTokenCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <userId>",
		Short: "Issue an access token bound to one profile",
		Long: `Issue a bearer token for the API. The server must run with the same
JWT_SECRET; the token only grants access to /api/profile/<userId> and to
chat requests for that user.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadStoreConfig()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			if err := domain.ValidateUserID(args[0]); err != nil {
				return err
			}
			token, expires, err := service.NewJWTService(cfg.JWTSecret, ttl).Issue(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
