package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resume-ragu/internal/bootstrap"
	"resume-ragu/internal/config"
)

type rootOptions struct {
	verbose bool
	dataDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "ragu",
		Short: "Manage career profiles and chat with the resume assistant",
		Long: `ragu works against the same profile store as the API server.

Profiles live in DATA_DIR (one JSON document per user) or in Postgres
when DATABASE_URL is set. The chat command talks to the configured
LLM provider using the same guardrails as POST /api/chat.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Profile directory (overrides DATA_DIR)")

	cmd.AddCommand(
		newProfileCmd(opts),
		newChatCmd(opts),
		newTokenCmd(),
	)
	return cmd
}

// logger devuelve un logger de desarrollo con -v y uno silencioso si no.
func (o *rootOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	logger, err := bootstrap.NewLogger("debug")
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func (o *rootOptions) apply(cfg *config.Config) *config.Config {
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	return cfg
}
