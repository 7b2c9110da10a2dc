package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"resume-ragu/internal/bootstrap"
	"resume-ragu/internal/config"
	"resume-ragu/internal/domain"
)

type chatter interface {
	Chat(ctx context.Context, userID string, messages []domain.ConversationMessage) (domain.ChatResult, error)
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <userId>",
		Short: "Interactive chat grounded on the stored profile",
		Long: `Start an interactive chat. The history is kept in memory for the
session and sent in full on every turn. Type /reset to start over and
/exit (or Ctrl-D) to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			cfg = opts.apply(cfg)
			logger := opts.logger()
			defer logger.Sync()

			ctx := cmd.Context()
			store, closeStore, err := bootstrap.OpenProfileStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			chatSvc, closeChat, err := bootstrap.NewChatService(ctx, cfg, logger, store)
			if err != nil {
				return err
			}
			defer closeChat()

			return runChatLoop(ctx, chatSvc, args[0], cmd.InOrStdin(), cmd.OutOrStdout(), opts.verbose)
		},
	}
}

// runChatLoop lee turnos de in hasta EOF o /exit. Los turnos con respuesta de reemplazo
// no entran al historial.
func runChatLoop(ctx context.Context, svc chatter, userID string, in io.Reader, out io.Writer, verbose bool) error {
	reader := bufio.NewReader(in)
	var history []domain.ConversationMessage

	fmt.Fprintf(out, "===== resume chat (%s) =====\n", userID)
	for {
		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return nil
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/reset":
			history = nil
			fmt.Fprintln(out, "(historial reiniciado)")
			continue
		}

		turn := make([]domain.ConversationMessage, 0, len(history)+1)
		turn = append(turn, history...)
		turn = append(turn, domain.ConversationMessage{Role: domain.RoleUser, Content: line})

		result, err := svc.Chat(ctx, userID, turn)
		if err != nil {
			var guardErr *domain.GuardrailError
			if errors.As(err, &guardErr) {
				fmt.Fprintf(out, "[rechazado: %s]\n", guardErr.Reason)
				continue
			}
			if errors.Is(err, domain.ErrProfileNotFound) {
				return fmt.Errorf("no profile for %s; import one with `ragu profile import`", userID)
			}
			fmt.Fprintf(out, "[error: %v]\n", err)
			continue
		}

		if !result.Flagged {
			history = append(turn, result.Message)
		}
		fmt.Fprintf(out, "\n%s\n\n", result.Message.Content)
		if result.Usage != nil && verbose {
			fmt.Fprintf(out, "(tokens in=%d out=%d)\n", result.Usage.InputTokens, result.Usage.OutputTokens)
		}
	}
}
