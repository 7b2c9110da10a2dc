package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"resume-ragu/internal/bootstrap"
	"resume-ragu/internal/config"
	"resume-ragu/internal/domain"
	"resume-ragu/internal/service"
)

func newProfileCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect, import or export a career profile",
	}
	cmd.AddCommand(
		newProfileShowCmd(opts),
		newProfileImportCmd(opts),
		newProfileExportCmd(opts),
		newProfileDeleteCmd(opts),
	)
	return cmd
}

// withProfileService abre el store configurado y ejecuta fn.
func withProfileService(cmd *cobra.Command, opts *rootOptions, fn func(*service.ProfileService) error) error {
	cfg, err := config.LoadStoreConfig()
	if err != nil {
		return err
	}
	logger := opts.logger()
	defer logger.Sync()

	store, cleanup, err := bootstrap.OpenProfileStore(cmd.Context(), opts.apply(cfg), logger)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(service.NewProfileService(logger, store))
}

func newProfileShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <userId>",
		Short: "Print a short summary of the profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfileService(cmd, opts, func(svc *service.ProfileService) error {
				profile, err := svc.GetProfile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), profile)
				return nil
			})
		},
	}
}

func newProfileImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <userId> <file>",
		Short: "Replace the profile with a JSON document",
		Long: `Replace the whole profile with the JSON document in <file>.

The document is validated like PUT /api/profile/:userId: user.id is forced
to <userId> and entities without an id get one generated.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}
			var profile domain.Profile
			if err := json.Unmarshal(data, &profile); err != nil {
				return fmt.Errorf("parse %s: %w", args[1], err)
			}
			return withProfileService(cmd, opts, func(svc *service.ProfileService) error {
				saved, err := svc.ReplaceProfile(cmd.Context(), args[0], profile)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported profile %s\n", saved.User.ID)
				printSummary(cmd.OutOrStdout(), saved)
				return nil
			})
		},
	}
}

func newProfileExportCmd(opts *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <userId>",
		Short: "Write the profile as indented JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfileService(cmd, opts, func(svc *service.ProfileService) error {
				profile, err := svc.GetProfile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(profile, "", "  ")
				if err != nil {
					return err
				}
				data = append(data, '\n')
				if out == "" || out == "-" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				return os.WriteFile(out, data, 0o644)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newProfileDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <userId>",
		Short: "Delete the profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfileService(cmd, opts, func(svc *service.ProfileService) error {
				if err := svc.DeleteProfile(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted profile %s\n", args[0])
				return nil
			})
		},
	}
}

func printSummary(w io.Writer, p domain.Profile) {
	fmt.Fprintf(w, "%s <%s>\n", p.User.Name, p.User.Contact.Email)
	fmt.Fprintf(w, "  jobs:            %d\n", len(p.Jobs))
	fmt.Fprintf(w, "  skills:          %d\n", len(p.Skills))
	fmt.Fprintf(w, "  projects:        %d\n", len(p.Projects))
	fmt.Fprintf(w, "  accomplishments: %d\n", len(p.Accomplishments))
}
