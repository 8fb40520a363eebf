// cmd/worklicense/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/isows-india/worklicense-backend/internal/config"
	"github.com/isows-india/worklicense-backend/internal/database"
	"github.com/isows-india/worklicense-backend/internal/models"
	"github.com/isows-india/worklicense-backend/internal/originality"
	"github.com/isows-india/worklicense-backend/internal/services"
)

const Version = "1.0.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "worklicense",
		Short:         "Work licensing and originality tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logrus.SetOutput(os.Stderr)
			logrus.SetLevel(logrus.WarnLevel)
			return nil
		},
	}

	cmd.AddCommand(checkCmd(), tokenCmd(), versionCmd())
	return cmd
}

func checkCmd() *cobra.Command {
	var (
		ownerID string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Score .txt or .docx files against the stored works",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			repos, err := database.Open(cfg)
			if err != nil {
				return err
			}
			defer repos.Close()

			workService := services.NewWorkService(repos, services.NewOriginalityEngine(cfg), nil, cfg)
			extractor := services.NewExtractorService(cfg.Works.MaxUploadBytes)

			flagged := 0
			for _, path := range args {
				result, err := checkFile(cmd.Context(), workService, extractor, ownerID, path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if result.IsPlagiarized {
					flagged++
				}
				if err := printResult(cmd, path, result, asJSON); err != nil {
					return err
				}
			}

			if flagged > 0 {
				return fmt.Errorf("%d of %d files flagged", flagged, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "", "Exclude works owned by this user id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}

func checkFile(ctx context.Context, workService *services.WorkService, extractor *services.ExtractorService, ownerID, path string) (*originality.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content, err := extractor.Extract(data, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return workService.Score(ctx, ownerID, content)
}

func printResult(cmd *cobra.Command, path string, result *originality.Result, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{"file": path, "result": result})
	}

	verdict := "original"
	if result.IsPlagiarized {
		verdict = "PLAGIARISED"
	}
	fmt.Fprintf(out, "%s: score %d (%s) %s\n", path, result.Score, verdict, result.Details)
	for _, m := range result.Matches {
		fmt.Fprintf(out, "  %.3f  %s (%s)\n", m.Similarity, m.WorkTitle, m.WorkID)
	}
	return nil
}

func tokenCmd() *cobra.Command {
	var identity models.Identity

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for an identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			token, err := services.NewAuthService(cfg).IssueToken(identity)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&identity.ID, "user", "", "User id (required)")
	cmd.Flags().StringVar(&identity.Email, "email", "", "Email address for notifications")
	cmd.Flags().StringVar(&identity.DisplayName, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "worklicense version %s\n", Version)
		},
	}
}
