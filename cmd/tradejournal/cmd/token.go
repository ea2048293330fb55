package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for an identity",
	Long: `Sign a bearer token for the API with the configured secret.

Example:
  tradejournal token --id 01HQ... --email me@example.com`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

var (
	tokenID    string
	tokenEmail string
)

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenID, "id", "", "user id (required)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "user email")
	_ = tokenCmd.MarkFlagRequired("id")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tokens, err := newTokens(cfg)
	if err != nil {
		return err
	}

	tok, err := tokens.Issue(auth.Identity{ID: tokenID, Email: tokenEmail})
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}
