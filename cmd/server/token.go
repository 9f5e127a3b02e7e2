package main

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/hall-config-editor/internal/utils"
)

// newTokenCmd mints an owner token signed with JWT_SECRET for local use.
func newTokenCmd() *cobra.Command {
	var (
		ownerID uint64
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a development access token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			if ownerID == 0 {
				return errors.New("--owner is required")
			}
			tok, err := utils.NewAccessToken(secret, ownerID, role, ttl)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tok)
		},
	}
	cmd.Flags().Uint64Var(&ownerID, "owner", 0, "owner id placed in the sub claim")
	cmd.Flags().StringVar(&role, "role", "OWNER", "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
