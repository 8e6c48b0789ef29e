package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/file-finder/backend/internal/auth"
)

// NewHashSecretCommand prints the bcrypt hash to put in SECRET_HASH.
func NewHashSecretCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-secret SECRET",
		Short: "Hash a launch secret for the SECRET_HASH setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return fmt.Errorf("hash secret: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
