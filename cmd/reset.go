package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neyapai/server/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset <user_id>",
	Short: "Delete a user's progress and conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := args[0]

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		if err := s.ProgressRepo().Delete(ctx, userID); err != nil {
			return fmt.Errorf("delete progress: %w", err)
		}
		if err := s.ConversationRepo().Delete(ctx, userID); err != nil {
			return fmt.Errorf("delete conversation: %w", err)
		}

		fmt.Printf("Reset data for %s.\n", userID)
		return nil
	},
}
