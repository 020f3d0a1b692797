package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neyapai/server/internal/course"
	"github.com/neyapai/server/internal/server"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the available course documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := server.ConfigFromEnv()
		loader := course.NewLoader(cfg.CoursesDir)

		summaries, err := loader.List()
		if err != nil {
			return fmt.Errorf("list courses: %w", err)
		}
		if len(summaries) == 0 {
			fmt.Printf("No courses found in %s.\n", cfg.CoursesDir)
			return nil
		}

		for _, s := range summaries {
			fmt.Printf("%-24s  %s\n", s.ID, s.Title)
			if s.Description != "" {
				fmt.Printf("%-24s  %s\n", "", s.Description)
			}
		}
		return nil
	},
}
