package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kshimizu/manabo/internal/api"
	"github.com/kshimizu/manabo/internal/progress"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar [id]",
	Short: "List grammar points, or show one in full",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client := api.NewHTTPClient(cfg.Server.BaseURL, cfg.Server.Timeout, nil)
		ctx := cmd.Context()

		if len(args) == 1 {
			g, err := client.GrammarDetail(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s  [%s]\n\n", g.Title, g.Level)
			if g.Structure != "" {
				fmt.Printf("Structure: %s\n", g.Structure)
			}
			if g.Usage != "" {
				fmt.Printf("Usage:     %s\n", g.Usage)
			}
			for _, ex := range g.Examples {
				fmt.Printf("\n  %s\n  %s\n", ex.Ja, ex.Zh)
			}
			return nil
		}

		level, _ := cmd.Flags().GetString("level")
		theme, _ := cmd.Flags().GetString("theme")

		grammar, err := client.ListGrammar(ctx, api.Level(level), theme)
		if err != nil {
			return err
		}
		for _, g := range grammar {
			band := progress.ClassifyProficiency(g.Proficiency)
			fmt.Printf("%-12s %-4s %-8s %s\n", g.ID, g.Level, band, g.Title)
		}
		return nil
	},
}

func init() {
	grammarCmd.Flags().String("level", "", "Filter by JLPT level (N5..N1)")
	grammarCmd.Flags().String("theme", "", "Filter by theme")
}
