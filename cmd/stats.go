package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kshimizu/manabo/internal/api"
	"github.com/kshimizu/manabo/internal/config"
	"github.com/kshimizu/manabo/internal/progress"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show study statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if showLog, _ := cmd.Flags().GetBool("log"); showLog {
			return printRequestLog(cmd, cfg)
		}

		client := api.NewHTTPClient(cfg.Server.BaseURL, cfg.Server.Timeout, nil)
		ctx := cmd.Context()

		weekly, err := client.WeeklyStats(ctx)
		if err != nil {
			return err
		}
		summary, err := client.Summary(ctx)
		if err != nil {
			return err
		}

		fmt.Println("This week:")
		for _, day := range weekly.DailyStats {
			fmt.Printf("  %s  grammar %2d  dialogue %2d\n", day.Date, day.Grammar, day.Dialogue)
		}
		grammarTotal, dialogueTotal := weekly.TotalGrammar, weekly.TotalDialogue
		if grammarTotal == 0 && dialogueTotal == 0 {
			grammarTotal, dialogueTotal = progress.Totals(weekly.DailyStats)
		}
		avg := progress.DailyAverage(grammarTotal, dialogueTotal, len(weekly.DailyStats))
		fmt.Printf("  total: grammar %d, dialogue %d (~%d/day)\n\n", grammarTotal, dialogueTotal, avg)

		fmt.Println("All time:")
		fmt.Printf("  grammar practiced:  %d\n", summary.TotalGrammarPracticed)
		fmt.Printf("  grammar mastered:   %d\n", summary.MasteredGrammar)
		fmt.Printf("  mistakes:           %d\n", summary.TotalMistakes)
		fmt.Printf("  dialogue sessions:  %d\n", summary.TotalDialogueSessions)
		fmt.Printf("  mastery rate:       %.1f%%\n", summary.MasteryRate)
		return nil
	},
}

// printRequestLog shows recent service calls from the local request log,
// for troubleshooting connectivity.
func printRequestLog(cmd *cobra.Command, cfg *config.Config) error {
	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.RequestLog().Recent(cmd.Context(), 50)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("Request log is empty.")
		return nil
	}

	for _, r := range records {
		status := "ok"
		if !r.Success {
			status = "FAIL " + r.ErrorText
		}
		fmt.Printf("%s  %-24s %5dms  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.Operation, r.LatencyMs, status)
	}
	return nil
}

func init() {
	statsCmd.Flags().Bool("log", false, "Show recent service calls from the local request log")
}
