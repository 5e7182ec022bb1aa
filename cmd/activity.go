package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/menu-studio/internal/audit"
)

var (
	activityLimit  int
	activitySource string
	activityPrune  time.Duration
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent changes to the menu",
	Long: `Lists the activity log, newest first. Every change made from the CLI,
the editor, the live preview or an MCP client is recorded. Use --prune to
delete entries older than a duration, e.g. --prune 720h.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if activityPrune > 0 {
			n, err := a.activity.DeleteBefore(ctx, time.Now().Add(-activityPrune))
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d activity entries.\n", n)
			return nil
		}

		entries, err := a.activity.Query(ctx, audit.QueryFilter{Source: audit.Source(activitySource), Limit: activityLimit})
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No activity recorded yet.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %-8s %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Source, e.Summary)
		}
		return nil
	},
}

func init() {
	activityCmd.Flags().IntVarP(&activityLimit, "limit", "n", 20, "number of entries to show")
	activityCmd.Flags().StringVar(&activitySource, "source", "", "only show entries from cli, api, mcp or preview")
	activityCmd.Flags().DurationVar(&activityPrune, "prune", 0, "delete entries older than this and exit")
	rootCmd.AddCommand(activityCmd)
}
