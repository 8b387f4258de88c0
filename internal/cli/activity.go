package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/golden-vcr/inventory-portal/internal/inventory"
)

var (
	activityVideo  int64
	activityAction string
	activityPage   int
	activitySize   int
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Work with activity logs",
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded activity",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runActivityList(ctx, os.Stdout, inventory.Page{Number: activityPage, Size: activitySize})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var activityRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record that you viewed or completed a video",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runActivityRecord(ctx, os.Stdout, activityVideo, activityAction)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	activityListCmd.Flags().IntVar(&activityPage, "page", 0, "Page number, starting from 0")
	activityListCmd.Flags().IntVar(&activitySize, "size", 20, "Entries per page")
	activityRecordCmd.Flags().Int64Var(&activityVideo, "video", 0, "ID of the video")
	activityRecordCmd.Flags().StringVar(&activityAction, "action", string(inventory.ActionViewed), "VIEWED or COMPLETED")
	activityRecordCmd.MarkFlagRequired("video")
	activityCmd.AddCommand(activityListCmd)
	activityCmd.AddCommand(activityRecordCmd)
	rootCmd.AddCommand(activityCmd)
}

func runActivityList(ctx context.Context, w io.Writer, page inventory.Page) int {
	e := openEnv()
	if !e.requireLogin(w) {
		return 1
	}
	r, err := e.inventory.ListActivityLogs(ctx, &page)
	if err != nil {
		return reportError(w, err)
	}

	if jsonOutput {
		writeJSON(w, r.Data)
		return 0
	}
	if len(r.Data) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No activity."))
		return 0
	}
	rows := make([][]string, 0, len(r.Data))
	for _, entry := range r.Data {
		rows = append(rows, []string{entry.Timestamp, entry.User.Username, entry.Action, entry.Video.Title})
	}
	fmt.Fprintln(w, renderTable([]string{"WHEN", "USER", "ACTION", "VIDEO"}, rows))
	return 0
}

// runActivityRecord logs an action against a video as the signed-in user
func runActivityRecord(ctx context.Context, w io.Writer, videoId int64, action string) int {
	e := openEnv()
	if !e.requireLogin(w) {
		return 1
	}
	entry, err := e.inventory.RecordActivity(ctx, inventory.ActivityRecord{
		VideoId: videoId,
		UserId:  e.manager.State().User.Id,
		Action:  inventory.Action(strings.ToUpper(action)),
	})
	if err != nil {
		return reportError(w, err)
	}

	if jsonOutput {
		writeJSON(w, entry)
		return 0
	}
	fmt.Fprintf(w, "Recorded %s for video %d.\n", strings.ToUpper(action), videoId)
	return 0
}
