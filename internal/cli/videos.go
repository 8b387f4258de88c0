package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/golden-vcr/inventory-portal/internal/inventory"
)

var (
	videosPage int
	videosSize int
	videosMine bool
)

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "List videos",
	Long:  `List the videos in the inventory (admins), or with --mine, the videos assigned to you.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runVideos(ctx, os.Stdout, videosMine, inventory.Page{Number: videosPage, Size: videosSize})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	videosCmd.Flags().IntVar(&videosPage, "page", 0, "Page number, starting from 0")
	videosCmd.Flags().IntVar(&videosSize, "size", 10, "Videos per page")
	videosCmd.Flags().BoolVar(&videosMine, "mine", false, "List only the videos assigned to you")
	rootCmd.AddCommand(videosCmd)
}

func runVideos(ctx context.Context, w io.Writer, mine bool, page inventory.Page) int {
	e := openEnv()
	if !e.requireLogin(w) {
		return 1
	}

	var videos []inventory.Video
	footer := ""
	if mine {
		result, err := e.inventory.ListUserVideos(ctx)
		if err != nil {
			return reportError(w, err)
		}
		videos = result
	} else {
		r, err := e.inventory.ListVideos(ctx, &page)
		if err != nil {
			return reportError(w, err)
		}
		videos = r.Data
		if r.PageInfo != nil {
			footer = fmt.Sprintf("Page %d of %d (%d videos)", r.PageInfo.CurrentPage+1, r.PageInfo.TotalPages, r.PageInfo.TotalElements)
		}
	}

	if jsonOutput {
		writeJSON(w, videos)
		return 0
	}
	if len(videos) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No videos."))
		return 0
	}
	rows := make([][]string, 0, len(videos))
	for _, v := range videos {
		rows = append(rows, []string{strconv.FormatInt(v.Id, 10), v.Title, v.CreatedAt})
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "TITLE", "CREATED"}, rows))
	if footer != "" {
		fmt.Fprintln(w, mutedStyle.Render(footer))
	}
	return 0
}
