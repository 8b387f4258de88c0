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
)

var assignmentsCmd = &cobra.Command{
	Use:   "assignments",
	Short: "List which videos are assigned to which users",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAssignments(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runUsers(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(assignmentsCmd)
	rootCmd.AddCommand(usersCmd)
}

func runAssignments(ctx context.Context, w io.Writer) int {
	e := openEnv()
	if !e.requireLogin(w) {
		return 1
	}
	r, err := e.inventory.ListAssignments(ctx, nil)
	if err != nil {
		return reportError(w, err)
	}

	if jsonOutput {
		writeJSON(w, r.Data)
		return 0
	}
	if len(r.Data) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No assignments."))
		return 0
	}
	rows := make([][]string, 0, len(r.Data))
	for _, a := range r.Data {
		rows = append(rows, []string{strconv.FormatInt(a.Id, 10), a.Video.Title, a.User.Username, a.AssignedAt})
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "VIDEO", "USER", "ASSIGNED"}, rows))
	return 0
}

func runUsers(ctx context.Context, w io.Writer) int {
	e := openEnv()
	if !e.requireLogin(w) {
		return 1
	}
	users, err := e.inventory.ListUsers(ctx)
	if err != nil {
		return reportError(w, err)
	}

	if jsonOutput {
		writeJSON(w, users)
		return 0
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{strconv.FormatInt(u.Id, 10), u.Username, u.Role})
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "USERNAME", "ROLE"}, rows))
	return 0
}
