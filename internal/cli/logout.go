package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget stored credentials",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogout(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout always forgets the local credentials; failing to notify the backend is
// only a warning
func runLogout(ctx context.Context, w io.Writer) int {
	e := openEnv()
	wasLoggedIn := e.manager.State().IsAuthenticated

	_, _, err := e.manager.Logout(ctx)
	if err != nil {
		fmt.Fprintf(w, "Warning: the backend did not confirm the logout: %v\n", err)
	}
	if wasLoggedIn {
		fmt.Fprintln(w, "Logged out.")
	} else {
		fmt.Fprintln(w, "Not logged in.")
	}
	return 0
}
