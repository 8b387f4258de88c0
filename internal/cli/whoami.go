package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/golden-vcr/inventory-portal/internal/identity"
	"github.com/golden-vcr/inventory-portal/internal/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who you're signed in as",
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runWhoami(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

type sessionOutput struct {
	session.State
	Redirect string `json:"redirect,omitempty"`
}

// runWhoami reads the session file without contacting the backend; it exits 1 if
// there's no session
func runWhoami(w io.Writer) int {
	state := openEnv().manager.State()
	if jsonOutput {
		writeJSON(w, sessionOutput{State: state})
	} else if state.IsAuthenticated {
		fmt.Fprintf(w, "%s (id %d)\nRole:  %s\nRoles: %s\nFile:  %s\n",
			state.User.Username, state.User.Id, describeRole(state), strings.Join(state.User.Roles, ", "), GetSessionFile())
	} else {
		fmt.Fprintln(w, "Not logged in.")
	}
	if !state.IsAuthenticated {
		return 1
	}
	return 0
}

func describeRole(state session.State) string {
	switch state.PrimaryRole {
	case identity.PrimaryRoleAdmin:
		return "admin"
	case identity.PrimaryRoleUser:
		return "user"
	}
	return "no role"
}

func writeJSON(w io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}
