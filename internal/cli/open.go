package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/golden-vcr/inventory-portal/internal/identity"
)

var openURL = browser.OpenURL

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the portal in a web browser",
	Long:  `Open the portal at your dashboard, or at the login page if you're not signed in.`,
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runOpen(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runOpen(w io.Writer) int {
	state := openEnv().manager.State()
	path := identity.LoginPath
	if state.IsAuthenticated {
		path = state.PrimaryRole.HomePath()
	}
	url := strings.TrimSuffix(GetPortalURL(), "/") + path

	fmt.Fprintf(w, "Opening %s...\n", url)
	if err := openURL(url); err != nil {
		fmt.Fprintf(w, "Error: could not open a browser: %v\n", err)
		return 1
	}
	return 0
}
