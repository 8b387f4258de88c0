package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/golden-vcr/inventory-portal/internal/auth"
	"github.com/golden-vcr/inventory-portal/internal/backend"
	"github.com/golden-vcr/inventory-portal/internal/inventory"
	"github.com/golden-vcr/inventory-portal/internal/logger"
	"github.com/golden-vcr/inventory-portal/internal/session"
	"github.com/golden-vcr/inventory-portal/internal/tokenstore"
)

var (
	apiURL      string
	portalURL   string
	sessionFile string
	jsonOutput  bool
	verbose     bool
)

const defaultPortalURL = "http://localhost:5003"

var rootCmd = &cobra.Command{
	Use:   "invctl",
	Short: "Command-line client for the video inventory",
	Long: `invctl signs in to the video inventory and works with its videos, users,
assignments and activity logs from the terminal.

Environment Variables:
  INVCTL_API_URL       Backend API URL (default: http://localhost:8080/api/v1)
  INVCTL_PORTAL_URL    Portal URL opened by 'invctl open' (default: http://localhost:5003)
  INVCTL_SESSION_FILE  Where credentials are kept (default: ~/.invctl/session.json)`,
	SilenceUsage: true,
}

// Execute loads any .env file in the working directory, then runs the root command
func Execute() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides INVCTL_API_URL)")
	rootCmd.PersistentFlags().StringVar(&portalURL, "portal-url", "", "Portal URL (overrides INVCTL_PORTAL_URL)")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session-file", "", "Session file (overrides INVCTL_SESSION_FILE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log backend requests to stderr")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("INVCTL_API_URL"); envURL != "" {
		return envURL
	}
	return backend.DefaultBaseURL
}

// GetPortalURL returns the portal URL from flag, env, or default
func GetPortalURL() string {
	if portalURL != "" {
		return portalURL
	}
	if envURL := os.Getenv("INVCTL_PORTAL_URL"); envURL != "" {
		return envURL
	}
	return defaultPortalURL
}

// GetSessionFile returns the path of the session file from flag, env, or the default
// of ~/.invctl/session.json
func GetSessionFile() string {
	if sessionFile != "" {
		return sessionFile
	}
	if envPath := os.Getenv("INVCTL_SESSION_FILE"); envPath != "" {
		return envPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".invctl", "session.json")
}

// env is everything a command needs to act on the caller's behalf: a session
// manager hydrated from the session file, and an inventory client bound to the same
// credentials
type env struct {
	manager   *session.Manager
	inventory *inventory.Client
}

func openEnv() *env {
	level := "warn"
	if verbose {
		level = "debug"
	}
	l := logger.New(level, "text", os.Stderr)

	cfg := backend.DefaultConfig(GetAPIURL())
	cfg.Logger = l
	client := backend.NewClient(cfg)

	gateway := auth.NewGateway(auth.NewIdentityClient(client.WithBaseURL(client.BaseURL()+"/auth")), l)
	store := tokenstore.NewStore(tokenstore.NewFileJar(GetSessionFile())).WithLogger(l)
	m := session.NewManager(store, gateway)
	m.Init()

	return &env{
		manager:   m,
		inventory: inventory.NewClient(client).As(store),
	}
}

// requireLogin reports whether the caller has a session, printing a hint if not
func (e *env) requireLogin(w io.Writer) bool {
	if e.manager.State().IsAuthenticated {
		return true
	}
	fmt.Fprintln(w, "Not logged in. Run 'invctl login' first.")
	return false
}

// reportError prints a failed backend call and returns the exit code for it: 2 if
// the backend couldn't be reached, 1 otherwise
func reportError(w io.Writer, err error) int {
	switch {
	case errors.Is(err, backend.ErrTransport), errors.Is(err, auth.ErrTransport):
		fmt.Fprintf(w, "Error: could not reach %s: %v\n", GetAPIURL(), err)
		return 2
	case errors.Is(err, backend.ErrUnauthorized):
		fmt.Fprintln(w, "Error: your session has expired. Run 'invctl login' again.")
		return 1
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}
}
