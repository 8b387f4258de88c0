package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

// promptCredentials asks for whichever of username and password weren't given as
// flags
var promptCredentials = func(username string, password string) (string, string, error) {
	fields := make([]huh.Field, 0, 2)
	if username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&username).
			Validate(huh.ValidateNotEmpty()))
	}
	if password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Validate(huh.ValidateNotEmpty()))
	}
	if len(fields) == 0 {
		return username, password, nil
	}
	err := huh.NewForm(huh.NewGroup(fields...)).Run()
	return username, password, err
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the inventory",
	Long:  `Sign in with a username and password. Credentials are kept in the session file until 'invctl logout'.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout, loginUsername, loginPassword)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted for if omitted)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted for if omitted)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(ctx context.Context, w io.Writer, username string, password string) int {
	username, password, err := promptCredentials(username, password)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	e := openEnv()
	state, intent, err := e.manager.Login(ctx, username, password)
	if err != nil {
		return reportError(w, err)
	}

	if jsonOutput {
		writeJSON(w, sessionOutput{State: state, Redirect: intent.Target})
		return 0
	}
	fmt.Fprintf(w, "Logged in as %s (%s).\n", state.User.Username, describeRole(state))
	return 0
}
