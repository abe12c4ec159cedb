package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentalign/internal/api"
	"github.com/jonathan/talentalign/internal/session"
	"github.com/jonathan/talentalign/internal/types"
)

// EnvPassword supplies the password when --password is not given.
const EnvPassword = "TALENTALIGN_PASSWORD"

var (
	authEmail    string
	authPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the credential token",
	Long:  "Sign in to the analysis service. The password is read from --password, TALENTALIGN_PASSWORD or standard input.",
	RunE:  withApp(runLogin),
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE:  withApp(runRegister),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored credential token",
	Long:  "Remove the stored credential token. Local history and the last result are kept.",
	RunE:  withApp(runLogout),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  withApp(runWhoami),
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().StringVar(&authPassword, "password", "", "Account password")
	}
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

func readPassword(in io.Reader) (string, error) {
	if authPassword != "" {
		return authPassword, nil
	}
	if env := os.Getenv(EnvPassword); env != "" {
		return env, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogin(cmd *cobra.Command, _ []string, a *app) error {
	password, err := readPassword(cmd.InOrStdin())
	if err != nil {
		return err
	}
	creds := types.Credentials{Email: authEmail, Password: password}
	resp, err := a.client.Login(cmd.Context(), creds)
	if err != nil {
		return errors.New(api.Message(err, "Login failed."))
	}
	if err := a.gate.SaveToken(cmd.Context(), resp.AccessToken); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", strings.ToLower(strings.TrimSpace(authEmail)))
	return nil
}

func runRegister(cmd *cobra.Command, _ []string, a *app) error {
	password, err := readPassword(cmd.InOrStdin())
	if err != nil {
		return err
	}
	reg := types.RegisterRequest{Email: authEmail, Password: password}
	resp, err := a.client.Register(cmd.Context(), reg)
	if err != nil {
		return errors.New(api.Message(err, "Registration failed."))
	}
	if err := a.gate.SaveToken(cmd.Context(), resp.AccessToken); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s\n", strings.ToLower(strings.TrimSpace(authEmail)))
	return nil
}

func runLogout(cmd *cobra.Command, _ []string, a *app) error {
	if err := a.gate.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string, a *app) error {
	ctx := cmd.Context()
	if err := a.requireLogin(ctx, session.ViewDashboard); err != nil {
		return err
	}
	user, err := a.client.Me(ctx)
	if err != nil {
		return a.fail(ctx, err, "Could not load account.")
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (id %d)\n", user.Email, user.ID)
	if claims, err := a.gate.Peek(ctx); err == nil && claims.ExpiresAt != nil {
		fmt.Fprintf(out, "Token expires %s\n", claims.ExpiresAt.Local().Format(time.DateTime))
	}
	return nil
}
