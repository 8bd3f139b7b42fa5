package cmd

import (
	"fmt"
	"time"

	"github.com/jrsteele09/go-dashboard/oauthmodel"
	"github.com/jrsteele09/go-dashboard/users"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the access token",
	Long: `Log in with email and password.

The access token is kept in the configured token store (file by default) so
later commands reuse the session until it expires.

Examples:
  dashboard login --email demo@example.com --password Password123`,
	RunE: withApp(false, func(cmd *cobra.Command, _ []string, a *app) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		req := oauthmodel.LoginRequest{Email: email, Password: password}
		if err := req.Validate(); err != nil {
			return err
		}

		ctx := cmd.Context()
		resp, err := a.client.Login(ctx, req.Email, req.Password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		user, err := a.client.Me(ctx, resp.AccessToken)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := a.session.Login(ctx, resp, user); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", user.Name, user.Email)
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and remove the stored token",
	RunE: withApp(false, func(cmd *cobra.Command, _ []string, a *app) error {
		if !a.session.Authenticated() {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
			return nil
		}
		if err := a.session.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user and when the token expires",
	RunE: withApp(false, func(cmd *cobra.Command, _ []string, a *app) error {
		if err := a.requireSession(); err != nil {
			return err
		}

		user := a.session.User()
		if user == nil {
			ctx := cmd.Context()
			err := a.session.Do(ctx, func(accessToken string) error {
				var err error
				user, err = a.client.Me(ctx, accessToken)
				return err
			})
			if err != nil {
				return err
			}
		}
		printSession(cmd, a, user)
		return nil
	}),
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the current token for a fresh one",
	RunE: withApp(false, func(cmd *cobra.Command, _ []string, a *app) error {
		if err := a.requireSession(); err != nil {
			return err
		}
		if err := a.session.RefreshToken(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token refreshed, expires %s\n", a.session.Snapshot().ExpiresAt.Format(time.RFC1123))
		return nil
	}),
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	Long: `Create an account and log in with it.

Passwords need at least 8 characters with upper and lower case letters and a
number.

Examples:
  dashboard register --name "Ada Lovelace" --email ada@example.com --password Secret123`,
	RunE: withApp(false, func(cmd *cobra.Command, _ []string, a *app) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		confirmation, _ := cmd.Flags().GetString("password-confirmation")
		if confirmation == "" {
			confirmation = password
		}

		req := oauthmodel.RegisterRequest{Name: name, Email: email, Password: password, PasswordConfirmation: confirmation}
		if err := req.Validate(); err != nil {
			return err
		}
		if err := users.ValidatePasswordStrength(req.Password); err != nil {
			return err
		}

		ctx := cmd.Context()
		resp, err := a.client.Register(ctx, req)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		user, err := a.client.Me(ctx, resp.AccessToken)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		if err := a.session.Login(ctx, resp, user); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s <%s>\n", user.Name, user.Email)
		return nil
	}),
}

func printSession(cmd *cobra.Command, a *app, user *users.User) {
	s := a.session.Snapshot()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:    %s\n", user.Name)
	fmt.Fprintf(out, "Email:   %s\n", user.Email)
	fmt.Fprintf(out, "Session: %s\n", s.State)
	fmt.Fprintf(out, "Expires: %s\n", s.ExpiresAt.Format(time.RFC1123))
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")

	registerCmd.Flags().String("name", "", "display name")
	registerCmd.Flags().String("email", "", "account email")
	registerCmd.Flags().String("password", "", "account password")
	registerCmd.Flags().String("password-confirmation", "", "repeat of the password (defaults to --password)")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, refreshCmd, registerCmd)
}
