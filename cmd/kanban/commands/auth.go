package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskmaster/kanban/internal/domain/entities"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(rt *runtime, args []string) error {
			email, _ := rt.cmd.Flags().GetString("email")
			password, _ := rt.cmd.Flags().GetString("password")

			user, err := rt.session.Login(rt.ctx(), email, password)
			if err != nil {
				return errors.New(entities.Message(err, "Login failed"))
			}

			name := user.DisplayName()
			if name == "" {
				name = email
			}
			rt.printf("Signed in as %s\n", name)
			return nil
		}),
	}

	cmd.Flags().String("email", "", "Account email (required)")
	cmd.Flags().String("password", "", "Account password (required)")
	return cmd
}

// NewRegisterCommand creates the register command
func NewRegisterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  "Create an account. Registering does not sign in; run login afterwards.",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(rt *runtime, args []string) error {
			email, _ := rt.cmd.Flags().GetString("email")
			password, _ := rt.cmd.Flags().GetString("password")
			name, _ := rt.cmd.Flags().GetString("name")

			if err := rt.session.Register(rt.ctx(), email, password, name); err != nil {
				return errors.New(entities.Message(err, "Registration failed"))
			}
			rt.printf("Account created for %s. Run 'kanban login' to sign in.\n", email)
			return nil
		}),
	}

	cmd.Flags().String("email", "", "Account email (required)")
	cmd.Flags().String("password", "", "Account password, at least 6 characters (required)")
	cmd.Flags().String("name", "", "Display name")
	return cmd
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(rt *runtime, args []string) error {
			if err := rt.session.Logout(rt.ctx()); err != nil {
				return err
			}
			rt.printf("Signed out\n")
			return nil
		}),
	}
}

// NewWhoamiCommand creates the whoami command
func NewWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(rt *runtime, args []string) error {
			user := rt.session.User()
			if user == nil {
				rt.printf("Not signed in\n")
				return nil
			}
			rt.printf("%s (id %d, %s)\n", user.DisplayName(), user.ID, user.Email)
			return nil
		}),
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print kanban version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "kanban v0.1.0")
		},
	}
}

// requireSession fails fast when a command needs a signed-in user
func requireSession(rt *runtime) error {
	if !rt.session.IsAuthenticated() {
		return errors.New("not signed in; run 'kanban login' first")
	}
	return nil
}
