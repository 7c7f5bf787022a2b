package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cloudbox/cloudbox-cli/internal/session"
)

// newLoginCmd creates the 'login' command.
func newLoginCmd() *cobra.Command {
	var email string
	var googleToken string
	var noSave bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the CloudBox server",
		Long: `Authenticate against the CloudBox server and save the session token.

Example:
  cloudbox login --email alice@example.com
  cloudbox login --google-token <id-token>`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			ctx := GetContext()

			var token string
			if googleToken != "" {
				resp, err := a.auth.GoogleLogin(ctx, googleToken)
				if err != nil {
					return fmt.Errorf("login failed: %w", err)
				}
				token = resp.Token
			} else {
				if email == "" {
					email, err = promptLine("Email: ")
					if err != nil {
						return err
					}
				}
				password, err := promptPassword("Password: ")
				if err != nil {
					return err
				}
				resp, err := a.auth.Login(ctx, email, password)
				if err != nil {
					return fmt.Errorf("login failed: %w", err)
				}
				token = resp.Token
			}

			a.sessions.Set(token)
			if !noSave {
				if err := session.SaveToken(a.configDir, token); err != nil {
					return err
				}
			}

			GetLogger().Info().Str("email", email).Msg("logged in")
			fmt.Println("✓ Logged in")
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&googleToken, "google-token", "", "Google identity token for SSO login")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not persist the session token")

	return cmd
}

// newRegisterCmd creates the 'register' command.
func newRegisterCmd() *cobra.Command {
	var name string
	var email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a CloudBox account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if name == "" {
				name, err = promptLine("Name: ")
				if err != nil {
					return err
				}
			}
			if email == "" {
				email, err = promptLine("Email: ")
				if err != nil {
					return err
				}
			}
			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}
			confirm, err := promptPassword("Confirm password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return fmt.Errorf("passwords do not match")
			}

			if err := a.auth.Register(GetContext(), name, email, password); err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}

			fmt.Println("✓ Account created, now run 'cloudbox login'")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (prompted if omitted)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (prompted if omitted)")

	return cmd
}

// newLogoutCmd creates the 'logout' command.
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the saved session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			a.sessions.Clear(session.ReasonLogout)
			if err := session.RemoveToken(a.configDir); err != nil {
				return err
			}

			fmt.Println("✓ Logged out")
			return nil
		},
	}
}

// promptLine reads one trimmed line from stdin.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// promptPassword reads a password without echoing it.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(data), nil
}
