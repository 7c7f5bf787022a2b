// Package cli sharing commands.
package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cloudbox/cloudbox-cli/internal/models"
)

// newShareCmd creates the 'share' command group.
func newShareCmd() *cobra.Command {
	shareCmd := &cobra.Command{
		Use:   "share",
		Short: "Sharing operations (grant, list, revoke)",
		Long:  `Commands for sharing files with other CloudBox users.`,
	}

	shareCmd.AddCommand(newShareGrantCmd())
	shareCmd.AddCommand(newShareListCmd())
	shareCmd.AddCommand(newShareRevokeCmd())
	shareCmd.AddCommand(newShareWithMeCmd())
	shareCmd.AddCommand(newShareByMeCmd())

	return shareCmd
}

func printShareTable(shares []models.Share) {
	if len(shares) == 0 {
		fmt.Println("(no shares)")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILE\tUSER\tPERMISSION")
	for _, s := range shares {
		name := ""
		if s.File != nil {
			name = s.File.FileName
		}
		email := ""
		if s.SharedWith != nil {
			email = s.SharedWith.Email
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, name, email, s.Permission)
	}
	w.Flush()
}

// newShareGrantCmd creates the 'share grant' command.
func newShareGrantCmd() *cobra.Command {
	var email string
	var permission string

	cmd := &cobra.Command{
		Use:   "grant <file-id>",
		Short: "Share a file with another user",
		Long: `Grant a user access to a file.

Example:
  cloudbox share grant <file-id> --email bob@example.com
  cloudbox share grant <file-id> --email bob@example.com --permission EDITOR`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			perm := models.Permission(strings.ToUpper(permission))
			if perm != models.PermissionViewer && perm != models.PermissionEditor {
				return fmt.Errorf("permission must be VIEWER or EDITOR, got %q", permission)
			}

			share, err := a.shares.Create(GetContext(), args[0], email, perm)
			if err != nil {
				return fmt.Errorf("failed to share: %w", err)
			}
			fmt.Printf("✓ Shared with %s (%s)\n", email, share.Permission)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Email of the user to share with (required)")
	cmd.Flags().StringVarP(&permission, "permission", "p", "VIEWER", "VIEWER or EDITOR")
	cmd.MarkFlagRequired("email")

	return cmd
}

// newShareListCmd creates the 'share list' command.
func newShareListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <file-id>",
		Short: "List who a file is shared with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			shares, err := a.shares.ForFile(GetContext(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list shares: %w", err)
			}
			printShareTable(shares)
			return nil
		},
	}
}

// newShareRevokeCmd creates the 'share revoke' command.
func newShareRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <share-id>",
		Short: "Revoke a share",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			if err := a.shares.Revoke(GetContext(), args[0]); err != nil {
				return fmt.Errorf("failed to revoke share: %w", err)
			}
			fmt.Println("✓ Share revoked")
			return nil
		},
	}
}

// newShareWithMeCmd creates the 'share with-me' command.
func newShareWithMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "with-me",
		Short: "List files others have shared with you",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			shares, err := a.shares.SharedWithMe(GetContext())
			if err != nil {
				return fmt.Errorf("failed to list shares: %w", err)
			}
			printShareTable(shares)
			return nil
		},
	}
}

// newShareByMeCmd creates the 'share by-me' command.
func newShareByMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "by-me",
		Short: "List files you have shared",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			shares, err := a.shares.SharedByMe(GetContext())
			if err != nil {
				return fmt.Errorf("failed to list shares: %w", err)
			}
			printShareTable(shares)
			return nil
		},
	}
}
