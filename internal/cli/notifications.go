// Package cli notification commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cloudbox/cloudbox-cli/internal/events"
	"github.com/cloudbox/cloudbox-cli/internal/notify"
)

// newNotificationsCmd creates the 'notifications' command group.
func newNotificationsCmd() *cobra.Command {
	notificationsCmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notify"},
		Short:   "Notifications (list, read, watch)",
	}

	notificationsCmd.AddCommand(newNotificationsListCmd())
	notificationsCmd.AddCommand(newNotificationsReadCmd())
	notificationsCmd.AddCommand(newNotificationsWatchCmd())

	return notificationsCmd
}

// newNotificationsListCmd creates the 'notifications list' command.
func newNotificationsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}
			ctx := GetContext()

			entries, err := a.notifications.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list notifications: %w", err)
			}
			unread, err := a.notifications.UnreadCount(ctx)
			if err != nil {
				return fmt.Errorf("failed to get unread count: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println("No notifications.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tTITLE\tMESSAGE\tREAD")
			for _, n := range entries {
				read := "yes"
				if !n.IsRead {
					read = "NO"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", n.ID, n.Type, n.Title, n.Message, read)
			}
			w.Flush()
			fmt.Printf("\n%d unread\n", unread)
			return nil
		},
	}
}

// newNotificationsReadCmd creates the 'notifications read' command.
func newNotificationsReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark a notification as read",
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

			if err := a.notifications.MarkRead(GetContext(), args[0]); err != nil {
				return fmt.Errorf("failed to mark as read: %w", err)
			}
			fmt.Println("✓ Marked as read")
			return nil
		},
	}
}

// newNotificationsWatchCmd creates the 'notifications watch' command.
func newNotificationsWatchCmd() *cobra.Command {
	var toasts bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll for new notifications until interrupted",
		Long: `Watch the notification feed and print new entries as they arrive.
With --toast, each new entry also raises a desktop notification.
Stops on Ctrl+C or when the session becomes invalid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			showToasts := toasts || a.cfg.Notifications.Enabled
			poller := notify.NewPoller(a.notifications, a.bus, GetLogger(), a.cfg.PollInterval(), showToasts)

			incoming := a.bus.Subscribe(events.EventNotification)
			go func() {
				for ev := range incoming {
					if ne, ok := ev.(*events.NotificationEvent); ok {
						fmt.Printf("[%s] %s: %s\n", ne.Kind, ne.Title, ne.Message)
					}
				}
			}()

			fmt.Printf("Watching for notifications every %s (Ctrl+C to stop)...\n", a.cfg.PollInterval())
			if err := poller.Run(GetContext()); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&toasts, "toast", false, "Raise desktop notifications")
	return cmd
}
