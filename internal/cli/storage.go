// Package cli storage quota commands.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newStorageCmd creates the 'storage' command group.
func newStorageCmd() *cobra.Command {
	storageCmd := &cobra.Command{
		Use:   "storage",
		Short: "Storage quota (usage, breakdown)",
	}

	storageCmd.AddCommand(newStorageUsageCmd())
	storageCmd.AddCommand(newStorageBreakdownCmd())

	return storageCmd
}

// newStorageUsageCmd creates the 'storage usage' command.
func newStorageUsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show storage usage against the quota",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			usage, err := a.storage.Usage(GetContext())
			if err != nil {
				return fmt.Errorf("failed to get storage usage: %w", err)
			}

			// The totals are server-computed; print them as received.
			width := 40
			filled := usage.PercentageUsed * width / 100
			bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

			fmt.Printf("  %s %d%%\n", bar, usage.PercentageUsed)
			fmt.Printf("  Used:  %s (%s GB)\n", usage.ReadableUsed, usage.UsedGB)
			fmt.Printf("  Total: %s\n", usage.ReadableTotal)
			return nil
		},
	}
}

// newStorageBreakdownCmd creates the 'storage breakdown' command.
func newStorageBreakdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "breakdown",
		Short: "List the files counted against the quota",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireAuth(); err != nil {
				return err
			}

			files, err := a.storage.Breakdown(GetContext())
			if err != nil {
				return fmt.Errorf("failed to get storage breakdown: %w", err)
			}
			printFileTable(files)
			return nil
		},
	}
}
