package main

import (
	"fmt"
	"strings"

	"github.com/ruminaider/ccmate/internal/profiles"
	"github.com/spf13/cobra"
)

var (
	notifyEnable bool
	notifyHooks  []string
)

var notificationCmd = &cobra.Command{
	Use:   "notification",
	Short: "Show or change hook notification settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return notificationShowCmd.RunE(cmd, args)
	},
}

var notificationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show hook notification settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := profiles.NewStore(layout, logger).Notification()
		if err != nil {
			return err
		}
		fmt.Printf("Notifications: %s\n", enabledLabel(n.Enable))
		fmt.Printf("Hooks: %s\n", strings.Join(n.EnabledHooks, ", "))
		return nil
	},
}

var notificationSetCmd = &cobra.Command{
	Use:     "set",
	Short:   "Replace hook notification settings",
	Example: "  ccmate notification set --enable --hooks Notification,Stop",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := profiles.NewStore(layout, logger)
		n, err := store.Notification()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("enable") {
			n.Enable = notifyEnable
		}
		if cmd.Flags().Changed("hooks") {
			n.EnabledHooks = notifyHooks
		}
		if err := store.UpdateNotification(n); err != nil {
			return err
		}
		fmt.Printf("Notifications %s for %s\n", enabledLabel(n.Enable), strings.Join(n.EnabledHooks, ", "))
		return nil
	},
}

func init() {
	notificationSetCmd.Flags().BoolVar(&notifyEnable, "enable", true, "Enable notifications (--enable=false to turn off)")
	notificationSetCmd.Flags().StringSliceVar(&notifyHooks, "hooks", nil, "Hook events that raise notifications")

	notificationCmd.AddCommand(notificationShowCmd)
	notificationCmd.AddCommand(notificationSetCmd)
}
