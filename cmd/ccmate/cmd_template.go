package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ruminaider/ccmate/internal/mcp"
	"github.com/ruminaider/ccmate/internal/templates"
	"github.com/spf13/cobra"
)

var templateYes bool

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"templates"},
	Short:   "Install and remove agent, command, skill and MCP templates",
}

func newTracker() *templates.Tracker {
	return templates.NewTracker(layout, mcp.NewManager(layout, logger), logger)
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := templates.LoadCatalog()
		if err != nil {
			return err
		}
		installed, err := newTracker().Installed()
		if err != nil {
			return err
		}
		printCatalog(os.Stdout, catalog.All(), installed)
		return nil
	},
}

func printCatalog(w io.Writer, all []templates.Template, installed []templates.Item) {
	done := make(map[string]bool)
	for _, item := range installed {
		done[item.Type+"/"+item.ID] = true
	}
	kind := ""
	for _, t := range all {
		if t.Type != kind {
			if kind != "" {
				fmt.Fprintln(w)
			}
			kind = t.Type
			fmt.Fprintln(w, headerStyle.Render(kind))
		}
		mark := "  "
		if done[t.Type+"/"+t.ID] {
			mark = enabledStyle.Render("✓ ")
		}
		fmt.Fprintf(w, "  %s%s %s\n", mark, nameStyle.Render(t.ID), dimStyle.Render(t.Description))
	}
}

var templateInstalledCmd = &cobra.Command{
	Use:   "installed",
	Short: "List installed templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := newTracker().Installed()
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No templates installed.")
			return nil
		}
		for _, item := range items {
			fmt.Printf("%-8s %s %s\n", item.Type, nameStyle.Render(item.ID), dimStyle.Render(item.TargetPath+" · "+item.InstalledAt))
		}
		return nil
	},
}

var templateInstallCmd = &cobra.Command{
	Use:     "install TYPE ID",
	Short:   "Install a catalog template",
	Example: "  ccmate template install agent security-reviewer\n  ccmate template install mcp semgrep",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := templates.LoadCatalog()
		if err != nil {
			return err
		}
		payload, err := catalog.PayloadFor(args[0], args[1])
		if err != nil {
			return err
		}
		if err := newTracker().Install(payload); err != nil {
			return err
		}
		fmt.Printf("Installed %s %s\n", args[0], args[1])
		return nil
	},
}

var templateUninstallCmd = &cobra.Command{
	Use:   "uninstall TYPE ID",
	Short: "Remove an installed template",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := confirm(fmt.Sprintf("Uninstall %s %s?", args[0], args[1]), "Installed files are deleted.")
		if err != nil || !ok {
			return err
		}
		if err := newTracker().Uninstall(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Uninstalled %s %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	templateUninstallCmd.Flags().BoolVarP(&templateYes, "yes", "y", false, "Skip confirmation")

	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateInstalledCmd)
	templateCmd.AddCommand(templateInstallCmd)
	templateCmd.AddCommand(templateUninstallCmd)
}
