package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ruminaider/ccmate/internal/plugins"
	"github.com/spf13/cobra"
)

var (
	pluginScope   string
	pluginProject string
	pluginJSON    bool
)

var pluginCmd = &cobra.Command{
	Use:     "plugin",
	Aliases: []string{"plugins"},
	Short:   "List installed plugins and toggle them",
}

var pluginListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed plugins",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := plugins.List(layout)
		if err != nil {
			return err
		}
		if pluginJSON {
			return printJSON(os.Stdout, list)
		}
		printPlugins(os.Stdout, list)
		return nil
	},
}

func printPlugins(w io.Writer, list []plugins.Info) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No plugins installed.")
		return
	}
	for _, p := range list {
		where := p.Scope
		if p.ProjectPath != "" {
			where += " " + p.ProjectPath
		}
		fmt.Fprintf(w, "%s %-8s %s %s\n",
			nameStyle.Render(p.Name), p.Version, enabledLabel(p.Enabled),
			dimStyle.Render(strings.Join(packageNames(p.Packages), ",")+" · "+where))
	}
}

func packageNames(p plugins.Packages) []string {
	var names []string
	if p.HasAgents {
		names = append(names, "agents")
	}
	if p.HasCommands {
		names = append(names, "commands")
	}
	if p.HasSkills {
		names = append(names, "skills")
	}
	if p.HasMCP {
		names = append(names, "mcp")
	}
	if len(names) == 0 {
		names = append(names, "-")
	}
	return names
}

var pluginEnableCmd = &cobra.Command{
	Use:   "enable NAME",
	Short: "Enable a plugin in the settings file for a scope",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setPlugin(args[0], true)
	},
}

var pluginDisableCmd = &cobra.Command{
	Use:   "disable NAME",
	Short: "Disable a plugin in the settings file for a scope",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setPlugin(args[0], false)
	},
}

func setPlugin(name string, enabled bool) error {
	if err := plugins.SetEnabled(layout, name, enabled, pluginScope, pluginProject); err != nil {
		return err
	}
	fmt.Printf("%s %s (%s, marketplace %s)\n", name, enabledLabel(enabled), pluginScope, plugins.Marketplace(name))
	return nil
}

func init() {
	pluginListCmd.Flags().BoolVar(&pluginJSON, "json", false, "Print plugins as JSON")
	for _, c := range []*cobra.Command{pluginEnableCmd, pluginDisableCmd} {
		c.Flags().StringVar(&pluginScope, "scope", plugins.ScopeUser, "Settings scope: user or local")
		c.Flags().StringVar(&pluginProject, "project", "", "Project directory for local scope")
	}

	pluginCmd.AddCommand(pluginListCmd)
	pluginCmd.AddCommand(pluginEnableCmd)
	pluginCmd.AddCommand(pluginDisableCmd)
}
