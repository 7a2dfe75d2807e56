package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	ccerrors "github.com/ruminaider/ccmate/internal/errors"
	"github.com/ruminaider/ccmate/internal/mcp"
	"github.com/spf13/cobra"
)

var (
	mcpCwd    string
	mcpGlobal bool
	mcpJSON   bool
	mcpConfig string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Inspect and toggle MCP servers across scopes",
}

var mcpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every MCP server visible from a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := mcpDir()
		if err != nil {
			return err
		}
		servers, err := mcp.NewManager(layout, logger).List(cwd)
		if err != nil {
			return err
		}
		if mcpJSON {
			return printJSON(cmd.OutOrStdout(), servers)
		}
		printServers(cmd.OutOrStdout(), servers)
		return nil
	},
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printServers(w io.Writer, servers []mcp.ServerState) {
	if len(servers) == 0 {
		fmt.Fprintln(w, "No MCP servers configured.")
		return
	}
	for _, s := range servers {
		fmt.Fprintf(w, "%s %-20s %s\n",
			nameStyle.Render(s.Name), stateLabel(s.State), dimStyle.Render(string(s.Scope)+" · "+s.DefinedIn))
	}
}

var mcpEnableCmd = &cobra.Command{
	Use:   "enable NAME",
	Short: "Enable an MCP server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setServer(cmd.OutOrStdout(), args[0], true)
	},
}

var mcpDisableCmd = &cobra.Command{
	Use:   "disable NAME",
	Short: "Disable an MCP server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setServer(cmd.OutOrStdout(), args[0], false)
	},
}

// mcpDir returns the directory project scopes resolve against. --global
// selects the global view, which has no project.
func mcpDir() (string, error) {
	if mcpGlobal {
		if mcpCwd != "" {
			return "", fmt.Errorf("%w: --cwd and --global cannot be combined", ccerrors.ErrMalformedInput)
		}
		return "", nil
	}
	return resolveCwd(mcpCwd)
}

func setServer(w io.Writer, name string, enabled bool) error {
	cwd, err := mcpDir()
	if err != nil {
		return err
	}
	if err := mcp.NewManager(layout, logger).SetEnabled(name, enabled, cwd); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s\n", name, enabledLabel(enabled))
	return nil
}

var mcpAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Register or replace a user-level MCP server",
	Example: `  ccmate mcp add fs --config '{"command":"npx","args":["-y","@modelcontextprotocol/server-filesystem"]}'
  ccmate mcp add fs --config @fs.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := readJSONArg(mcpConfig)
		if err != nil {
			return err
		}
		mgr := mcp.NewManager(layout, logger)
		verb := "Registered"
		if mgr.ServerExists(args[0]) {
			verb = "Replaced"
		}
		if err := mgr.UpsertGlobal(args[0], config); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, args[0])
		return nil
	},
}

var mcpRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove a user-level MCP server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := mcp.NewManager(layout, logger)
		if err := mgr.DeleteGlobal(args[0]); err != nil {
			if s, ok := mgr.GlobalServers()[args[0]]; ok && s.SourceType == mcp.SourceDirect {
				return fmt.Errorf("%w: %s is defined in %s, not in %s", ccerrors.ErrNotFound, args[0], s.DefinedIn, layout.UserMCPFile())
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

var mcpSelectCmd = &cobra.Command{
	Use:   "select",
	Short: "Choose enabled MCP servers interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := mcpDir()
		if err != nil {
			return err
		}
		mgr := mcp.NewManager(layout, logger)
		servers, err := mgr.List(cwd)
		if err != nil {
			return err
		}
		if len(servers) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No MCP servers configured.")
			return nil
		}

		selected, err := runPicker("Enabled MCP servers", serverSections(servers))
		if err != nil {
			return err
		}
		changes := selectionChanges(servers, selected)
		for _, c := range changes {
			if err := mgr.SetEnabled(c.name, c.enabled, cwd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", c.name, enabledLabel(c.enabled))
		}
		if len(changes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
		}
		return nil
	},
}

var scopeOrder = []mcp.Scope{mcp.ScopeUser, mcp.ScopePluginUser, mcp.ScopePluginLocal, mcp.ScopeProject, mcp.ScopeLocal}

// serverSections groups servers by scope with enabled servers preselected.
func serverSections(servers []mcp.ServerState) []pickerSection {
	var sections []pickerSection
	for _, scope := range scopeOrder {
		sec := pickerSection{Header: string(scope)}
		for _, s := range servers {
			if s.Scope != scope {
				continue
			}
			sec.Items = append(sec.Items, pickerItem{
				Key:      s.Name,
				Label:    s.Name,
				Selected: s.State == mcp.StateEnabled,
			})
		}
		sections = append(sections, sec)
	}
	return sections
}

type serverChange struct {
	name    string
	enabled bool
}

// selectionChanges lists the servers whose state differs from the selection.
func selectionChanges(servers []mcp.ServerState, selected []string) []serverChange {
	var changes []serverChange
	for _, s := range servers {
		want := slices.Contains(selected, s.Name)
		if want != (s.State == mcp.StateEnabled) {
			changes = append(changes, serverChange{name: s.Name, enabled: want})
		}
	}
	return changes
}

func init() {
	mcpCmd.PersistentFlags().StringVar(&mcpCwd, "cwd", "", "Directory to resolve project scopes for (default: working directory)")
	mcpCmd.PersistentFlags().BoolVar(&mcpGlobal, "global", false, "Resolve without a project (global view)")
	mcpListCmd.Flags().BoolVar(&mcpJSON, "json", false, "Print servers as JSON")
	mcpAddCmd.Flags().StringVar(&mcpConfig, "config", "", "Server configuration as JSON, or @file")
	mcpAddCmd.MarkFlagRequired("config")

	mcpCmd.AddCommand(mcpListCmd)
	mcpCmd.AddCommand(mcpEnableCmd)
	mcpCmd.AddCommand(mcpDisableCmd)
	mcpCmd.AddCommand(mcpAddCmd)
	mcpCmd.AddCommand(mcpRemoveCmd)
	mcpCmd.AddCommand(mcpSelectCmd)
}
