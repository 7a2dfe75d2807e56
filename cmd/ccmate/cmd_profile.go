package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/ruminaider/ccmate/internal/profiles"
	"github.com/spf13/cobra"
)

var (
	profileID       string
	profileTitle    string
	profileSettings string
	profileNewData  string
	profileYes      bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage settings profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List settings profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := profiles.NewStore(layout, logger).List()
		if err != nil {
			return err
		}
		printProfiles(os.Stdout, list)
		return nil
	},
}

func printProfiles(w io.Writer, list []profiles.Profile) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No profiles. Create one with: ccmate profile create TITLE --settings '{...}'")
		return
	}
	for _, p := range list {
		marker := "  "
		title := p.Title
		if p.Using {
			marker = "* "
			title = activeStyle.Render(p.Title)
		}
		fmt.Fprintf(w, "%s%s %s %s\n", marker, dimStyle.Render(p.ID), title, dimStyle.Render("("+profiles.Summary(p)+")"))
	}
}

var profileShowCmd = &cobra.Command{
	Use:   "show [ID]",
	Short: "Show a profile's settings (default: the active profile)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := profiles.NewStore(layout, logger)
		var p profiles.Profile
		if len(args) == 1 {
			var err error
			if p, err = store.Get(args[0]); err != nil {
				return err
			}
		} else {
			active, err := store.Active()
			if err != nil {
				return err
			}
			if active == nil {
				fmt.Println("No active profile.")
				return nil
			}
			p = *active
		}
		fmt.Printf("%s %s\n", headerStyle.Render(p.Title), dimStyle.Render(p.ID))
		var settings any
		if err := json.Unmarshal(p.Settings, &settings); err != nil {
			return err
		}
		return printJSON(os.Stdout, settings)
	},
}

var profileCreateCmd = &cobra.Command{
	Use:   "create TITLE",
	Short: "Create a settings profile",
	Long: `Create a settings profile from a JSON settings payload.

The first profile ever created becomes active. If ~/.claude/settings.json
already exists it is saved first as "Original Config".`,
	Example: `  ccmate profile create "Work proxy" --settings '{"env":{"ANTHROPIC_BASE_URL":"https://proxy"}}'
  ccmate profile create Personal --settings @personal.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := readJSONArg(profileSettings)
		if err != nil {
			return err
		}
		p, err := profiles.NewStore(layout, logger).Create(profileID, args[0], settings)
		if err != nil {
			return err
		}
		fmt.Printf("Created profile %s (%s)\n", p.Title, p.ID)
		if p.Using {
			fmt.Println("Profile is active.")
		}
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change a profile's title or settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := profiles.NewStore(layout, logger)
		p, err := store.Get(args[0])
		if err != nil {
			return err
		}
		title := p.Title
		if cmd.Flags().Changed("title") {
			title = profileTitle
		}
		settings := p.Settings
		if cmd.Flags().Changed("settings") {
			if settings, err = readJSONArg(profileNewData); err != nil {
				return err
			}
		}
		if _, err := store.Update(p.ID, title, settings); err != nil {
			return err
		}
		fmt.Printf("Updated profile %s\n", title)
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := profiles.NewStore(layout, logger)
		p, err := store.Get(args[0])
		if err != nil {
			return err
		}
		ok, err := confirm(fmt.Sprintf("Delete profile %q?", p.Title), "The live settings file is left unchanged.")
		if err != nil || !ok {
			return err
		}
		if err := store.Delete(p.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted profile %s\n", p.Title)
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use [ID]",
	Short: "Activate a profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := profiles.NewStore(layout, logger)
		id := ""
		if len(args) == 1 {
			id = args[0]
		} else {
			list, err := store.List()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("No profiles to choose from.")
				return nil
			}
			if id, err = chooseProfile(list); err != nil {
				return err
			}
		}
		if err := store.SetActive(id); err != nil {
			return err
		}
		p, err := store.Get(id)
		if err != nil {
			return err
		}
		fmt.Printf("Switched to %s\n", activeStyle.Render(p.Title))
		return nil
	},
}

func chooseProfile(list []profiles.Profile) (string, error) {
	var options []huh.Option[string]
	choice := list[0].ID
	for _, p := range list {
		options = append(options, huh.NewOption(p.Title+" ("+profiles.Summary(p)+")", p.ID))
		if p.Using {
			choice = p.ID
		}
	}
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which profile should be active?").
				Options(options...).
				Value(&choice),
		),
	).Run()
	if err != nil {
		return "", err
	}
	return choice, nil
}

var profileResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Deactivate all profiles and clear env in the live settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := confirm("Deactivate all profiles?", "Clears env in ~/.claude/settings.json. Other settings are kept.")
		if err != nil || !ok {
			return err
		}
		if err := profiles.NewStore(layout, logger).ResetToOriginal(); err != nil {
			return err
		}
		fmt.Println("All profiles deactivated.")
		return nil
	},
}

// confirm asks a yes/no question unless --yes was given.
func confirm(title, description string) (bool, error) {
	if profileYes || templateYes {
		return true, nil
	}
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Value(&ok),
		),
	).Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func init() {
	profileCreateCmd.Flags().StringVar(&profileSettings, "settings", "{}", "Settings payload as JSON, or @file")
	profileCreateCmd.Flags().StringVar(&profileID, "id", "", "Profile id (default: generated)")
	profileUpdateCmd.Flags().StringVar(&profileTitle, "title", "", "New title")
	profileUpdateCmd.Flags().StringVar(&profileNewData, "settings", "", "Replacement settings payload as JSON, or @file")
	profileDeleteCmd.Flags().BoolVarP(&profileYes, "yes", "y", false, "Skip confirmation")
	profileResetCmd.Flags().BoolVarP(&profileYes, "yes", "y", false, "Skip confirmation")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileUseCmd)
	profileCmd.AddCommand(profileResetCmd)
}
