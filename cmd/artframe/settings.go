package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/artframe/internal/config"
	"github.com/muurk/artframe/internal/ui"
)

var (
	setDeviceAddress string
	setImageFolder   string
	setTheme         string
)

func init() {
	settingsSetCmd.Flags().StringVar(&setDeviceAddress, "tv-ip", "", "TV IPv4 address")
	settingsSetCmd.Flags().StringVar(&setImageFolder, "image-folder", "", "Image folder on the backend machine")
	settingsSetCmd.Flags().StringVar(&setTheme, "theme", "", "Panel theme (dark, light)")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the saved settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		rc := ui.RunnerConfig{
			Title:   "Settings",
			Command: "artframe settings show",
			Params:  []ui.Param{{Key: "Backend", Value: a.client.BaseURL}},
		}
		return run(cmd, rc, "Saved settings", func() ([]ui.Param, error) {
			s, err := a.store.Get()
			if err != nil {
				return nil, err
			}
			return []ui.Param{
				{Key: "TV IP", Value: orUnset(s.DeviceAddress)},
				{Key: "Folder", Value: orUnset(s.ImageFolderPath)},
				{Key: "Theme", Value: string(s.ThemeMode)},
				{Key: "File", Value: a.store.Path()},
			}, nil
		})
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the saved settings",
	Long: `Change the saved settings. Only the flags given are changed.

The TV IP and image folder are also sent to the backend; a backend that
does not accept them is logged and otherwise ignored.`,
	Example: `  artframe settings set --tv-ip 192.168.1.40
  artframe settings set --image-folder ~/Pictures/art --theme light`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		changeDevice := flags.Changed("tv-ip")
		changeFolder := flags.Changed("image-folder")
		changeTheme := flags.Changed("theme")

		if !changeDevice && !changeFolder && !changeTheme {
			return errors.New("nothing to change: set --tv-ip, --image-folder or --theme")
		}

		var theme config.ThemeMode
		if changeTheme {
			var err error
			if theme, err = parseTheme(setTheme); err != nil {
				return err
			}
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		rc := ui.RunnerConfig{
			Title:   "Settings",
			Command: "artframe settings set",
			Params:  a.params(),
			Wait:    "Saving settings",
		}
		return run(cmd, rc, "Settings saved", func() ([]ui.Param, error) {
			current, err := a.store.Get()
			if err != nil {
				return nil, err
			}

			var details []ui.Param
			if changeDevice || changeFolder {
				address, folder := current.DeviceAddress, current.ImageFolderPath
				if changeDevice {
					address = strings.TrimSpace(setDeviceAddress)
				}
				if changeFolder {
					folder = strings.TrimSpace(setImageFolder)
				}
				if err := a.ctrl.SaveSettings(cmd.Context(), address, folder); err != nil {
					return nil, err
				}
				details = append(details,
					ui.Param{Key: "TV IP", Value: orUnset(address)},
					ui.Param{Key: "Folder", Value: orUnset(folder)},
				)
			}

			if changeTheme {
				if err := a.ctrl.SetTheme(theme); err != nil {
					return details, err
				}
				details = append(details, ui.Param{Key: "Theme", Value: string(theme)})
			}
			return details, nil
		})
	},
}

// parseTheme validates a --theme value
func parseTheme(value string) (config.ThemeMode, error) {
	switch mode := config.ThemeMode(strings.ToLower(strings.TrimSpace(value))); mode {
	case config.ThemeDark, config.ThemeLight:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid theme %q: use dark or light", value)
	}
}

func orUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
