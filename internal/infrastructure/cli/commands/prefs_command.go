package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/juaai/jua/internal/app"
	"github.com/juaai/jua/internal/domain"
)

// NewPrefsCommand creates the prefs command with all subcommands
func NewPrefsCommand(container *app.Container) *cobra.Command {
	prefsCmd := &cobra.Command{
		Use:   "prefs",
		Short: "View or change language, location and notifications",
	}

	prefsCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show current preferences",
			RunE: func(cmd *cobra.Command, args []string) error {
				displayPreferences(cmd.OutOrStdout(), container.PreferencesService.Get())
				return nil
			},
		},
		newPrefsSetCommand(container),
		&cobra.Command{
			Use:   "reset",
			Short: "Restore default preferences",
			RunE: func(cmd *cobra.Command, args []string) error {
				prefs, err := container.PreferencesService.Reset()
				if err != nil {
					return err
				}
				displayPreferences(cmd.OutOrStdout(), prefs)
				return nil
			},
		},
	)

	return prefsCmd
}

func newPrefsSetCommand(container *app.Container) *cobra.Command {
	var (
		language      string
		location      string
		notifications bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("language") && !flags.Changed("location") && !flags.Changed("notifications") {
				return ErrNothingToSet
			}

			svc := container.PreferencesService
			var (
				prefs domain.UserPreferences
				err   error
			)
			if flags.Changed("language") {
				if prefs, err = svc.SetLanguage(language); err != nil {
					return err
				}
			}
			if flags.Changed("location") {
				if prefs, err = svc.SetLocation(location); err != nil {
					return err
				}
			}
			if flags.Changed("notifications") {
				if prefs, err = svc.SetNotifications(notifications); err != nil {
					return err
				}
			}
			displayPreferences(cmd.OutOrStdout(), prefs)
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "Tip language code (e.g. en, sw)")
	cmd.Flags().StringVar(&location, "location", "", "Weather location")
	cmd.Flags().BoolVar(&notifications, "notifications", true, "Enable notifications")
	return cmd
}

func displayPreferences(out io.Writer, prefs domain.UserPreferences) {
	fmt.Fprintf(out, "Language: %s\nLocation: %s\nNotifications: %t\n",
		prefs.Language, prefs.Location, prefs.NotificationsEnabled)
}
