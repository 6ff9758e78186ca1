package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/juaai/jua/internal/app"
)

// NewTipsCommand creates the tips command
func NewTipsCommand(container *app.Container) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "tips",
		Short: "Show farming tips in your language",
		RunE: func(cmd *cobra.Command, args []string) error {
			if language == "" {
				language = container.PreferencesService.Get().Language
			}
			res, err := container.TipsService.ForLanguage(language)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Fallback {
				fmt.Fprintf(out, "No tips in %q yet; showing %s.\n\n", res.Requested, res.Set.Name)
			}
			for _, tip := range res.Set.Tips {
				fmt.Fprintf(out, "[%s] %s\n    %s\n", tip.Category, tip.Title, tip.Body)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Language code (default from preferences)")
	return cmd
}
