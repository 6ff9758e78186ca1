package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/juaai/jua/internal/app"
	"github.com/juaai/jua/internal/domain"
)

// NewDiseasesCommand creates the diseases command
func NewDiseasesCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "diseases [name]",
		Short: "Browse the crop disease reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			diseases := container.Catalog.Diseases()

			if len(args) == 0 {
				for _, d := range diseases {
					fmt.Fprintf(out, "%-24s %-10s %s\n", d.Name, d.Crop, strings.ToUpper(string(d.Severity)))
				}
				return nil
			}

			name := strings.Join(args, " ")
			d, ok := domain.FindDisease(diseases, name)
			if !ok {
				return fmt.Errorf("unknown disease %q", name)
			}
			fmt.Fprintf(out, "%s (%s)\nSeverity: %s\n\n%s\n", d.Name, d.Crop, strings.ToUpper(string(d.Severity)), d.Description)
			renderList(out, "Symptoms", d.Symptoms)
			renderList(out, "Treatment", d.Treatments)
			renderList(out, "Prevention", d.Prevention)
			return nil
		},
	}
}
