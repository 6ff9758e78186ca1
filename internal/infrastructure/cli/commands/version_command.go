package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/juaai/jua/internal/infrastructure/server"
	"github.com/juaai/jua/internal/version"
)

// NewVersionCommand prints build metadata and the bundled mock model version.
func NewVersionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build and model versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			build := version.Current()
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, struct {
					version.Build
					ModelVersion string `json:"model_version"`
				}{build, server.ModelVersion})
			}

			fmt.Fprintf(out, "jua %s (%s, %s)\n", build.Version, build.Platform, build.GoVersion)
			if build.Commit != "" || build.BuildDate != "" {
				fmt.Fprintf(out, "  built from %s on %s\n", orUnknown(build.Commit), orUnknown(build.BuildDate))
			}
			fmt.Fprintf(out, "  local backend model: %s %s\n", server.ModelType, server.ModelVersion)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON")
	return cmd
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
