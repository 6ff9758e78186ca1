package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/juaai/jua/internal/app"
	"github.com/juaai/jua/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose   bool
	Ephemeral bool
}

// NewRootCmd wires the cobra root command. The returned cleanup waits for
// in-flight analyses and closes storage.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, func() error, error) {
	container, err := app.BuildContainer(ctx, app.Options{Verbose: opts.Verbose, Ephemeral: opts.Ephemeral})
	if err != nil {
		return nil, nil, err
	}
	return newRootCmd(container), container.Close, nil
}

func newRootCmd(container *app.Container) *cobra.Command {
	root := &cobra.Command{
		Use:   "jua",
		Short: "jua - crop leaf health assistant",
		Long:  "jua checks crop leaf photos for disease, keeps a history of results and serves weather and farming tips.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(commands.NewAnalyzeCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewCacheCommand(container))
	root.AddCommand(commands.NewWeatherCommand(container))
	root.AddCommand(commands.NewTipsCommand(container))
	root.AddCommand(commands.NewDiseasesCommand(container))
	root.AddCommand(commands.NewPrefsCommand(container))
	root.AddCommand(commands.NewStatusCommand(container))
	root.AddCommand(commands.NewServeCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root
}
