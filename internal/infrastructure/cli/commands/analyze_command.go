package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/juaai/jua/internal/app"
	"github.com/juaai/jua/internal/application/analysis"
	"github.com/juaai/jua/internal/domain"
)

// NewAnalyzeCommand creates the analyze command
func NewAnalyzeCommand(container *app.Container) *cobra.Command {
	var (
		asJSON  bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Check a crop leaf photo for disease",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return runAnalysis(ctx, cmd.OutOrStdout(), container, args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the analysis record as JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Stop waiting after this long (the result is still saved to history)")
	return cmd
}

func runAnalysis(ctx context.Context, out io.Writer, container *app.Container, path string, asJSON bool) error {
	if container.AnalysisService == nil {
		return ErrAnalysisServiceUnavailable
	}

	image, err := readLeafImage(path)
	if err != nil {
		return err
	}
	if err := analysis.ValidateImage(image); err != nil {
		return err
	}

	outcome, err := container.AnalysisService.Analyze(ctx, image)
	if outcome.Record.ID == "" && err != nil {
		return fmt.Errorf("analysis interrupted (it will still appear in history): %w", err)
	}

	if asJSON {
		if jsonErr := writeJSON(out, outcome.Record); jsonErr != nil {
			return jsonErr
		}
	} else {
		renderAnalysis(out, outcome)
	}
	return err
}

func readLeafImage(path string) (domain.LeafImage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.LeafImage{}, err
	}
	if info.Size() > domain.MaxImageBytes {
		return domain.LeafImage{}, fmt.Errorf("%w: %s is larger than 16MB", domain.ErrInvalidImage, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.LeafImage{}, err
	}
	return domain.LeafImage{
		Filename:    filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}
