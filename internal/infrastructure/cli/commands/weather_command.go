package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/juaai/jua/internal/app"
)

// NewWeatherCommand creates the weather command
func NewWeatherCommand(container *app.Container) *cobra.Command {
	var (
		asJSON bool
		cached bool
	)

	cmd := &cobra.Command{
		Use:   "weather [location]",
		Short: "Show the forecast and farming advisories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cached {
				locations := container.WeatherService.CachedLocations()
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), locations)
				}
				if len(locations) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No cached forecasts.")
					return nil
				}
				for _, location := range locations {
					fmt.Fprintln(cmd.OutOrStdout(), location)
				}
				return nil
			}

			location := strings.Join(args, " ")
			if location == "" {
				location = container.PreferencesService.Get().Location
			}

			forecast, fromCache, err := container.WeatherService.Forecast(cmd.Context(), location)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, forecast)
			}

			fmt.Fprintf(out, "Forecast for %s\n", forecast.Location)
			if fromCache {
				fmt.Fprintln(out, "Note: served from cache")
			}
			fmt.Fprintln(out)
			for _, day := range forecast.Days {
				fmt.Fprintf(out, "%-10s %-14s %4.1f/%4.1f°C  rain %3.0f%%  humidity %3.0f%%  wind %4.1f km/h\n",
					day.Date.Format("Mon 2 Jan"),
					day.Condition,
					day.HighC,
					day.LowC,
					day.RainChancePct,
					day.HumidityPct,
					day.WindKPH)
			}
			fmt.Fprintln(out, "\nAdvisories:")
			for _, advisory := range forecast.Advisories {
				fmt.Fprintf(out, " - %s\n", advisory)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the forecast as JSON")
	cmd.Flags().BoolVar(&cached, "cached", false, "List locations with a cached forecast for today")
	return cmd
}
