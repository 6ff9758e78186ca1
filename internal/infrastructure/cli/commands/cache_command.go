package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/juaai/jua/internal/app"
	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/infrastructure/cache"
)

// NewCacheCommand creates the cache command with all subcommands
func NewCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear cached weather and tips",
	}

	cacheCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List cache entries",
			RunE: func(cmd *cobra.Command, args []string) error {
				return listCacheEntries(cmd.OutOrStdout(), container, time.Now())
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cache entry",
			RunE: func(cmd *cobra.Command, args []string) error {
				if !cache.ClearAll(container.Adapter) {
					return fmt.Errorf("failed to clear some cache entries")
				}
				fmt.Fprintln(cmd.OutOrStdout(), MsgCacheCleared)
				return nil
			},
		},
	)

	return cacheCmd
}

func listCacheEntries(out io.Writer, container *app.Container, now time.Time) error {
	entries := cache.Inspect(container.Adapter, now)
	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoCachedEntries)
		return nil
	}

	for _, entry := range entries {
		state := "live"
		if entry.Expired {
			state = "expired"
		}
		fmt.Fprintf(out, "%s | stored %s | expires %s | %s\n",
			strings.TrimPrefix(entry.Namespace, domain.NamespaceCachePrefix),
			entry.StoredAt.Format(TimestampFormat),
			entry.ExpiresAt.Format(TimestampFormat),
			state)
	}
	return nil
}
