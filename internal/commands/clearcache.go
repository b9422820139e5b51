package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stahnma/gh-repofeed/internal/ratelimit"
)

func (a *App) newClearCacheCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clearcache",
		Short: "Forget the saved rate limit window",
		RunE: func(cmd *cobra.Command, args []string) error {
			n := a.Cache.ItemCount()
			a.Cache.Flush()
			a.Tracker = ratelimit.New(a.Config.RateLimit, a.Clock)
			if err := a.Cache.SaveToFile(a.Config.CacheFile); err != nil {
				return fmt.Errorf("saving cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared (%d items).\n", n)
			return nil
		},
	}
}
