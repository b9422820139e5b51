package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) newRateLimitCommand() *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Show the search rate limit budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRateLimit(cmd.Context(), cmd.OutOrStdout(), remote)
		},
	}
	cmd.Flags().BoolVarP(&remote, "remote", "r", false, "Ask GitHub for the current search limit and adopt it")
	return cmd
}

func (a *App) runRateLimit(ctx context.Context, w io.Writer, remote bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if remote {
		if err := a.ensureStatusClient(); err != nil {
			return err
		}
		limits, _, err := a.StatusClient.RateLimits(ctx)
		if err != nil {
			return fmt.Errorf("retrieving rate limits: %w", err)
		}
		search := limits.GetSearch()
		if search == nil {
			return fmt.Errorf("retrieving rate limits: no search bucket in response")
		}
		resetIn := search.Reset.Time.Sub(a.Clock.Now())
		if resetIn < 0 {
			resetIn = 0
		}
		a.Tracker.Update(search.Limit, search.Remaining, resetIn)
		fmt.Fprintf(w, "GitHub reports %d of %d search requests left, resetting in %s\n",
			search.Remaining, search.Limit, resetIn.Round(time.Second))
	}

	s := a.Tracker.State()
	fmt.Fprintf(w, "Host:      %s\n", a.Config.Domain.Host)
	fmt.Fprintf(w, "Limit:     %d (default %d)\n", s.Limit, a.Tracker.DefaultLimit())
	fmt.Fprintf(w, "Remaining: %d\n", s.Remaining)
	fmt.Fprintf(w, "Borrowed:  %d\n", s.Borrowed)
	if s.Reset.IsZero() {
		fmt.Fprintln(w, "Resets:    no window yet")
	} else {
		fmt.Fprintf(w, "Resets:    %s\n", s.Reset.Local().Format(time.RFC3339))
	}
	if s.HasReachedLimit() {
		fmt.Fprintln(w, "Status:    limit reached")
	} else {
		fmt.Fprintln(w, "Status:    ok")
	}
	return nil
}
