package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/stahnma/gh-repofeed/internal/cache"
	"github.com/stahnma/gh-repofeed/internal/clock"
	"github.com/stahnma/gh-repofeed/internal/config"
	ghub "github.com/stahnma/gh-repofeed/internal/github"
	"github.com/stahnma/gh-repofeed/internal/ratelimit"
	"go.uber.org/zap"
)

const httpTimeout = 30 * time.Second

// App holds shared application state.
type App struct {
	Config       config.Config
	Cache        *cache.Cache
	Tracker      *ratelimit.Tracker
	Client       ghub.Client
	StatusClient ghub.StatusClient
	HTTPClient   ghub.Doer
	Clock        clock.Clock
	Logger       *zap.Logger
	GitSHA       string
	GitDirty     string
}

// NewApp creates a new App from the given configuration. The cache and rate
// limit tracker are set up by Prepare.
func NewApp(cfg config.Config, logger *zap.Logger, gitSHA, gitDirty string) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		Config:   cfg,
		Clock:    clock.Real(),
		Logger:   logger,
		GitSHA:   gitSHA,
		GitDirty: gitDirty,
	}
}

// Prepare loads configFile over the current configuration when it is set,
// then loads the cache and restores the last known rate-limit window for the
// configured API host. Fields that are already set are kept.
func (a *App) Prepare(configFile string) error {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg.NoCache = a.Config.NoCache
		a.Config = cfg
	}
	if a.Logger == nil {
		a.Logger = zap.NewNop()
	}
	if a.Clock == nil {
		a.Clock = clock.Real()
	}
	if a.Cache == nil {
		c, err := cache.LoadFromFile(a.Config.CacheFile, a.Logger)
		if err != nil {
			return fmt.Errorf("loading cache: %w", err)
		}
		a.Cache = c
	}
	if a.Tracker == nil {
		a.Tracker = ratelimit.New(a.Config.RateLimit, a.Clock)
		if !a.Config.NoCache {
			if s, ok := a.Cache.RateLimit(a.Config.Domain.Host); ok {
				a.Tracker.Restore(s)
				a.Logger.Debug("restored rate limit",
					zap.String("host", a.Config.Domain.Host),
					zap.Int("limit", s.Limit),
					zap.Int("remaining", s.Remaining),
					zap.Time("reset", s.Reset))
			}
		}
	}
	return nil
}

// ensureClient creates the search client if it doesn't exist.
func (a *App) ensureClient() error {
	if a.Client != nil {
		return nil
	}
	httpClient := a.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: httpTimeout}
	}
	client, err := ghub.NewClient(ghub.Config{
		Domain:     a.Config.Domain,
		HTTPClient: httpClient,
		Limiter:    a.Tracker,
		Clock:      a.Clock,
		Logger:     a.Logger,
	})
	if err != nil {
		return fmt.Errorf("creating search client: %w", err)
	}
	a.Client = client
	return nil
}

// ensureStatusClient creates the rate-limit status client if it doesn't exist.
func (a *App) ensureStatusClient() error {
	if a.StatusClient != nil {
		return nil
	}
	client, err := ghub.NewStatusClient(a.Config.Domain, &http.Client{Timeout: httpTimeout})
	if err != nil {
		return fmt.Errorf("creating status client: %w", err)
	}
	a.StatusClient = client
	return nil
}

// SaveCache stores the tracker's window and saves the cache to disk if
// caching is enabled.
func (a *App) SaveCache() error {
	if a.Config.NoCache || a.Cache == nil {
		return nil
	}
	if a.Tracker != nil {
		a.Cache.SaveRateLimit(a.Config.Domain.Host, a.Tracker.State())
	}
	return a.Cache.SaveToFile(a.Config.CacheFile)
}

// Run executes the command line in args and then saves the cache, whether or
// not the command failed.
func (a *App) Run(args []string, stdout io.Writer) error {
	rootCmd := a.NewRootCommand()
	rootCmd.SetArgs(args)
	if stdout != nil {
		rootCmd.SetOut(stdout)
	}
	runErr := rootCmd.Execute()
	if err := a.SaveCache(); err != nil {
		saveErr := fmt.Errorf("saving cache: %w", err)
		if runErr == nil {
			return saveErr
		}
		a.Logger.Warn("saving cache after failed command", zap.Error(err))
	}
	return runErr
}

// searchPage runs one search and waits for its completion.
func (a *App) searchPage(ctx context.Context, q ghub.SearchQuery) (*ghub.SearchResultPage, error) {
	if err := a.ensureClient(); err != nil {
		return nil, err
	}
	type result struct {
		page *ghub.SearchResultPage
		err  error
	}
	done := make(chan result, 1)
	call := a.Client.SearchRepositories(ctx, q, func(p *ghub.SearchResultPage, err error) {
		done <- result{p, err}
	})
	select {
	case r := <-done:
		return r.page, a.explain(r.err)
	case <-ctx.Done():
		call.Cancel()
		r := <-done
		return r.page, a.explain(r.err)
	}
}

// explain adds a hint to rate-limit failures: the local window reset time for
// client-side denials, the status command for server-side ones.
func (a *App) explain(err error) error {
	if err == nil {
		return nil
	}
	if ghub.IsServerRateLimited(err) {
		return fmt.Errorf("%w (GitHub rate limit hit; check with \"ratelimit --remote\")", err)
	}
	if ghub.KindOf(err) != ghub.KindRateLimitExceeded || a.Tracker == nil {
		return err
	}
	reset := a.Tracker.State().Reset
	if reset.IsZero() {
		return err
	}
	return fmt.Errorf("%w (window resets at %s)", err, reset.Local().Format(time.Kitchen))
}

// NewRootCommand creates the root cobra command with all subcommands.
func (a *App) NewRootCommand() *cobra.Command {
	var configFile string
	rootCmd := &cobra.Command{
		Use:   "gh-repofeed",
		Short: "Browse the most starred GitHub repositories for a language, page by page.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.Prepare(configFile)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().BoolVar(&a.Config.NoCache, "no-cache", a.Config.NoCache, "Disable caching")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file")

	rootCmd.AddCommand(a.newSearchCommand())
	rootCmd.AddCommand(a.newFeedCommand())
	rootCmd.AddCommand(a.newExportCommand())
	rootCmd.AddCommand(a.newRateLimitCommand())
	rootCmd.AddCommand(a.newVersionCommand())
	rootCmd.AddCommand(a.newClearCacheCommand())

	return rootCmd
}
