package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/stahnma/gh-repofeed/internal/format"
)

// ExportOptions selects what Export loads and how it is written.
type ExportOptions struct {
	Language string
	// Pages defaults to Config.ExportPages.
	Pages int
	// Format is "json" (default) or "yaml".
	Format string
}

func (a *App) newExportCommand() *cobra.Command {
	var opts ExportOptions
	cmd := &cobra.Command{
		Use:   "export [flags]",
		Short: "Export loaded repositories as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Export(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Language, "language", "l", "", "Programming language to export")
	cmd.Flags().IntVarP(&opts.Pages, "pages", "n", 0, "Number of pages to load (default from config)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "json", "Output format, json or yaml")
	return cmd
}

// Export loads pages through a feed and writes them to w.
func (a *App) Export(ctx context.Context, w io.Writer, opts ExportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	write := format.WriteJSON
	switch opts.Format {
	case "", "json":
	case "yaml", "yml":
		write = format.WriteYAML
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", opts.Format)
	}
	pages := opts.Pages
	if pages <= 0 {
		pages = a.Config.ExportPages
	}
	if pages <= 0 {
		pages = 1
	}

	p, err := a.newPager(opts.Language)
	if err != nil {
		return err
	}
	defer p.close()

	if err := a.loadPages(ctx, p, pages, nil); err != nil {
		return err
	}

	doc := format.NewExport(p.feed.Language(), p.feed.CurrentPage(), p.feed.Items(), a.Clock.Now())
	return write(w, doc, a.Config.SlackMode)
}
