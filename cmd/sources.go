package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/newsforge/internal/config"
	"github.com/julienpequegnot/newsforge/internal/feed"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources",
	Long:  `Display every RSS source, optionally checking that each feed answers.`,
	RunE:  runSources,
}

var (
	sourcesCategory string
	sourcesCheck    bool
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.Flags().StringVarP(&sourcesCategory, "category", "c", "", "Only list sources of this category")
	sourcesCmd.Flags().BoolVar(&sourcesCheck, "check", false, "Fetch each feed and report its status")
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sources := cfg.SourcesFor(sourcesCategory)
	if len(sources) == 0 {
		fmt.Println("No sources configured. Add some with 'newsforge add <url>'")
		return nil
	}

	var status []string
	if sourcesCheck {
		status = checkSources(cmd.Context(), cfg, sources)
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	catStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	urlStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	fmt.Println(headerStyle.Render(fmt.Sprintf(" %-12s  %-25s  %s", "CATEGORY", "NAME", "URL")))
	fmt.Println(strings.Repeat("─", 80))

	for i, s := range sources {
		name := s.Name
		if len(name) > 25 {
			name = name[:22] + "..."
		}

		line := fmt.Sprintf(" %s  %s  %s",
			catStyle.Render(fmt.Sprintf("%-12s", s.Category)),
			nameStyle.Render(fmt.Sprintf("%-25s", name)),
			urlStyle.Render(s.URL),
		)
		if status != nil {
			line += "  " + status[i]
		}
		fmt.Println(line)
	}

	return nil
}

// checkSources fetches one item of every source and returns a rendered
// status per source.
func checkSources(ctx context.Context, cfg *config.Config, sources []config.Source) []string {
	l := newLogger(cfg)
	fetcher := feed.NewFetcher(cfg.Fetch, l)

	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	status := make([]string, len(sources))

	var g errgroup.Group
	g.SetLimit(max(cfg.Fetch.Concurrency, 1))
	for i, src := range sources {
		g.Go(func() error {
			start := time.Now()
			items, err := fetcher.FetchFeed(ctx, src, 1)
			switch {
			case err != nil:
				status[i] = failStyle.Render("✗ " + err.Error())
			case len(items) == 0:
				status[i] = failStyle.Render("✗ empty feed")
			default:
				status[i] = okStyle.Render(fmt.Sprintf("✓ %s", time.Since(start).Round(time.Millisecond)))
			}
			return nil
		})
	}
	g.Wait()

	return status
}
