package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/newsforge/internal/feed"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch items from the configured sources",
	Long:  `Downloads the latest items of every source without scoring them.`,
	RunE:  runFetch,
}

var (
	fetchCategory  string
	fetchPerSource int
	fetchJSON      bool
)

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVarP(&fetchCategory, "category", "c", "", "Only fetch sources of this category")
	fetchCmd.Flags().IntVarP(&fetchPerSource, "per-source", "l", 5, "Maximum items per source")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "Print items as JSON")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l := newLogger(cfg)

	sources := cfg.SourcesFor(fetchCategory)
	if len(sources) == 0 {
		fmt.Println("No sources configured. Add some with 'newsforge add <url>'")
		return nil
	}

	ms := feed.NewMultiSource(feed.NewFetcher(cfg.Fetch, l), sources, fetchPerSource, cfg.Fetch.Concurrency, l)
	items, err := ms.Items(cmd.Context())
	if err != nil {
		return err
	}

	if fetchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	sourceStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	for _, item := range items {
		date := "unknown"
		if !item.PublishedAt.IsZero() {
			date = item.PublishedAt.Format("2006-01-02 15:04")
		}
		fmt.Printf("%s %s %s\n", dateStyle.Render(date), sourceStyle.Render(fmt.Sprintf("[%s]", item.Source)), item.Title)
	}

	fmt.Printf("\nTotal: %d items from %d sources\n", len(items), len(sources))
	return nil
}
