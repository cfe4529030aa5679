package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/newsforge/internal/config"
	"github.com/julienpequegnot/newsforge/internal/event"
	"github.com/julienpequegnot/newsforge/internal/feed"
	"github.com/julienpequegnot/newsforge/internal/pipeline"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <articles|news|featured|events>",
	Short: "Build a batch of publishable content",
	Long: `Fetches items from the configured sources and runs them through the
scoring pipeline. Only items whose final score passes the gate are kept.
The events batch extracts upcoming events instead.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"articles", "news", "featured", "events"},
	RunE:      runBatch,
}

var (
	batchCategory string
	batchPersona  string
	batchLimit    int
	batchMinScore float64
	batchLocation string
	batchJSON     bool
	batchOut      string
)

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchCategory, "category", "c", "", "Only use sources of this category")
	batchCmd.Flags().StringVarP(&batchPersona, "persona", "p", "", "Force one persona for every item")
	batchCmd.Flags().IntVarP(&batchLimit, "limit", "l", 0, "Maximum items (default: config, capped at max_limit)")
	batchCmd.Flags().Float64Var(&batchMinScore, "min-score", -1, "Override the admission threshold")
	batchCmd.Flags().StringVar(&batchLocation, "location", "", "Only keep events at this location")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "Print the batch as JSON")
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "Write the batch as JSON to a file")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l := newLogger(cfg)

	if strings.EqualFold(args[0], "events") {
		return runEventBatch(cmd, cfg)
	}

	kind, err := pipeline.ParseKind(args[0])
	if err != nil {
		return err
	}
	if batchPersona != "" {
		if _, err := forcedPersona(batchPersona); err != nil {
			return err
		}
	}

	req := pipeline.NewRequest(kind, cfg)
	req.Persona = batchPersona
	if batchMinScore >= 0 {
		req.MinScore = batchMinScore
	}
	if batchLimit > 0 {
		req.Limit = capLimit(batchLimit, settingsFor(cfg, kind).MaxLimit)
	}

	sources := cfg.SourcesFor(batchCategory)
	if len(sources) == 0 {
		return fmt.Errorf("no sources configured for category %q", batchCategory)
	}

	ctx := cmd.Context()
	svc, err := newServices(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer svc.close()

	src := feed.NewMultiSource(feed.NewFetcher(cfg.Fetch, l), sources, settingsFor(cfg, kind).PerSource, cfg.Fetch.Concurrency, l)
	res, err := svc.processor(cfg, l).Process(ctx, req, src)
	if err != nil {
		return fmt.Errorf("no items obtained from %d sources: %w", len(sources), err)
	}

	if batchJSON || batchOut != "" {
		if err := writeJSON(res, batchOut); err != nil {
			return err
		}
		if batchOut != "" {
			fmt.Printf("Wrote %d articles to %s\n", len(res.Articles), batchOut)
		}
		return nil
	}

	printBatch(res)
	return nil
}

func settingsFor(cfg *config.Config, kind pipeline.Kind) config.BatchSettings {
	switch kind {
	case pipeline.News:
		return cfg.Batches.News
	case pipeline.Featured:
		return cfg.Batches.Featured
	default:
		return cfg.Batches.Articles
	}
}

func capLimit(limit, maxLimit int) int {
	if maxLimit > 0 {
		return min(limit, maxLimit)
	}
	return limit
}

func printBatch(res *pipeline.Result) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	scoreStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	catStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	starStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	fmt.Printf("\n%s %s\n\n", titleStyle.Render(strings.ToUpper(string(res.Kind))), res.BatchID)

	if len(res.Articles) == 0 {
		fmt.Println("No item passed the admission gate.")
	}

	for i, a := range res.Articles {
		star := " "
		if a.Featured {
			star = starStyle.Render("★")
		}
		fmt.Printf("%2d. %s %s %s %s\n", i+1, star,
			scoreStyle.Render(fmt.Sprintf("%.2f", a.FinalScore)),
			catStyle.Render(fmt.Sprintf("[%s]", a.Category)),
			a.Title)
	}

	fmt.Printf("\nConsidered %d, admitted %d, rejected %d, dropped %d\n",
		res.Considered, len(res.Articles), res.Rejected, res.Dropped)
}

func runEventBatch(cmd *cobra.Command, cfg *config.Config) error {
	l := newLogger(cfg)
	settings := cfg.Batches.Events

	sources := settings.Sources
	if len(sources) == 0 {
		sources = cfg.SourcesFor("events")
	}
	if len(sources) == 0 {
		return errors.New("no event sources configured")
	}

	limit := settings.Limit
	if batchLimit > 0 {
		limit = batchLimit
	}

	ms := feed.NewMultiSource(feed.NewFetcher(cfg.Fetch, l), sources, settings.PerSource, cfg.Fetch.Concurrency, l)
	items, err := ms.Items(cmd.Context())
	if err != nil {
		return err
	}

	events := event.Build(items, event.Options{
		Limit:     limit,
		DaysAhead: settings.DaysAhead,
		Location:  batchLocation,
	})

	if batchJSON || batchOut != "" {
		return writeJSON(events, batchOut)
	}

	dateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	locStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	if len(events) == 0 {
		fmt.Println("No upcoming events found.")
		return nil
	}
	for _, ev := range events {
		fmt.Printf("%s %s %s\n", dateStyle.Render(ev.Date.Format("2006-01-02")), locStyle.Render(fmt.Sprintf("[%s]", ev.Location)), ev.Title)
	}
	return nil
}
