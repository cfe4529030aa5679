package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/newsforge/internal/feed"
	"github.com/julienpequegnot/newsforge/internal/scorer"
	"github.com/julienpequegnot/newsforge/internal/topic"
	"github.com/spf13/cobra"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show trending topics",
	Long: `Analyzes the latest items of every source and ranks the configured
trending keywords by recency, frequency and weight. Items that mention no
keyword count towards their category. With --static the configured
keywords are listed instead.`,
	RunE: runTrends,
}

var (
	trendsDays     int
	trendsLimit    int
	trendsCategory string
	trendsStatic   bool
)

func init() {
	rootCmd.AddCommand(trendsCmd)
	trendsCmd.Flags().IntVar(&trendsDays, "days", 7, "Time window in days")
	trendsCmd.Flags().IntVarP(&trendsLimit, "limit", "l", 10, "Maximum trends to show")
	trendsCmd.Flags().StringVarP(&trendsCategory, "category", "c", "", "Only use sources of this category")
	trendsCmd.Flags().BoolVar(&trendsStatic, "static", false, "List configured trending keywords")
}

func runTrends(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l := newLogger(cfg)

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	if trendsStatic {
		topics := scorer.NewRelevanceScorer(cfg.Scoring, l).TrendingTopics(trendsLimit)
		fmt.Printf("\n%s\n\n", titleStyle.Render("TRENDING KEYWORDS"))
		for i, t := range topics {
			fmt.Printf("%2d. %-20s %s %.2f [%s]\n", i+1, t.Keyword, barStyle.Render(bar(t.Score, 1)), t.Score, t.Category)
		}
		fmt.Println()
		return nil
	}

	ms := feed.NewMultiSource(feed.NewFetcher(cfg.Fetch, l), cfg.SourcesFor(trendsCategory), 20, cfg.Fetch.Concurrency, l)
	items, err := ms.Items(cmd.Context())
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No items found.")
		return nil
	}

	analyzer := topic.NewTrendAnalyzer(cfg.Scoring.Trending)
	now := time.Now()
	for i, item := range items {
		id := item.SourceURL
		if id == "" {
			id = fmt.Sprintf("%d:%s", i, item.Title)
		}
		analyzer.Observe(id, item, now)
	}

	trends := analyzer.GetTrends(trendsDays, trendsLimit)

	if len(trends) == 0 {
		fmt.Println("No trending topics found.")
		return nil
	}

	fmt.Printf("\n%s (last %d days)\n\n", titleStyle.Render("TRENDING TOPICS"), trendsDays)

	maxScore := trends[0].Score
	for i, trend := range trends {
		fmt.Printf("%2d. %-20s %s %.1f (%d items, %d recent) [%s]\n",
			i+1,
			trend.Topic,
			barStyle.Render(bar(trend.Score, maxScore)),
			trend.Score,
			trend.Count,
			len(trend.Recent),
			trend.Category)
	}

	fmt.Println()
	return nil
}

// bar renders score relative to maxScore as up to 20 blocks.
func bar(score, maxScore float64) string {
	if maxScore <= 0 {
		return ""
	}
	return strings.Repeat("█", int(score/maxScore*20))
}
