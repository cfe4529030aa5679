package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/newsforge/internal/content"
	"github.com/julienpequegnot/newsforge/internal/pipeline"
	"github.com/julienpequegnot/newsforge/internal/scorer"
	"github.com/julienpequegnot/newsforge/internal/topic"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score <url|file|->",
	Short: "Score one article against the admission gate",
	Long: `Runs a single text through relevance, rewriting, quality, SEO and
originality scoring and shows whether it would be admitted.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var (
	scoreTitle    string
	scoreCategory string
	scoreKind     string
	scorePersona  string
	scoreJSON     bool
)

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVarP(&scoreTitle, "title", "t", "", "Title of the text")
	scoreCmd.Flags().StringVarP(&scoreCategory, "category", "c", "", "Category (default: detected)")
	scoreCmd.Flags().StringVarP(&scoreKind, "kind", "k", "articles", "Gate to apply: articles, news or featured")
	scoreCmd.Flags().StringVarP(&scorePersona, "persona", "p", "", "Persona for the rewrite (default: from category)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the result as JSON")
}

type scoreReport struct {
	Article     content.Article           `json:"article"`
	Relevance   scorer.RelevanceBreakdown `json:"relevance"`
	Competition scorer.Competition        `json:"competition"`
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l := newLogger(cfg)
	ctx := cmd.Context()

	kind, err := pipeline.ParseKind(scoreKind)
	if err != nil {
		return err
	}
	if scorePersona != "" {
		if _, err := forcedPersona(scorePersona); err != nil {
			return err
		}
	}

	title, text, err := readInput(ctx, cfg, l, args[0])
	if err != nil {
		return err
	}
	if scoreTitle != "" {
		title = scoreTitle
	}

	svc, err := newServices(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer svc.close()

	category := scoreCategory
	if category == "" {
		category = topic.DetectCategory(title + " " + text)
	}

	req := pipeline.NewRequest(kind, cfg)
	req.Persona = scorePersona
	// A single explicit text is always rewritten.
	req.MinContentScore = 0

	item := content.Item{Title: title, Body: text, Category: category}
	article, err := svc.processor(cfg, l).ScoreItem(ctx, req, item)
	if err != nil {
		return err
	}

	report := scoreReport{
		Article:     article,
		Relevance:   svc.relevance.Breakdown(title, text, category, item.PublishedAt),
		Competition: svc.relevance.AnalyzeCompetition(title, text),
	}
	if scoreJSON {
		return writeJSON(report, "")
	}

	printScoreReport(report, req)
	return nil
}

func printScoreReport(r scoreReport, req pipeline.Request) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	a := r.Article
	fmt.Println(headerStyle.Render(a.Title))
	fmt.Println(strings.Repeat("─", 60))

	fmt.Printf("Relevance   %.2f  (keyword %.2f, seasonal %.2f, category %.2f, freshness %.2f, engagement %.2f)\n",
		r.Relevance.Total, r.Relevance.Keyword, r.Relevance.Seasonal, r.Relevance.Category,
		r.Relevance.Freshness, r.Relevance.Engagement)
	fmt.Printf("Competition %.2f  (%s)\n", r.Competition.Score, r.Competition.Difficulty)
	fmt.Println()

	fmt.Printf("Rewritten relevance %.2f\n", a.Scores.Relevance)
	fmt.Printf("Quality             %.2f\n", a.Scores.Quality)
	fmt.Printf("SEO                 %.2f\n", a.Scores.SEO)
	fmt.Printf("Originality         %.2f  (similarity %.2f, fallback %v)\n", a.Scores.Originality, a.Similarity, a.Fallback)
	fmt.Printf("Final               %.2f  (gate %.2f)\n", a.FinalScore, req.MinScore)
	fmt.Println()

	switch {
	case a.Featured:
		fmt.Println(okStyle.Render("ADMITTED (featured)"))
	case a.Admitted:
		fmt.Println(okStyle.Render("ADMITTED"))
	default:
		fmt.Println(failStyle.Render("REJECTED"))
	}
}
