package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/newsforge/internal/seo"
	"github.com/julienpequegnot/newsforge/internal/topic"
	"github.com/spf13/cobra"
)

var seoCmd = &cobra.Command{
	Use:   "seo <url|file|->",
	Short: "Rate and optimize an article for search engines",
	Long: `Scores a text against the SEO rubric and derives an optimized title,
slug, meta description and schema.org structured data.`,
	Args: cobra.ExactArgs(1),
	RunE: runSEO,
}

var (
	seoTitle    string
	seoMeta     string
	seoKeywords []string
	seoCategory string
	seoJSON     bool
)

func init() {
	rootCmd.AddCommand(seoCmd)
	seoCmd.Flags().StringVarP(&seoTitle, "title", "t", "", "Title of the article")
	seoCmd.Flags().StringVarP(&seoMeta, "meta", "m", "", "Current meta description")
	seoCmd.Flags().StringSliceVarP(&seoKeywords, "keywords", "k", nil, "Target keywords (default: extracted)")
	seoCmd.Flags().StringVarP(&seoCategory, "category", "c", "", "Category (default: detected)")
	seoCmd.Flags().BoolVar(&seoJSON, "json", false, "Print the result as JSON")
}

type seoReport struct {
	Score       float64    `json:"score"`
	Suggestions []string   `json:"suggestions"`
	Optimized   seo.Result `json:"optimized"`
}

func runSEO(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l := newLogger(cfg)

	title, text, err := readInput(cmd.Context(), cfg, l, args[0])
	if err != nil {
		return err
	}
	if seoTitle != "" {
		title = seoTitle
	}

	category := seoCategory
	if category == "" {
		category = topic.DetectCategory(title + " " + text)
	}

	keywords := seoKeywords
	if len(keywords) == 0 {
		keywords = seo.ExtractKeywords(text, 10)
	}

	s := seo.NewScorer(l)
	report := seoReport{
		Score:       s.Score(title, text, seoMeta, keywords),
		Suggestions: s.Suggestions(title, text, seoMeta, keywords),
		Optimized:   s.Optimize(title, text, category, keywords),
	}

	if seoJSON {
		return writeJSON(report, "")
	}

	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	fmt.Printf("%s %.2f / %.2f\n", labelStyle.Render("Score:    "), report.Score, seo.MaxScore)
	for _, s := range report.Suggestions {
		fmt.Printf("  • %s\n", s)
	}

	o := report.Optimized
	fmt.Println()
	fmt.Printf("%s %s\n", labelStyle.Render("Title:    "), o.Title)
	fmt.Printf("%s %s\n", labelStyle.Render("Slug:     "), o.Slug)
	fmt.Printf("%s %s\n", labelStyle.Render("Meta:     "), o.MetaDescription)
	fmt.Printf("%s %s\n", labelStyle.Render("Keywords: "), strings.Join(o.Keywords, ", "))
	fmt.Printf("%s %.2f\n", labelStyle.Render("Optimized:"), o.Score)
	return nil
}
