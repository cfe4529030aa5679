package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/newsforge/internal/scorer"
	"github.com/spf13/cobra"
)

var similarityCmd = &cobra.Command{
	Use:   "similarity <original> <rewrite>",
	Short: "Compare two texts for originality",
	Long: `Estimates how similar two texts are. Each argument is a file, a URL
or - for stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: runSimilarity,
}

var (
	similarityPhrases int
	similarityJSON    bool
)

func init() {
	rootCmd.AddCommand(similarityCmd)
	similarityCmd.Flags().IntVar(&similarityPhrases, "min-words", 5, "Minimum words of a reported similar phrase")
	similarityCmd.Flags().BoolVar(&similarityJSON, "json", false, "Print the result as JSON")
}

type similarityResult struct {
	Report          scorer.SimilarityReport `json:"report"`
	Risk            string                  `json:"risk"`
	Recommendations []string                `json:"recommendations"`
	Phrases         []scorer.PhraseMatch    `json:"similar_phrases"`
}

func runSimilarity(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l := newLogger(cfg)
	ctx := cmd.Context()

	_, original, err := readInput(ctx, cfg, l, args[0])
	if err != nil {
		return err
	}
	_, rewritten, err := readInput(ctx, cfg, l, args[1])
	if err != nil {
		return err
	}

	e := scorer.NewSimilarityEstimator(l)
	report := e.Estimate(original, rewritten)
	res := similarityResult{
		Report:          report,
		Risk:            report.Risk().String(),
		Recommendations: scorer.Recommendations(report.Score),
		Phrases:         e.FindSimilarPhrases(original, rewritten, similarityPhrases),
	}

	if similarityJSON {
		return writeJSON(res, "")
	}

	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	quoteStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	fmt.Printf("%s %s\n", labelStyle.Render("Similarity:"), report)
	fmt.Printf("%s %s\n\n", labelStyle.Render("Risk:      "), res.Risk)

	for _, r := range res.Recommendations {
		fmt.Printf("  • %s\n", r)
	}

	if len(res.Phrases) > 0 {
		fmt.Printf("\n%s\n", labelStyle.Render("Similar phrases:"))
		for _, p := range res.Phrases {
			fmt.Printf("  %.2f %s\n", p.Ratio, p.Sentence)
			fmt.Printf("       %s\n", quoteStyle.Render(p.Match))
		}
	}
	return nil
}
