package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/newsforge/internal/persona"
	"github.com/julienpequegnot/newsforge/internal/rewrite"
	"github.com/julienpequegnot/newsforge/internal/topic"
	"github.com/spf13/cobra"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite <url|file|->",
	Short: "Rewrite a text in a persona's voice",
	Long: `Asks the configured model for an original rewrite. When the result is
too close to the source a second, more aggressive rewrite is attempted.`,
	Args: cobra.ExactArgs(1),
	RunE: runRewrite,
}

var (
	rewriteTitle   string
	rewritePersona string
	rewriteLength  string
	rewriteJSON    bool
)

func init() {
	rootCmd.AddCommand(rewriteCmd)
	rewriteCmd.Flags().StringVarP(&rewriteTitle, "title", "t", "", "Title of the text")
	rewriteCmd.Flags().StringVarP(&rewritePersona, "persona", "p", "", "Persona: games, cinema or tech (default: from category)")
	rewriteCmd.Flags().StringVar(&rewriteLength, "length", "", "Target length: short, medium or long (default: config)")
	rewriteCmd.Flags().BoolVar(&rewriteJSON, "json", false, "Print the result as JSON")
}

func runRewrite(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l := newLogger(cfg)
	ctx := cmd.Context()

	title, text, err := readInput(ctx, cfg, l, args[0])
	if err != nil {
		return err
	}
	if rewriteTitle != "" {
		title = rewriteTitle
	}

	category := topic.DetectCategory(title + " " + text)
	p := persona.SuggestForCategory(category)
	if rewritePersona != "" {
		var ok bool
		if p, ok = persona.Parse(rewritePersona); !ok {
			return fmt.Errorf("unknown persona %q", rewritePersona)
		}
	}

	lengthName := cfg.LLM.TargetLength
	if rewriteLength != "" {
		lengthName = rewriteLength
	}
	length, ok := rewrite.ParseLength(lengthName)
	if !ok {
		return fmt.Errorf("unknown length %q", lengthName)
	}

	svc, err := newServices(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer svc.close()

	res, err := svc.rewriter.Rewrite(ctx, rewrite.Request{
		Title:    title,
		Text:     text,
		Persona:  p,
		Category: category,
		Length:   length,
	})
	if err != nil {
		return err
	}

	if rewriteJSON {
		return writeJSON(res, "")
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	fmt.Println(titleStyle.Render(res.Title))
	fmt.Println(metaStyle.Render(fmt.Sprintf("%s · %d words · similarity %.2f · original %v · attempts %d · fallback %v",
		res.Persona, res.WordCount, res.Similarity.Score, res.IsOriginal, len(res.Attempts), res.Fallback)))
	fmt.Println()
	fmt.Println(res.Content)
	fmt.Println()
	fmt.Printf("Summary:  %s\n", res.Summary)
	fmt.Printf("Meta:     %s\n", res.MetaDescription)
	fmt.Printf("Keywords: %s\n", strings.Join(res.Keywords, ", "))
	return nil
}
