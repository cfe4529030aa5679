package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/newsforge/internal/persona"
	"github.com/julienpequegnot/newsforge/internal/topic"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url|file|->",
	Short: "Extract the article text of a page",
	Long: `Downloads a page, strips navigation and markup and prints the article
text with its detected category and topics. With --headline a title and
summary are generated in the chosen persona's voice.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var (
	extractHeadline bool
	extractPersona  string
)

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVar(&extractHeadline, "headline", false, "Generate a title and summary")
	extractCmd.Flags().StringVarP(&extractPersona, "persona", "p", "", "Persona for the headline (default: from category)")
}

func runExtract(cmd *cobra.Command, args []string) error {
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
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no article text found in %s", args[0])
	}

	category := topic.DetectCategory(title + " " + text)

	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	fmt.Printf("%s %s\n", labelStyle.Render("Title:   "), title)
	fmt.Printf("%s %s\n", labelStyle.Render("Category:"), category)
	fmt.Printf("%s %s\n", labelStyle.Render("Topics:  "), strings.Join(topic.ExtractTopics(text), ", "))
	fmt.Printf("%s %d\n", labelStyle.Render("Words:   "), len(strings.Fields(text)))

	if extractHeadline {
		svc, err := newServices(ctx, cfg, l)
		if err != nil {
			return err
		}
		defer svc.close()

		p := persona.SuggestForCategory(category)
		if extractPersona != "" {
			if p, err = forcedPersona(extractPersona); err != nil {
				return err
			}
		}
		ts := svc.rewriter.GenerateTitleAndSummary(ctx, text, p)
		fmt.Printf("%s %s\n", labelStyle.Render("Headline:"), ts.Title)
		fmt.Printf("%s %s\n", labelStyle.Render("Summary: "), ts.Summary)
	}

	fmt.Printf("\n%s\n", text)
	return nil
}
