package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/newsforge/internal/persona"
	"github.com/spf13/cobra"
)

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List editorial personas",
	Long:  `Shows the tone, style and writing guidelines of every persona.`,
	RunE:  runPersonas,
}

var personasType string

func init() {
	rootCmd.AddCommand(personasCmd)
	personasCmd.Flags().StringVarP(&personasType, "type", "t", "article", "Content type: article, news, review or event")
}

func runPersonas(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry := persona.NewRegistry(cfg.Personas)

	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	for _, p := range persona.All() {
		g := registry.Guidelines(p, persona.ContentType(personasType))

		fmt.Println(nameStyle.Render(strings.ToUpper(p.String())))
		fmt.Printf("  %s %s\n", labelStyle.Render("tone:      "), g.Tone)
		fmt.Printf("  %s %s\n", labelStyle.Render("style:     "), g.Style)
		fmt.Printf("  %s %s\n", labelStyle.Render("focus:     "), strings.Join(g.FocusAreas, ", "))
		fmt.Printf("  %s %s\n", labelStyle.Render("vocabulary:"), g.VocabularyLevel)
		fmt.Printf("  %s %s\n", labelStyle.Render("structure: "), strings.Join(g.Structure, " → "))
		fmt.Printf("  %s %d-%d words\n\n", labelStyle.Render("length:    "), g.MinWords, g.MaxWords)
	}
	return nil
}
