package cmd

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/julienpequegnot/newsforge/internal/config"
	"github.com/julienpequegnot/newsforge/internal/feed"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a site or RSS feed as a source",
	Long:  `Discovers the feed of a site and appends it to the configured sources.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

var (
	addName     string
	addCategory string
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addName, "name", "n", "", "Custom name for the source")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "games", "Category of the source")
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	siteURL := args[0]
	if !strings.HasPrefix(siteURL, "http") {
		siteURL = "https://" + siteURL
	}

	parsed, err := url.Parse(siteURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	name := addName
	if name == "" {
		name = strings.TrimPrefix(parsed.Host, "www.")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	fmt.Printf("Discovering feed for %s...\n", siteURL)
	feedURL, err := feed.DiscoverFeed(ctx, siteURL)
	if err != nil {
		fmt.Printf("Warning: %v\n", err)
		fmt.Println("Adding the URL as given")
		feedURL = siteURL
	} else {
		fmt.Printf("Found feed: %s\n", feedURL)
	}

	for _, s := range cfg.Sources {
		if s.URL == feedURL {
			return fmt.Errorf("source already exists: %s", s.Name)
		}
	}

	cfg.Sources = append(cfg.Sources, config.Source{Name: name, URL: feedURL, Category: addCategory})
	if err := config.SaveFile(cfg, configFile()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("\nAdded: %s (%s)\n", name, addCategory)
	fmt.Println("\nRun 'newsforge fetch' to check its items")

	return nil
}
