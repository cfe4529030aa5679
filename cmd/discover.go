package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julienpequegnot/newsforge/internal/feed"
	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <site-url>...",
	Short: "Discover the RSS feeds of sites",
	Long:  `Looks for an advertised feed on each site, then tries common feed paths.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	found := 0

	for _, site := range args {
		if !strings.HasPrefix(site, "http") {
			site = "https://" + site
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		feedURL, err := feed.DiscoverFeed(ctx, site)
		cancel()

		if err != nil {
			fmt.Printf("%s\n  → Could not find RSS feed\n", site)
			continue
		}

		fmt.Printf("%s\n  → %s\n", site, feedURL)
		found++
	}

	fmt.Printf("\nFound %d of %d feeds\n", found, len(args))
	if found > 0 {
		fmt.Println("\nRun 'newsforge add <url>' to add a source.")
	}
	return nil
}
