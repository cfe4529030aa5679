package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julienpequegnot/newsforge/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize newsforge configuration",
	Long:  `Creates the ~/.newsforge directory with a default config.yaml.`,
	RunE:  runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configFile()

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := config.SaveFile(config.Default(), path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("Created config at %s\n", path)

	fmt.Println("\nNewsforge initialized! Next steps:")
	fmt.Println("  export GEMINI_API_KEY=...      Enable rewriting")
	fmt.Println("  newsforge sources --check      Check the configured feeds")
	fmt.Println("  newsforge batch articles       Build a batch of articles")

	return nil
}
