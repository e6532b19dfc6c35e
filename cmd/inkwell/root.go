package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"inkwell/internal/config"
	"inkwell/internal/content"
	"inkwell/internal/notion"
	"inkwell/internal/render"
)

var (
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Portfolio content tooling backed by a Notion workspace",
	Long: `Inkwell reads blog posts and pages from a Notion database and
renders them to markdown, the same pipeline the content API serves.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// newContentService wires a content service from the environment, the
// same way the server does.
func newContentService() *content.Service {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.NotionAPIKey == "" {
		log.Fatal("NOTION_API_KEY is required")
	}
	if cfg.NotionDatabaseID == "" {
		log.Fatal("NOTION_DATABASE_ID is required")
	}

	styles, err := render.LoadStyles()
	if err != nil {
		fatal("Error loading render styles", err)
	}

	client := notion.NewClientWithConfig(cfg.NotionAPIKey, cfg.NotionBaseURL, notion.DefaultTimeout)
	return content.NewService(client, render.NewRegistry(styles), cfg.NotionDatabaseID, slog.Default(), nil)
}
