package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	exportOut string
)

var exportCmd = &cobra.Command{
	Use:   "export [page-id]",
	Short: "Export a page as markdown",
	Long: `Export a page's rendered markdown document. The page ID is accepted
with or without dashes. Writes to stdout unless --out is given.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := uuid.Parse(args[0])
		if err != nil {
			fatal("Invalid page ID", err)
		}

		service := newContentService()

		pc, err := service.GetPage(context.Background(), id.String())
		if err != nil {
			fatal("Error fetching page", err)
		}
		if pc.Fallback {
			fmt.Fprintln(os.Stderr, "warning: full fetch timed out, exported content is partial")
		}

		if exportOut == "" {
			fmt.Println(pc.Markdown)
			return
		}
		if err := os.WriteFile(exportOut, []byte(pc.Markdown), 0o644); err != nil {
			fatal("Error writing output file", err)
		}
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
