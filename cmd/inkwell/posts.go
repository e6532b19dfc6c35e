package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	postsJSON bool
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List blog-worthy posts from the database",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		service := newContentService()

		posts, err := service.ListPosts(context.Background())
		if err != nil {
			fatal("Error listing posts", err)
		}

		if postsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(posts); err != nil {
				fatal("Error encoding posts", err)
			}
			return
		}

		for _, post := range posts {
			fmt.Printf("%s  %s  %s\n", post.ID, post.Date(), post.Title())
		}
	},
}

func init() {
	postsCmd.Flags().BoolVar(&postsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(postsCmd)
}
