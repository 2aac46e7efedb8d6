package posts

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crucial707/blog-api/cmd/cli/client"
	"github.com/crucial707/blog-api/cmd/cli/config"
	"github.com/crucial707/blog-api/cmd/cli/output"
	"github.com/spf13/cobra"
)

type post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Username    string    `json:"username"`
	Photo       string    `json:"photo"`
	Categories  []string  `json:"categories"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ==========================
// Init Posts
// ==========================
func InitPosts(rootCmd *cobra.Command) {
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Read and manage posts",
	}

	postsCmd.AddCommand(
		listPostsCmd(),
		getPostCmd(),
		createPostCmd(),
		updatePostCmd(),
		deletePostCmd(),
	)

	rootCmd.AddCommand(postsCmd)
}

// ==========================
// LIST
// ==========================
func listPostsCmd() *cobra.Command {
	var username, category string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, optionally by author or category",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if username != "" {
				q.Set("user", username)
			}
			if category != "" {
				q.Set("category", category)
			}
			path := "/posts"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var list []post
			err := client.Call(http.MethodGet, path, "", nil, &list)
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
				fmt.Fprintln(cmd.OutOrStdout(), "No posts found.")
				return nil
			}
			if err != nil {
				return err
			}

			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), list)
			}
			rows := make([][]interface{}, 0, len(list))
			for _, p := range list {
				rows = append(rows, []interface{}{p.ID, p.Title, p.Username, strings.Join(p.Categories, ", "), p.CreatedAt.Format(time.DateTime)})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Title", "Author", "Categories", "Created"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "Only posts by this username")
	cmd.Flags().StringVar(&category, "category", "", "Only posts in this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON")
	return cmd
}

// ==========================
// GET
// ==========================
func getPostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p post
			if err := client.Call(http.MethodGet, "/posts/"+args[0], "", nil, &p); err != nil {
				return err
			}
			return output.RenderJSON(cmd.OutOrStdout(), p)
		},
	}
}

// ==========================
// CREATE
// ==========================
func createPostCmd() *cobra.Command {
	var title, description, photo, categories string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post as the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.LoadSession()
			if err != nil {
				return err
			}

			body := map[string]string{"title": title, "description": description}
			if photo != "" {
				body["photo"] = photo
			}
			if categories != "" {
				body["categories"] = categories
			}

			var p post
			if err := client.Call(http.MethodPost, "/posts", s.Token, body, &p); err != nil {
				return fmt.Errorf("create post: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Post created: %s\n", p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Post title")
	cmd.Flags().StringVar(&description, "description", "", "Post body")
	cmd.Flags().StringVar(&photo, "photo", "", "Photo file name")
	cmd.Flags().StringVar(&categories, "categories", "", "Comma-separated categories")
	return cmd
}

// ==========================
// UPDATE
// ==========================
func updatePostCmd() *cobra.Command {
	var title, description, photo, categories string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.LoadSession()
			if err != nil {
				return err
			}

			body := map[string]string{}
			for flag, v := range map[string]string{
				"title": title, "description": description, "photo": photo,
			} {
				if v != "" {
					body[flag] = v
				}
			}
			if cmd.Flags().Changed("categories") {
				body["categories"] = categories
			}
			if len(body) == 0 {
				return errors.New("nothing to update")
			}

			var p post
			if err := client.Call(http.MethodPut, "/posts/"+args[0], s.Token, body, &p); err != nil {
				return fmt.Errorf("update post: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Post updated: %s\n", p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New body")
	cmd.Flags().StringVar(&photo, "photo", "", "New photo file name")
	cmd.Flags().StringVar(&categories, "categories", "", "New comma-separated categories")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deletePostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.LoadSession()
			if err != nil {
				return err
			}

			var res struct {
				Message string `json:"message"`
			}
			if err := client.Call(http.MethodDelete, "/posts/"+args[0], s.Token, nil, &res); err != nil {
				return fmt.Errorf("delete post: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
}
