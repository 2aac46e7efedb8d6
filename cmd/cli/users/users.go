package users

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/crucial707/blog-api/cmd/cli/client"
	"github.com/crucial707/blog-api/cmd/cli/config"
	"github.com/crucial707/blog-api/cmd/cli/output"
	"github.com/spf13/cobra"
)

type authResult struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilePic"`
	Token      string `json:"token"`
}

type user struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	ProfilePic string    `json:"profilePic"`
	CreatedAt  time.Time `json:"createdAt"`
}

type activity struct {
	Action       string    `json:"action"`
	ResourceType string    `json:"resourceType"`
	ResourceID   string    `json:"resourceId"`
	Details      string    `json:"details"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ==========================
// CLI Command Init
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage your account and authentication",
		Long: `Register or login a user to the blog API.
Stores the JWT token locally for future commands.`,
	}

	usersCmd.AddCommand(
		registerCmd(),
		loginCmd(),
		logoutCmd(),
		showCmd(),
		updateCmd(),
		deleteCmd(),
		activityCmd(),
	)
	rootCmd.AddCommand(usersCmd)
}

// ==========================
// Register User
// ==========================
func registerCmd() *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		Long:  "Register a new user and log in as that user.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if username, err = p.valueOrPrompt(username, "Username"); err != nil {
				return err
			}
			if email, err = p.valueOrPrompt(email, "Email"); err != nil {
				return err
			}
			password, err := p.secret("Password")
			if err != nil {
				return err
			}
			confirm, err := p.secret("Confirm password")
			if err != nil {
				return err
			}

			var res authResult
			err = client.Call(http.MethodPost, "/users/register", "", map[string]string{
				"username":        username,
				"email":           email,
				"password":        password,
				"confirmPassword": confirm,
			}, &res)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}

			if err := saveSession(res); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s.\n", res.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to register")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	return cmd
}

// ==========================
// Login User
// ==========================
func loginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login an existing user",
		Long:  "Login and save the JWT token locally for future CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			var err error
			if email, err = p.valueOrPrompt(email, "Email"); err != nil {
				return err
			}
			password, err := p.secret("Password")
			if err != nil {
				return err
			}

			var res authResult
			err = client.Call(http.MethodPost, "/users/login", "", map[string]string{
				"email":    email,
				"password": password,
			}, &res)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			if err := saveSession(res); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Login successful! JWT token saved locally.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	return cmd
}

// ==========================
// Logout User
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout current user",
		Long:  "Remove the locally saved JWT token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := config.ClearSession()
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), "No user logged in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully.")
			return nil
		},
	}
}

// ==========================
// Show Current User
// ==========================
func showCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.LoadSession()
			if err != nil {
				return err
			}

			var u user
			if err := client.Call(http.MethodGet, "/users/"+s.UserID, s.Token, nil, &u); err != nil {
				return err
			}

			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), u)
			}
			output.RenderTable(cmd.OutOrStdout(),
				[]string{"ID", "Username", "Email", "Profile Pic", "Created"},
				[][]interface{}{{u.ID, u.Username, u.Email, u.ProfilePic, u.CreatedAt.Format(time.DateTime)}})
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON")
	return cmd
}

// ==========================
// Update Current User
// ==========================
func updateCmd() *cobra.Command {
	var username, email, profilePic string
	var changePassword bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.LoadSession()
			if err != nil {
				return err
			}

			patch := map[string]string{}
			if username != "" {
				patch["username"] = username
			}
			if email != "" {
				patch["email"] = email
			}
			if profilePic != "" {
				patch["profilePic"] = profilePic
			}
			if changePassword {
				p := newPrompter(cmd)
				if patch["password"], err = p.secret("New password"); err != nil {
					return err
				}
				if patch["confirmPassword"], err = p.secret("Confirm new password"); err != nil {
					return err
				}
			}
			if len(patch) == 0 {
				return errors.New("nothing to update")
			}

			var res authResult
			if err := client.Call(http.MethodPut, "/users/"+s.UserID, s.Token, patch, &res); err != nil {
				return fmt.Errorf("update: %w", err)
			}
			if err := saveSession(res); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "User updated.")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "New username")
	cmd.Flags().StringVar(&email, "email", "", "New email")
	cmd.Flags().StringVar(&profilePic, "profile-pic", "", "New profile picture")
	cmd.Flags().BoolVar(&changePassword, "change-password", false, "Prompt for a new password")
	return cmd
}

// ==========================
// Delete Current User
// ==========================
func deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the logged in user and all of their posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("this deletes your account and every post you wrote; pass --yes to confirm")
			}
			s, err := config.LoadSession()
			if err != nil {
				return err
			}

			var res struct {
				Message string `json:"message"`
			}
			if err := client.Call(http.MethodDelete, "/users/"+s.UserID, s.Token, nil, &res); err != nil {
				return fmt.Errorf("delete: %w", err)
			}
			if _, err := config.ClearSession(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

// ==========================
// Activity Log
// ==========================
func activityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activity",
		Short: "Show your recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.LoadSession()
			if err != nil {
				return err
			}

			var entries []activity
			if err := client.Call(http.MethodGet, "/users/"+s.UserID+"/activity", s.Token, nil, &entries); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []interface{}{e.CreatedAt.Format(time.DateTime), e.Action, e.ResourceType, e.ResourceID, e.Details})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"When", "Action", "Type", "Resource", "Details"}, rows)
			return nil
		},
	}
}

func saveSession(res authResult) error {
	if res.Token == "" {
		return errors.New("token not returned by API")
	}
	if err := config.SaveSession(config.Session{UserID: res.ID, Username: res.Username, Token: res.Token}); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}
