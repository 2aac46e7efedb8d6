package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultAPIURL = "http://localhost:8080"
	tokenFileName = ".blog_token"
)

// ErrNotLoggedIn is returned by LoadSession when no session file exists.
var ErrNotLoggedIn = errors.New("not logged in, run `blog users login` first")

// APIURL returns the base URL for the blog API.
// It can be overridden with the BLOG_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("BLOG_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// Session is what login stores between CLI invocations.
type Session struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// TokenPath is ~/.blog_token unless BLOG_TOKEN_FILE is set.
func TokenPath() string {
	if v := os.Getenv("BLOG_TOKEN_FILE"); v != "" {
		return v
	}
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, tokenFileName)
}

func SaveSession(s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(TokenPath(), data, 0o600)
}

func LoadSession() (Session, error) {
	data, err := os.ReadFile(TokenPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, ErrNotLoggedIn
		}
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil || s.Token == "" {
		return Session{}, fmt.Errorf("corrupt session file %s, log in again", TokenPath())
	}
	return s, nil
}

// ClearSession removes the session file. It reports false when there was none.
func ClearSession() (bool, error) {
	err := os.Remove(TokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
