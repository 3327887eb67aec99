package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/console"
)

var (
	apiURL     string
	token      string
	username   string
	password   string
	jsonOutput bool
	width      int
)

var rootCmd = &cobra.Command{
	Use:   "tripguides",
	Short: "Admin console for the trip guides API",
	Long: `tripguides is a terminal admin console for the trip guides catalog.

It lists trips, resorts, ships and the lookup tables, edits resorts and ships
together with their amenities and venues, and picks lookup entries
interactively. It only talks to the HTTP API.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// flag defaults come from the environment, so .env (optional) goes first
	_ = godotenv.Load()
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("TRIPGUIDES_API_URL", "http://localhost:8080"), "API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("TRIPGUIDES_TOKEN"), "Bearer access token")
	rootCmd.PersistentFlags().StringVarP(&username, "user", "u", os.Getenv("TRIPGUIDES_USER"), "Login username or email (used when no token is set)")
	rootCmd.PersistentFlags().StringVar(&password, "password", os.Getenv("TRIPGUIDES_PASSWORD"), "Login password")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().IntVar(&width, "width", terminalWidth(), "Render width in columns")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func terminalWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return 120
}

// client returns an API client, logging in first when only credentials
// were given.
func client(ctx context.Context, needAuth bool) (*console.Client, error) {
	c := console.NewClient(apiURL, token)
	if c.Token != "" || !needAuth {
		return c, nil
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("set --token or --user and --password")
	}
	if err := c.Login(ctx, username, password); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return c, nil
}
