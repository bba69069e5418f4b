// vithai is the command line client for the sermon library.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vaarthai/vithai/clients/go/vithai"
	"github.com/vaarthai/vithai/internal/models"
	"github.com/vaarthai/vithai/internal/session"
)

var (
	baseURL  string
	langCode string
	asJSON   bool
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "vithai",
	Short: "Browse, play and manage the sermon library",
	Long: `vithai talks to a Vithai server. Browsing, search and the daily verse
are public; add, edit and delete need an admin login.

Environment:
  VITHAI_URL      Server URL (default: http://localhost:3000)
  VITHAI_CONFIG   Config directory (default: ~/.vithai)`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	defaultURL := os.Getenv("VITHAI_URL")
	if defaultURL == "" {
		defaultURL = vithai.DefaultURL
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", defaultURL, "Server URL")
	rootCmd.PersistentFlags().StringVarP(&langCode, "lang", "l", string(models.Tamil), `Display language: "ta" or "en"`)
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print raw JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")

	rootCmd.AddCommand(
		newListCommand(),
		newShowCommand(),
		newPlayOrderCommand(),
		newSearchCommand(),
		newVerseCommand(),
		newShareCommand(),
		newLoginCommand(),
		newLogoutCommand(),
		newAddCommand(),
		newEditCommand(),
		newDeleteCommand(),
		newStatsCommand(),
		newHealthCommand(),
	)
}

func newClient() *vithai.Client {
	return vithai.NewClient(baseURL)
}

func language() models.Language {
	return models.ParseLanguage(langCode)
}

func logger() zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().
		Timestamp().
		Logger()
}

// openSession restores the saved admin token for the current client.
func openSession(client *vithai.Client) (*session.Session, error) {
	creds := session.NewFileCredentials(client.ConfigDir)
	return session.New(client, creds, logger())
}

func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), time.Minute)
}

func printf(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
