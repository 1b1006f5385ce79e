// Package cli implements the command-line interface for pagecraft.
package cli

import (
	"fmt"
	"os"

	"github.com/pagecraft/pagecraft-cli/internal/config"
	"github.com/pagecraft/pagecraft-cli/internal/theme"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pagecraft",
	Short: "Pagecraft theme tool",
	Long: `pagecraft is the command-line client for the Pagecraft theming service.
Scaffold a theme project, validate its structure, and push it to your site.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(versionCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// findProject locates the enclosing theme project or exits.
func findProject() *theme.Project {
	p, err := theme.Find()
	if err != nil {
		exitError("%v", err)
	}
	return p
}

// openCredentials loads the credential store or exits.
func openCredentials() *config.CredentialStore {
	path, err := config.DefaultCredentialsPath()
	if err != nil {
		exitError("%v", err)
	}
	store, err := config.LoadCredentials(path)
	if err != nil {
		exitError("%v", err)
	}
	return store
}
