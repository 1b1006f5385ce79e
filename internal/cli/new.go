package cli

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/pagecraft/pagecraft-cli/internal/theme"
	"github.com/spf13/cobra"
)

var newEndpoint string

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Scaffold a new theme project",
	Long: `Create a theme project directory with the standard layout:

  assets/ partials/ navigation/ content_templates/ layouts/

plus starter manifests and a default layout.

Examples:
  pagecraft new my-theme
  pagecraft new my-theme --endpoint https://mysite.pagecraft.io`,
	Args: cobra.ExactArgs(1),
	Run:  runNew,
}

func init() {
	newCmd.Flags().StringVar(&newEndpoint, "endpoint", "", "Service endpoint URL to write into theme.json")
}

func runNew(cmd *cobra.Command, args []string) {
	name := args[0]
	dir, err := filepath.Abs(name)
	if err != nil {
		exitError("%v", err)
	}

	if _, err := theme.Scaffold(dir, name, newEndpoint); err != nil {
		exitError("%v", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("Created theme project '%s'\n", name)
	if newEndpoint == "" {
		fmt.Println("Set the endpoint in theme.json before pushing.")
	}
}
