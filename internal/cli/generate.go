package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"g"},
	Short:   "Generate theme resources",
	Long: `Add a resource to the theme's manifests along with its markup file.

Examples:
  pagecraft generate content_template "Blog Post"
  pagecraft generate layout "Landing Page"
  pagecraft generate navigation "Footer"`,
}

var generateContentTemplateCmd = &cobra.Command{
	Use:     "content_template <title>",
	Aliases: []string{"ct"},
	Short:   "Add a content template with one block and one display",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := findProject()
		if err := p.GenerateContentTemplate(args[0]); err != nil {
			exitError("%v", err)
		}
		color.New(color.FgGreen).Printf("Added content template '%s'\n", args[0])
	},
}

var generateLayoutCmd = &cobra.Command{
	Use:   "layout <title>",
	Short: "Add a layout with starter markup",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := findProject()
		if err := p.GenerateLayout(args[0]); err != nil {
			exitError("%v", err)
		}
		color.New(color.FgGreen).Printf("Added layout '%s'\n", args[0])
	},
}

var generateNavigationCmd = &cobra.Command{
	Use:     "navigation <title>",
	Aliases: []string{"nav"},
	Short:   "Add a navigation with starter markup",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := findProject()
		if err := p.GenerateNavigation(args[0]); err != nil {
			exitError("%v", err)
		}
		color.New(color.FgGreen).Printf("Added navigation '%s'\n", args[0])
	},
}

func init() {
	generateCmd.AddCommand(generateContentTemplateCmd)
	generateCmd.AddCommand(generateLayoutCmd)
	generateCmd.AddCommand(generateNavigationCmd)
}
