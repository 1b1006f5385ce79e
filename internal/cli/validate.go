package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/pagecraft/pagecraft-cli/internal/theme"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the theme project structure",
	Long: `Run the structural validation a push performs before touching the
server: manifest syntax, naming rules, and markup file references.`,
	Args: cobra.NoArgs,
	Run:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) {
	p := findProject()

	problems := p.Validate()
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	errs := 0
	for _, prob := range problems {
		if prob.Severity == theme.SeverityError {
			errs++
			red.Println(prob.Message)
		} else {
			yellow.Println(prob.Message)
		}
	}

	if errs > 0 {
		exitError("%d problem(s) found", errs)
	}

	green := color.New(color.FgGreen)
	green.Println("Theme is valid.")
	if warnings := len(problems) - errs; warnings > 0 {
		fmt.Printf("(%d warning(s))\n", warnings)
	}
}
