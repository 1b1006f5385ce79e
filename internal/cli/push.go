package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/pagecraft/pagecraft-cli/internal/api"
	"github.com/pagecraft/pagecraft-cli/internal/config"
	"github.com/pagecraft/pagecraft-cli/internal/push"
	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push the theme to your site",
	Long: `Upload the local theme as a new version of your site's theme and publish it.

Must be run from within a theme project, after 'pagecraft login'.
The push validates the project first and makes no changes on the server
if validation fails.`,
	Args: cobra.NoArgs,
	Run:  runPush,
}

func runPush(cmd *cobra.Command, args []string) {
	project := findProject()
	endpoint := project.Settings.Endpoint

	store := openCredentials()
	creds, ok := store.Get(endpoint)
	if !ok || creds.RefreshToken == "" {
		exitError("not logged in to %s, run 'pagecraft login' first", endpoint)
	}

	client := api.NewClient(endpoint, api.Credentials{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
	}, &api.RefreshSource{Endpoint: endpoint, Token: creds.RefreshToken})

	client.OnRefresh = func(c api.Credentials) {
		store.Set(endpoint, config.Credentials{
			AccessToken:  c.AccessToken,
			RefreshToken: c.RefreshToken,
		})
		if err := store.Save(); err != nil {
			color.New(color.FgYellow).Printf("warning: could not save refreshed credentials: %v\n", err)
		}
	}

	fmt.Printf("Pushing '%s' to %s...\n", project.Settings.Name, endpoint)

	report := &push.Report{}
	result, err := push.Run(context.Background(), client, project, report)

	printReport(report)

	if err != nil {
		exitError("push failed")
	}

	green := color.New(color.FgGreen)
	green.Printf("Theme '%s' pushed and published.\n", project.Settings.Name)

	if result.AssetsUploaded > 0 || result.AssetsReused > 0 {
		fmt.Printf("  assets: %d uploaded, %d already on the server\n", result.AssetsUploaded, result.AssetsReused)
	}
	if result.Partials > 0 {
		fmt.Printf("  partials: %d\n", result.Partials)
	}
	if result.Navigations > 0 {
		fmt.Printf("  navigations: %d\n", result.Navigations)
	}
	if result.ContentTemplates > 0 {
		fmt.Printf("  content templates: %d\n", result.ContentTemplates)
	}
	if result.Layouts > 0 {
		fmt.Printf("  layouts: %d (%d regions updated)\n", result.Layouts, result.RegionsUpdated)
	}
}

func printReport(report *push.Report) {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	for _, m := range report.Messages() {
		if m.Severity == push.SeverityError {
			red.Println(m.Text)
		} else {
			yellow.Println(m.Text)
		}
	}
}
