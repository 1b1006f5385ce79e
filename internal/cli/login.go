package cli

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/pagecraft/pagecraft-cli/internal/api"
	"github.com/pagecraft/pagecraft-cli/internal/config"
	"github.com/spf13/cobra"
)

var loginEndpoint string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the Pagecraft service",
	Long: `Authenticate against a Pagecraft endpoint and store the OAuth tokens.

Inside a theme project the endpoint is read from theme.json; elsewhere
pass it with --endpoint.`,
	Args: cobra.NoArgs,
	Run:  runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginEndpoint, "endpoint", "", "Service endpoint URL")
	logoutCmd.Flags().StringVar(&loginEndpoint, "endpoint", "", "Service endpoint URL")
}

func runLogin(cmd *cobra.Command, args []string) {
	endpoint := loginEndpoint
	if endpoint == "" {
		project := findProject()
		endpoint = project.Settings.Endpoint
	}
	if endpoint == "" {
		exitError("no endpoint configured: set it in theme.json or pass --endpoint")
	}

	var answers struct {
		Email    string
		Password string
	}
	questions := []*survey.Question{
		{
			Name:     "email",
			Prompt:   &survey.Input{Message: "Email:"},
			Validate: survey.Required,
		},
		{
			Name:     "password",
			Prompt:   &survey.Password{Message: "Password:"},
			Validate: survey.Required,
		},
	}
	if err := survey.Ask(questions, &answers); err != nil {
		exitError("%v", err)
	}

	tok, err := api.PasswordToken(context.Background(), endpoint, answers.Email, answers.Password)
	if err != nil {
		exitError("login failed: %v", err)
	}

	store := openCredentials()
	store.Set(endpoint, config.Credentials{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	})
	if err := store.Save(); err != nil {
		exitError("%v", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("Logged in to %s\n", endpoint)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget stored credentials",
	Args:  cobra.NoArgs,
	Run:   runLogout,
}

func runLogout(cmd *cobra.Command, args []string) {
	endpoint := loginEndpoint
	if endpoint == "" {
		project := findProject()
		endpoint = project.Settings.Endpoint
	}

	store := openCredentials()
	if _, ok := store.Get(endpoint); !ok {
		fmt.Printf("No credentials stored for %s\n", endpoint)
		return
	}

	store.Delete(endpoint)
	if err := store.Save(); err != nil {
		exitError("%v", err)
	}

	fmt.Printf("Logged out of %s\n", endpoint)
}
