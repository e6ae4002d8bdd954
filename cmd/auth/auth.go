// Package auth implements the Splitwise OAuth2 authorization command
package auth

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/dxue2012/bayclub-to-splitwise/cmd/root"
	"github.com/dxue2012/bayclub-to-splitwise/internal/config"
)

var redirectURL string

// Cmd represents the auth command
var Cmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize with Splitwise and store an access token",
	Long: `Walk through the Splitwise OAuth2 authorization flow. The resulting
access token is stored locally and picked up automatically by later runs.
Requires SPLITWISE_CLIENT_ID and SPLITWISE_CLIENT_SECRET from a registered
Splitwise application.`,
	RunE: authFunc,
}

// Init wires the auth command flags
func Init() {
	Cmd.Flags().StringVar(&redirectURL, "redirect-url", "https://localhost",
		"Redirect URL registered with the Splitwise application")
}

func authFunc(cmd *cobra.Command, args []string) error {
	cfg := root.Cfg
	if cfg.Splitwise.ClientID == "" || cfg.Splitwise.ClientSecret == "" {
		return fmt.Errorf("SPLITWISE_CLIENT_ID and SPLITWISE_CLIENT_SECRET must be set")
	}

	conf := &oauth2.Config{
		ClientID:     cfg.Splitwise.ClientID,
		ClientSecret: cfg.Splitwise.ClientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://secure.splitwise.com/oauth/authorize",
			TokenURL: "https://secure.splitwise.com/oauth/token",
		},
	}

	fmt.Println("Open this URL in a browser and authorize the application:")
	fmt.Println()
	fmt.Println("  " + conf.AuthCodeURL("state"))
	fmt.Println()
	fmt.Print("Paste the 'code' parameter from the redirect URL here: ")

	reader := bufio.NewReader(cmd.InOrStdin())
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("could not read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("no authorization code given")
	}

	token, err := conf.Exchange(cmd.Context(), code)
	if err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}

	if err := config.SaveToken(token.AccessToken); err != nil {
		return err
	}
	root.Log.Infof("Access token saved to %s", config.TokenFilePath())
	return nil
}
