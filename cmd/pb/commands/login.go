package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/pocketbase-client/pkg/pbclient"
	"github.com/fivetwenty-io/pocketbase-client/pkg/pocketbase"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		serverURL  string
		identity   string
		password   string
		collection string
		superuser  bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to PocketBase",
		Long:  "Authenticate against a PocketBase server and store the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get server URL
			if serverURL == "" {
				serverURL = effectiveURL()
			}

			if serverURL == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Server URL: ")
				serverURL, _ = reader.ReadString('\n')
				serverURL = strings.TrimSpace(serverURL)
			}

			if serverURL == "" {
				return fmt.Errorf("server URL is required")
			}

			if identity == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Identity (email or username): ")
				identity, _ = reader.ReadString('\n')
				identity = strings.TrimSpace(identity)
			}

			if password == "" {
				fmt.Print("Password: ")
				bytePassword, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = string(bytePassword)
				fmt.Println()
			}

			if collection == "" {
				collection = effectiveAuthCollection()
			}

			config := &pocketbase.Config{
				BaseURL:        serverURL,
				AuthCollection: collection,
			}

			client, err := pbclient.New(config)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			ctx := context.Background()

			var token string

			if superuser {
				result, err := client.Admins().AuthWithPassword(ctx, identity, password)
				if err != nil {
					return fmt.Errorf("failed to authenticate: %w", err)
				}

				token = result.Token
			} else {
				result, err := client.Auth().AuthWithPassword(ctx, identity, password)
				if err != nil {
					return fmt.Errorf("failed to authenticate: %w", err)
				}

				token = result.Token
			}

			// Persist the token, never the password
			configStruct := loadConfig()
			configStruct.URL = client.BaseURL()
			configStruct.Token = token
			configStruct.AuthCollection = collection
			configStruct.Identity = identity
			configStruct.Superuser = superuser

			if err := saveConfig(configStruct); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Printf("Successfully logged in to %s\n", client.BaseURL())
			if superuser {
				fmt.Println("Authenticated as superuser")
			}

			return nil
		},
	}

	// Add flags
	cmd.Flags().StringVarP(&serverURL, "url", "u", "", "PocketBase server URL")
	cmd.Flags().StringVarP(&identity, "identity", "i", "", "email or username for authentication")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for authentication")
	cmd.Flags().StringVar(&collection, "collection", "", "auth collection name (default \"users\")")
	cmd.Flags().BoolVar(&superuser, "admin", false, "authenticate as a superuser")

	return cmd
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout from PocketBase",
		Long:  "Clear the stored authentication token",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.Token = ""
			config.Identity = ""
			config.Superuser = false

			if err := saveConfig(config); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Println("Successfully logged out")
			return nil
		},
	}
}
