package commands

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the hkbase URL and auth token",
		Long:  "Prompt for an authentication token and persist it with the hkbase URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = viper.GetString("url")
			}

			if url == "" {
				fmt.Print("hkbase URL: ")

				if _, err := fmt.Scanln(&url); err != nil {
					return fmt.Errorf("failed to read URL: %w", err)
				}
			}

			fmt.Print("Token (leave empty for none): ")

			byteToken, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}

			fmt.Println()

			viper.Set("url", strings.TrimSpace(url))
			viper.Set("token", strings.TrimSpace(string(byteToken)))

			if err := saveConfig(); err != nil {
				return err
			}

			fmt.Println("Configuration saved.")

			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "hkbase URL")

	return cmd
}
