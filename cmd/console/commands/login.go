package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/cmd/console/output"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print an access token",
	Long: `Log in with --user and --password and print the access token.

Export it as TRIPGUIDES_TOKEN to skip the login on later commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token = ""
		c, err := client(cmd.Context(), true)
		if err != nil {
			return err
		}
		if jsonOutput {
			fmt.Printf("{\"accessToken\":%q}\n", c.Token)
			return nil
		}
		output.Success("Logged in as %s", username)
		fmt.Println(c.Token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
