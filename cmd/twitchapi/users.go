package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"twitchapi/pkg/ui"
)

// usersCmd represents the users command
var usersCmd = &cobra.Command{
	Use:   "users <login>...",
	Short: "Look up Twitch user accounts by login",
	Args:  cobra.MinimumNArgs(1),
	Run:   runUsers,
}

func init() {
	rootCmd.AddCommand(usersCmd)
}

func runUsers(cmd *cobra.Command, args []string) {
	client, _, err := buildClient()
	if err != nil {
		ui.PrintError("Failed to initialize client", err)
		os.Exit(1)
	}

	resp, err := client.GetUsers(context.Background(), args...)
	if err != nil {
		ui.PrintError("Failed to fetch users", err)
		os.Exit(1)
	}

	if len(resp.Data) == 0 {
		fmt.Println("no users found")
		return
	}

	for _, u := range resp.Data {
		ui.PrintInfo("ID", u.ID)
		ui.PrintInfo("Login", u.Login)
		ui.PrintInfo("Display name", u.DisplayName)
		if u.BroadcasterType != "" {
			ui.PrintInfo("Broadcaster type", u.BroadcasterType)
		}
		if u.Description != "" {
			ui.PrintInfo("Description", u.Description)
		}
		ui.PrintInfo("Created", u.CreatedAt)
		fmt.Println()
	}
}
