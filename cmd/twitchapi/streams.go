package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"twitchapi/pkg/ui"
)

// streamsCmd represents the streams command
var streamsCmd = &cobra.Command{
	Use:   "streams <login>...",
	Short: "Show live streams for one or more channels",
	Example: `  # Check a single channel
  twitchapi streams somestreamer

  # Check several channels at once
  twitchapi streams somestreamer otherstreamer`,
	Args: cobra.MinimumNArgs(1),
	Run:  runStreams,
}

func init() {
	rootCmd.AddCommand(streamsCmd)
}

func runStreams(cmd *cobra.Command, args []string) {
	client, _, err := buildClient()
	if err != nil {
		ui.PrintError("Failed to initialize client", err)
		os.Exit(1)
	}

	resp, err := client.GetStreams(context.Background(), args...)
	if err != nil {
		ui.PrintError("Failed to fetch streams", err)
		os.Exit(1)
	}

	live := make(map[string]bool, len(resp.Data))
	for _, s := range resp.Data {
		live[s.UserLogin] = true
		fmt.Printf("%s %s playing %s: %s (%d viewers)\n",
			ui.LiveBadge(true), s.UserName, s.GameName, s.Title, s.ViewerCount)
	}

	for _, login := range args {
		if !live[login] {
			fmt.Printf("%s %s\n", ui.LiveBadge(false), login)
		}
	}
}
