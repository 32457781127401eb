package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"twitchapi/pkg/helix"
	"twitchapi/pkg/ui"
)

var (
	followsFromID string
	followsToID   string
)

// followsCmd represents the follows command
var followsCmd = &cobra.Command{
	Use:   "follows",
	Short: "Query follow relationships between users",
	Long: `Query follow relationships by user ID.

With only --from, lists the channels that user follows.
With only --to, lists that user's followers.
With both, checks whether the single directed edge exists.`,
	Example: `  # Channels user 123 follows
  twitchapi follows --from 123

  # Followers of user 456
  twitchapi follows --to 456

  # Does 123 follow 456?
  twitchapi follows --from 123 --to 456`,
	Run: runFollows,
}

func init() {
	rootCmd.AddCommand(followsCmd)
	followsCmd.Flags().StringVar(&followsFromID, "from", "", "user ID on the following side")
	followsCmd.Flags().StringVar(&followsToID, "to", "", "user ID on the followed side")
}

func runFollows(cmd *cobra.Command, args []string) {
	if followsFromID == "" && followsToID == "" {
		ui.PrintError("at least one of --from or --to is required")
		os.Exit(1)
	}

	client, _, err := buildClient()
	if err != nil {
		ui.PrintError("Failed to initialize client", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var resp *helix.FollowListResponse
	switch {
	case followsFromID != "" && followsToID != "":
		resp, err = client.GetFollowRelationship(ctx, followsFromID, followsToID)
	case followsFromID != "":
		resp, err = client.GetFollowersFrom(ctx, followsFromID)
	default:
		resp, err = client.GetFollowersTo(ctx, followsToID)
	}
	if err != nil {
		ui.PrintError("Failed to fetch follows", err)
		os.Exit(1)
	}

	if followsFromID != "" && followsToID != "" {
		if len(resp.Data) == 0 {
			fmt.Printf("%s does not follow %s\n", followsFromID, followsToID)
		} else {
			fmt.Printf("%s follows %s since %s\n", followsFromID, followsToID, resp.Data[0].FollowedAt)
		}
		return
	}

	ui.PrintInfo("Total", fmt.Sprintf("%d", resp.Total))
	for _, f := range resp.Data {
		fmt.Printf("%s -> %s (since %s)\n", f.FromName, f.ToName, f.FollowedAt)
	}
}
