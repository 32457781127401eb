package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"twitchapi/internal/watcher"
	"twitchapi/pkg/ui"
)

var watchInterval time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <login>...",
	Short: "Watch channels and report live-status changes",
	Long: `Watch one or more channels and print an event whenever a channel
goes live or offline. Polling is spread across requests of up to 100
channels each and throttled by the shared rate limiter.`,
	Example: `  # Watch two channels, polling every 30 seconds
  twitchapi watch somestreamer otherstreamer --interval 30s`,
	Args: cobra.MinimumNArgs(1),
	Run:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Minute, "poll interval")
}

func runWatch(cmd *cobra.Command, args []string) {
	client, cfg, err := buildClient()
	if err != nil {
		ui.PrintError("Failed to initialize client", err)
		os.Exit(1)
	}

	interval := watchInterval
	if !cmd.Flags().Changed("interval") && cfg.Watch.Interval > 0 {
		interval = cfg.Watch.Interval
	}

	w := watcher.New(client, args, interval, cfg.Watch.MaxConcurrent, nil)
	w.Start()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	fmt.Printf("watching %d channel(s), poll interval %s\n", len(args), interval)

	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				return
			}
			switch ev.Kind {
			case watcher.EventWentLive:
				fmt.Printf("[%s] %s %s playing %s: %s\n",
					ev.At.Format("15:04:05"), ui.LiveBadge(true),
					ev.Stream.UserName, ev.Stream.GameName, ev.Stream.Title)
			case watcher.EventWentOffline:
				fmt.Printf("[%s] %s %s\n",
					ev.At.Format("15:04:05"), ui.LiveBadge(false), ev.Login)
			}
		case <-sigs:
			fmt.Println("\nshutting down")
			w.Stop()
			return
		}
	}
}
