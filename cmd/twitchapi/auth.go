package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"twitchapi/pkg/auth"
	"twitchapi/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Twitch credentials",
	Long: `Manage stored Twitch application credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your client ID and token pair!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [profile]",
	Short: "Store Twitch credentials securely",
	Long: `Store a Twitch client ID and app access token under a profile name.

You will be prompted for:
  - Profile name (if not provided)
  - Client ID (from the Twitch developer console)
  - App access token (entered without echo)`,
	Example: `  # Interactive login
  twitchapi auth login

  # Login under a named profile
  twitchapi auth login production`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout <profile>",
	Short: "Remove stored credentials",
	Args:  cobra.ExactArgs(1),
	Run:   runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored credential profiles",
	Run:   runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err)
		os.Exit(1)
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	if name == "" {
		fmt.Print("Profile name [default]: ")
		line, _ := reader.ReadString('\n')
		name = strings.TrimSpace(line)
		if name == "" {
			name = "default"
		}
	}

	fmt.Print("Client ID: ")
	clientID, _ := reader.ReadString('\n')
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		ui.PrintError("Client ID is required")
		os.Exit(1)
	}

	fmt.Print("App access token: ")
	tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		ui.PrintError("Failed to read token", err)
		os.Exit(1)
	}
	token := strings.TrimSpace(string(tokenBytes))
	if token == "" {
		ui.PrintError("Token is required")
		os.Exit(1)
	}

	profile := &auth.Profile{
		Name:      name,
		ClientID:  clientID,
		AuthToken: token,
	}

	if err := manager.Store(profile); err != nil {
		ui.PrintError("Failed to store credentials", err)
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("Credentials stored for profile %q", name))
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err)
		os.Exit(1)
	}

	if err := manager.Delete(args[0]); err != nil {
		ui.PrintError("Failed to remove credentials", err)
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("Removed profile %q", args[0]))
}

func runList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err)
		os.Exit(1)
	}

	profiles, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list profiles", err)
		os.Exit(1)
	}

	if len(profiles) == 0 {
		fmt.Println("no stored profiles")
		return
	}

	for _, p := range profiles {
		sanitized := auth.SanitizeProfile(p)
		fmt.Printf("%s\tclient_id=%s\ttoken=%s\tmodified=%s\n",
			sanitized.Name, sanitized.ClientID, sanitized.AuthToken,
			sanitized.LastModified.Format("2006-01-02 15:04"))
	}
}
