// cmd/commentwatch/cmd_setup.go
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/commentwatch/internal/config"
	"github.com/user/commentwatch/internal/scheduler"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		scanner := bufio.NewScanner(os.Stdin)

		fmt.Println("Commentwatch Setup Wizard")
		fmt.Println("Press Enter to accept the default value shown in brackets.")
		fmt.Println()

		// 1. YouTube API key
		cfg.YouTube.APIKey = prompt(scanner, "YouTube API key", cfg.YouTube.APIKey)

		// 2. Scan target: a fixed video wins over everything else
		cfg.YouTube.VideoID = prompt(scanner, "Video ID to watch (optional)", cfg.YouTube.VideoID)

		// 3. Channel target (used when no video ID is set)
		cfg.YouTube.ChannelID = prompt(scanner, "Channel ID to watch (optional)", cfg.YouTube.ChannelID)

		// 4. Keyword search fallback
		cfg.YouTube.SearchKeyword = prompt(scanner, "Search keyword", cfg.YouTube.SearchKeyword)

		// 5. Cron schedule for serve mode
		if expr := prompt(scanner, "Scan schedule (cron)", cfg.Schedule); expr != cfg.Schedule {
			if err := scheduler.ValidateSchedule(expr); err != nil {
				fmt.Println(err)
				fmt.Println("Keeping", cfg.Schedule)
			} else {
				cfg.Schedule = expr
			}
		}

		// 6. Telegram bot token (optional)
		cfg.Telegram.Token = prompt(scanner, "Telegram bot token (optional)", cfg.Telegram.Token)

		// 7. Telegram chat ID (optional)
		chatIDStr := ""
		if cfg.Telegram.ChatID != 0 {
			chatIDStr = strconv.FormatInt(cfg.Telegram.ChatID, 10)
		}
		chatIDStr = prompt(scanner, "Telegram chat ID (optional)", chatIDStr)
		if id, err := strconv.ParseInt(chatIDStr, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}

		if err := config.Save(cfgPath, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		fmt.Println()
		fmt.Println("Configuration saved to", cfgPath)
		return nil
	},
}

// prompt displays a labeled prompt with a default value and reads user input.
// If the user enters nothing, the default is returned.
func prompt(scanner *bufio.Scanner, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("%s: ", label)
	}
	if scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input != "" {
			return input
		}
	}
	return defaultVal
}
