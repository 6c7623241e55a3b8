// Package main provides the entry point for the village blogger scheduler.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "village_blogger",
	Short: "Village blogger posting scheduler",
	Long: "Village blogger reads a local news feed, asks Gemini for topics, writes a post in the " +
		"village blogger persona and publishes it to the VK community wall and a Telegram chat on a fixed schedule.",
	SilenceUsage: true,
	RunE:         runScheduler,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
