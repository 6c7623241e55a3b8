package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/village-blogger/internal/analytics"
	"github.com/jonathan/village-blogger/internal/observability"
)

var (
	testTopic string
	testCount int
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Generate one post without publishing and print blog engagement",
	Long: `Write a single post on a fixed topic and print it, then print the average engagement of the
latest posts on our own community wall. Nothing is published and nothing is scheduled.`,
	RunE: runTest,
}

func init() {
	testCmd.Flags().StringVar(&testTopic, "topic", "сезонные работы в огороде", "Topic of the test post")
	testCmd.Flags().IntVar(&testCount, "count", 20, "Number of recent wall posts used for engagement stats")
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	printer := observability.NewPrinter(cmd.OutOrStdout())

	post := a.synthesizer.Synthesize(ctx, testTopic, "")
	printer.PrintPost(&post)

	posts, err := a.collector.Recent(ctx, a.cfg.VKGroupID, testCount)
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}
	printer.PrintStats(analytics.EngagementStats(posts))
	return nil
}
