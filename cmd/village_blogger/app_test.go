package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/village-blogger/internal/config"
	"github.com/jonathan/village-blogger/internal/llm"
)

func TestLLMConfig_Overrides(t *testing.T) {
	cfg := &config.Config{GeminiWriterModel: "gemini-2.5-pro"}
	got := llmConfig(cfg)

	defaults := llm.DefaultConfig()
	assert.Equal(t, "gemini-2.5-pro", got.GetModel(llm.TierAdvanced))
	assert.Equal(t, defaults.GetModel(llm.TierStandard), got.GetModel(llm.TierStandard))
	assert.Equal(t, defaults.GetModel(llm.TierImage), got.GetModel(llm.TierImage))
}

func TestRequiredTiers(t *testing.T) {
	assert.Equal(t, []llm.ModelTier{llm.TierStandard, llm.TierAdvanced}, requiredTiers(&config.Config{}))
	assert.Contains(t, requiredTiers(&config.Config{ImagePosts: true}), llm.TierImage)
}

func TestCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["test"])
	assert.NotNil(t, rootCmd.Flags().Lookup("once"))
	assert.Equal(t, "сезонные работы в огороде", testCmd.Flags().Lookup("topic").DefValue)
}
