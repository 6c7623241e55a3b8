package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jonathan/village-blogger/internal/analytics"
	"github.com/jonathan/village-blogger/internal/archive"
	"github.com/jonathan/village-blogger/internal/blogger"
	"github.com/jonathan/village-blogger/internal/collector"
	"github.com/jonathan/village-blogger/internal/config"
	"github.com/jonathan/village-blogger/internal/llm"
	"github.com/jonathan/village-blogger/internal/logging"
	"github.com/jonathan/village-blogger/internal/observability"
	"github.com/jonathan/village-blogger/internal/pipeline"
	"github.com/jonathan/village-blogger/internal/publishing"
	"github.com/jonathan/village-blogger/internal/telegram"
	"github.com/jonathan/village-blogger/internal/vk"
)

// app holds every component built from the configuration.
type app struct {
	cfg         *config.Config
	logger      logging.Logger
	llm         llm.Client
	collector   *collector.Collector
	recommender *analytics.Recommender
	synthesizer *blogger.Synthesizer
	publisher   *publishing.Publisher
	archive     *archive.Writer
	metrics     *observability.Metrics
	closeLog    func() error
}

// llmConfig applies the model overrides from the environment to the default Gemini models.
func llmConfig(cfg *config.Config) *llm.Config {
	return llm.DefaultConfig().
		WithModel(llm.TierStandard, cfg.GeminiTextModel).
		WithModel(llm.TierAdvanced, cfg.GeminiWriterModel).
		WithModel(llm.TierImage, cfg.GeminiImageModel)
}

// requiredTiers lists the model tiers a cycle uses.
func requiredTiers(cfg *config.Config) []llm.ModelTier {
	tiers := []llm.ModelTier{llm.TierStandard, llm.TierAdvanced}
	if cfg.ImagePosts {
		tiers = append(tiers, llm.TierImage)
	}
	return tiers
}

// newApp loads the configuration and wires the components. Missing configuration is fatal here
// and nowhere else.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.NewLogger(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(ctx, llmConfig(cfg), cfg.GeminiAPIKey)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	if err := client.CheckCapabilities(ctx, requiredTiers(cfg)...); err != nil {
		_ = client.Close()
		_ = closeLog()
		return nil, err
	}

	ownerID, err := cfg.WallOwnerID()
	if err != nil {
		_ = client.Close()
		_ = closeLog()
		return nil, err
	}

	loc := cfg.Location()
	vkClient := vk.NewClient(cfg.VKAccessToken, cfg.VKAPIVersion, vk.DefaultOptions())
	tgClient := telegram.NewClient(cfg.TGBotToken, nil)

	return &app{
		cfg:    cfg,
		logger: logger,
		llm:    client,
		collector: collector.New(vkClient, collector.Options{
			NewsFeed: cfg.VKGroupScreenName,
			BlogFeed: cfg.VKBlogGroup,
			Interval: cfg.VKRequestInterval,
		}, logger),
		recommender: analytics.NewRecommender(client, loc, logger),
		synthesizer: blogger.New(client, blogger.Options{
			Location: loc,
			ImageDir: filepath.Join(cfg.DataDir, "images"),
		}, logger),
		publisher: publishing.NewPublisher(logger,
			publishing.NewWallChannel(vkClient, ownerID, logger),
			publishing.NewTelegramChannel(tgClient, cfg.TGChatID),
		),
		archive:  archive.NewWriter(cfg.DataDir),
		metrics:  observability.NewMetrics(),
		closeLog: closeLog,
	}, nil
}

// cycle builds the posting cycle over the app's components.
func (a *app) cycle() *pipeline.Cycle {
	return pipeline.NewCycle(a.collector, a.recommender, a.synthesizer, a.publisher, a.archive, pipeline.Options{
		ImagePosts: a.cfg.ImagePosts,
		Location:   a.cfg.Location(),
		Metrics:    a.metrics,
	}, a.logger)
}

func (a *app) Close() {
	if err := a.llm.Close(); err != nil {
		a.logger.WithError(err).Warn("Failed to close LLM client")
	}
	_ = a.closeLog()
}
