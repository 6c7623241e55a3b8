package llm

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// generateContentMethod is the generation method every configured model must support
const generateContentMethod = "generateContent"

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates text content using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateMultimodal generates text and image parts using the specified model tier
	GenerateMultimodal(ctx context.Context, prompt string, tier ModelTier) (*Response, error)
	// CheckCapabilities verifies that the models behind tiers exist and can generate content
	CheckCapabilities(ctx context.Context, tiers ...ModelTier) error
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// Image is binary image data returned by an image-capable model
type Image struct {
	MIMEType string
	Data     []byte
}

// Response holds every part of a multimodal reply
type Response struct {
	Text   string
	Images []Image
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, &APICallError{Message: "API key is required"}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &APICallError{Message: "failed to create Gemini client", Cause: err}
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

func (c *GeminiClient) model(tier ModelTier) (*genai.GenerativeModel, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.GetTemperature(tier))
	return model, nil
}

// GenerateContent generates text content using the specified model tier
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier)
	if err != nil {
		return "", err
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &APICallError{Message: "failed to generate content", Model: c.GetModel(tier), Cause: err}
	}

	return extractTextFromResponse(resp)
}

// GenerateMultimodal generates content that may mix text and inline image data
func (c *GeminiClient) GenerateMultimodal(ctx context.Context, prompt string, tier ModelTier) (*Response, error) {
	model, err := c.model(tier)
	if err != nil {
		return nil, err
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &APICallError{Message: "failed to generate content", Model: c.GetModel(tier), Cause: err}
	}

	return extractParts(resp)
}

// CheckCapabilities asks the API for each distinct model behind tiers and fails on the first
// model that is unknown or cannot generate content.
func (c *GeminiClient) CheckCapabilities(ctx context.Context, tiers ...ModelTier) error {
	seen := make(map[string]bool)
	for _, tier := range tiers {
		name := c.config.GetModel(tier)
		if name == "" {
			return &CapabilityError{Tier: tier, Reason: "no model configured"}
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		info, err := c.client.GenerativeModel(name).Info(ctx)
		if err != nil {
			return &CapabilityError{Tier: tier, Model: name, Reason: "model lookup failed", Cause: err}
		}
		if err := checkModelInfo(tier, name, info); err != nil {
			return err
		}
	}
	return nil
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func checkModelInfo(tier ModelTier, name string, info *genai.ModelInfo) error {
	if info == nil {
		return &CapabilityError{Tier: tier, Model: name, Reason: "empty model info"}
	}
	if !slices.Contains(info.SupportedGenerationMethods, generateContentMethod) {
		return &CapabilityError{
			Tier:   tier,
			Model:  name,
			Reason: fmt.Sprintf("%s not supported (supports: %s)", generateContentMethod, strings.Join(info.SupportedGenerationMethods, ", ")),
		}
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	parts, err := extractParts(resp)
	if err != nil {
		return "", err
	}
	if parts.Text == "" {
		return "", &ParseError{Message: "no text parts in response"}
	}
	return parts.Text, nil
}

// extractParts splits the first candidate into text and image parts
func extractParts(resp *genai.GenerateContentResponse) (*Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, &ParseError{Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, &ParseError{Message: "no content in response"}
	}

	var texts []string
	out := &Response{}
	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			texts = append(texts, string(p))
		case genai.Blob:
			if strings.HasPrefix(p.MIMEType, "image/") && len(p.Data) > 0 {
				out.Images = append(out.Images, Image{MIMEType: p.MIMEType, Data: p.Data})
			}
		}
	}

	out.Text = strings.TrimSpace(strings.Join(texts, ""))
	if out.Text == "" && len(out.Images) == 0 {
		return nil, &ParseError{Message: "no usable parts in response"}
	}
	return out, nil
}
