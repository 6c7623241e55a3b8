// Package blogger writes village blog posts with the writer model.
package blogger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/village-blogger/internal/llm"
	"github.com/jonathan/village-blogger/internal/logging"
	"github.com/jonathan/village-blogger/internal/prompts"
	"github.com/jonathan/village-blogger/internal/types"
)

// Options configures a Synthesizer.
type Options struct {
	Location *time.Location   // clock zone for the time context, defaults to time.Local
	ImageDir string           // where generated images are written
	Now      func() time.Time // clock, defaults to time.Now
}

// Synthesizer turns a topic into post text, optionally with an illustration.
type Synthesizer struct {
	client   llm.Client
	loc      *time.Location
	imageDir string
	now      func() time.Time
	logger   logging.Logger
}

// New creates a Synthesizer.
func New(client llm.Client, opts Options, logger logging.Logger) *Synthesizer {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ImageDir == "" {
		opts.ImageDir = filepath.Join("data", "images")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Synthesizer{
		client:   client,
		loc:      opts.Location,
		imageDir: opts.ImageDir,
		now:      opts.Now,
		logger:   logger,
	}
}

// Fallback is the text used when the writer model gives nothing usable.
func Fallback(topic string) string {
	return fmt.Sprintf("Сегодня поговорим о %s.", topic)
}

// BuildPrompt renders the writer prompt. The prior digest lists posts already published so
// the model does not repeat them; an empty digest omits that block.
func BuildPrompt(topic, timeContext, priorDigest string) string {
	prior := ""
	if strings.TrimSpace(priorDigest) != "" {
		prior = prompts.Render(prompts.BloggerFile, "prior-posts", map[string]string{
			"Digest": priorDigest,
		})
	}
	return prompts.Render(prompts.BloggerFile, "write-post", map[string]string{
		"Persona":     prompts.MustGet(prompts.BloggerFile, "persona"),
		"Topic":       topic,
		"TimeContext": timeContext,
		"Prior":       prior,
	})
}

// Synthesize writes a post about topic. It never fails: generation errors and empty replies
// produce the Fallback text.
func (s *Synthesizer) Synthesize(ctx context.Context, topic, priorDigest string) types.GeneratedPost {
	prompt := s.prompt(topic, priorDigest)

	text, err := s.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		s.logger.WithError(err).WithField("topic", topic).Error("Post generation failed, using fallback")
		return s.fallback(topic)
	}
	text = llm.CleanText(text)
	if text == "" {
		s.logger.WithField("topic", topic).Warn("Empty post from model, using fallback")
		return s.fallback(topic)
	}

	s.logger.WithFields(logging.Fields{"topic": topic, "length": len([]rune(text))}).Info("Post generated")
	return types.GeneratedPost{Topic: topic, Text: text}
}

// SynthesizeWithImage writes a post and asks the image model for an illustration. If the
// image service fails the Fallback text is returned without an image. A reply without a
// usable image keeps its text.
func (s *Synthesizer) SynthesizeWithImage(ctx context.Context, topic, priorDigest string) types.GeneratedPost {
	prompt := prompts.Render(prompts.BloggerFile, "with-image", map[string]string{
		"Prompt": s.prompt(topic, priorDigest),
	})

	resp, err := s.client.GenerateMultimodal(ctx, prompt, llm.TierImage)
	if err != nil {
		s.logger.WithError(err).WithField("topic", topic).Error("Image post generation failed, using fallback")
		return s.fallback(topic)
	}

	post := types.GeneratedPost{Topic: topic, Text: llm.CleanText(resp.Text)}
	if post.Text == "" {
		s.logger.WithField("topic", topic).Warn("Image reply had no text, using fallback")
		post = s.fallback(topic)
	}

	if len(resp.Images) == 0 {
		s.logger.WithField("topic", topic).Warn("Image reply had no image")
		return post
	}
	path, err := s.saveImage(resp.Images[0])
	if err != nil {
		s.logger.WithError(err).Error("Failed to save generated image")
		return post
	}
	post.ImagePath = path

	s.logger.WithFields(logging.Fields{"topic": topic, "image": path}).Info("Post with image generated")
	return post
}

func (s *Synthesizer) prompt(topic, priorDigest string) string {
	return BuildPrompt(topic, TimeContext(s.now().In(s.loc)), priorDigest)
}

func (s *Synthesizer) fallback(topic string) types.GeneratedPost {
	return types.GeneratedPost{Topic: topic, Text: Fallback(topic), Fallback: true}
}

// saveImage writes img under the image directory with a random name.
func (s *Synthesizer) saveImage(img llm.Image) (string, error) {
	if len(img.Data) == 0 {
		return "", fmt.Errorf("image has no data")
	}
	if err := os.MkdirAll(s.imageDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}
	path := filepath.Join(s.imageDir, uuid.New().String()+extension(img.MIMEType))
	if err := os.WriteFile(path, img.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path, nil
}

func extension(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
