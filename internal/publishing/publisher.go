// Package publishing delivers generated posts to the VK wall and the Telegram chat.
package publishing

import (
	"context"
	"fmt"

	"github.com/jonathan/village-blogger/internal/logging"
	"github.com/jonathan/village-blogger/internal/types"
)

// Channel is one publishing destination.
type Channel interface {
	Name() types.Channel
	// Send publishes the post and returns the destination's id for it.
	Send(ctx context.Context, post types.GeneratedPost) (int64, error)
}

// Publisher sends a post to every channel once, in order.
type Publisher struct {
	channels []Channel
	logger   logging.Logger
}

// NewPublisher creates a Publisher over channels.
func NewPublisher(logger logging.Logger, channels ...Channel) *Publisher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Publisher{channels: channels, logger: logger}
}

// Publish makes one attempt per channel. A failing or panicking channel is logged and
// recorded in its result and does not stop the others. Nothing is retried or rolled back.
func (p *Publisher) Publish(ctx context.Context, post types.GeneratedPost) []types.PublishResult {
	results := make([]types.PublishResult, 0, len(p.channels))
	for _, ch := range p.channels {
		result := p.send(ctx, ch, post)
		entry := p.logger.WithFields(logging.Fields{"channel": result.Channel, "id": result.ID})
		if result.OK {
			entry.Info("Post published")
		} else {
			entry.WithField("error", result.Error).Error("Publishing failed")
		}
		results = append(results, result)
	}
	return results
}

func (p *Publisher) send(ctx context.Context, ch Channel, post types.GeneratedPost) (result types.PublishResult) {
	result.Channel = ch.Name()
	defer func() {
		if r := recover(); r != nil {
			result.OK = false
			result.ID = 0
			result.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	id, err := ch.Send(ctx, post)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.OK = true
	result.ID = id
	return result
}
