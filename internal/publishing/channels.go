package publishing

import (
	"context"

	"github.com/jonathan/village-blogger/internal/logging"
	"github.com/jonathan/village-blogger/internal/telegram"
	"github.com/jonathan/village-blogger/internal/types"
)

// WallAPI is the subset of the VK client used to publish on the community wall.
type WallAPI interface {
	PostToWall(ctx context.Context, ownerID int64, message string, attachments ...string) (int64, error)
	UploadWallPhoto(ctx context.Context, groupID int64, path string) (string, error)
}

// MessengerAPI is the subset of the Telegram client used to publish to the chat.
type MessengerAPI interface {
	SendMessage(ctx context.Context, chatID, text string) (*telegram.Message, error)
	SendPhoto(ctx context.Context, chatID, path, caption string) (*telegram.Message, error)
}

// WallChannel posts to a VK community wall.
type WallChannel struct {
	api     WallAPI
	ownerID int64 // negative community id
	logger  logging.Logger
}

// NewWallChannel creates the VK wall channel for the community with the given owner id.
func NewWallChannel(api WallAPI, ownerID int64, logger logging.Logger) *WallChannel {
	if logger == nil {
		logger = logging.Discard()
	}
	return &WallChannel{api: api, ownerID: ownerID, logger: logger}
}

// Name implements Channel.
func (c *WallChannel) Name() types.Channel {
	return types.ChannelWall
}

// Send posts the text with the wall signature. An image is uploaded first and attached; if
// the upload fails the post goes out without it.
func (c *WallChannel) Send(ctx context.Context, post types.GeneratedPost) (int64, error) {
	var attachments []string
	if post.HasImage() {
		attachment, err := c.api.UploadWallPhoto(ctx, -c.ownerID, post.ImagePath)
		if err != nil {
			c.logger.WithError(err).WithField("image", post.ImagePath).Warn("Wall photo upload failed, posting text only")
		} else {
			attachments = append(attachments, attachment)
		}
	}
	return c.api.PostToWall(ctx, c.ownerID, WallText(post.Text), attachments...)
}

// TelegramChannel sends to a Telegram chat.
type TelegramChannel struct {
	api    MessengerAPI
	chatID string
}

// NewTelegramChannel creates the Telegram channel for chatID.
func NewTelegramChannel(api MessengerAPI, chatID string) *TelegramChannel {
	return &TelegramChannel{api: api, chatID: chatID}
}

// Name implements Channel.
func (c *TelegramChannel) Name() types.Channel {
	return types.ChannelTelegram
}

// Send delivers the post as an HTML message, or as one photo with caption when it has an image.
func (c *TelegramChannel) Send(ctx context.Context, post types.GeneratedPost) (int64, error) {
	var (
		msg *telegram.Message
		err error
	)
	if post.HasImage() {
		msg, err = c.api.SendPhoto(ctx, c.chatID, post.ImagePath, TelegramCaption(post.Text))
	} else {
		msg, err = c.api.SendMessage(ctx, c.chatID, TelegramText(post.Text))
	}
	if err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}
