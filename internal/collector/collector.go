// Package collector gathers wall posts inside the rolling collection window.
package collector

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/ratelimiter"

	"github.com/jonathan/village-blogger/internal/logging"
	"github.com/jonathan/village-blogger/internal/types"
	"github.com/jonathan/village-blogger/internal/vk"
)

// PageSize is the number of items requested per wall.get call.
const PageSize = 100

// maxWait bounds how long a request may queue behind the rate limiter.
const maxWait = time.Minute

// FeedAPI is the subset of the VK client the collector needs.
type FeedAPI interface {
	ResolveGroup(ctx context.Context, screenName string) (*vk.Group, error)
	GetWall(ctx context.Context, ownerID int64, offset, count int) (*vk.WallPage, error)
}

// Options configures a Collector.
type Options struct {
	NewsFeed string        // public news feed analysed each cycle
	BlogFeed string        // our own blog, used as "already written" context
	Interval time.Duration // minimum delay between feed requests; 0 disables throttling
}

// Collector paginates community walls. It has no side effects beyond feed requests.
type Collector struct {
	api     FeedAPI
	opts    Options
	limiter ratelimiter.RateLimiter[any]
	logger  logging.Logger
}

// New creates a Collector. One rate limiter is shared by every feed it reads.
func New(api FeedAPI, opts Options, logger logging.Logger) *Collector {
	if logger == nil {
		logger = logging.Discard()
	}
	c := &Collector{api: api, opts: opts, logger: logger}
	if opts.Interval > 0 {
		c.limiter = ratelimiter.NewSmoothBuilderWithMaxRate[any](opts.Interval).
			WithMaxWaitTime(maxWait).
			Build()
	}
	return c
}

// CollectAll runs the news and blog feed collections over the same window.
func (c *Collector) CollectAll(ctx context.Context, window types.TimeWindow) (posts, blogPosts []types.Post, err error) {
	posts, err = c.Collect(ctx, c.opts.NewsFeed, window)
	if err != nil {
		return nil, nil, err
	}
	blogPosts, err = c.Collect(ctx, c.opts.BlogFeed, window)
	if err != nil {
		return nil, nil, err
	}
	return posts, blogPosts, nil
}

// Collect returns the posts of feed newer than window.Start, newest first.
//
// Items of a page are kept until the first one older than the window. Pagination stops on an
// empty page or on a page that contained any older item, so a page spanning the window edge is
// the last one fetched.
func (c *Collector) Collect(ctx context.Context, feed string, window types.TimeWindow) ([]types.Post, error) {
	ownerID, err := c.resolve(ctx, feed)
	if err != nil {
		return nil, &CollectError{Feed: feed, Offset: -1, Cause: err}
	}

	posts := []types.Post{}
	for offset := 0; ; offset += PageSize {
		page, err := c.page(ctx, ownerID, offset, PageSize)
		if err != nil {
			return nil, &CollectError{Feed: feed, Offset: offset, Cause: err}
		}
		if len(page.Items) == 0 {
			break
		}

		crossed := false
		for _, item := range page.Items {
			if window.Before(item.Date) {
				crossed = true
				break
			}
			posts = append(posts, item.Post())
		}

		c.logger.WithFields(logging.Fields{
			"feed":   feed,
			"offset": offset,
			"items":  len(page.Items),
			"kept":   len(posts),
		}).Debug("Fetched wall page")

		if crossed {
			break
		}
	}

	c.logger.WithFields(logging.Fields{"feed": feed, "posts": len(posts)}).Info("Collected feed")
	return posts, nil
}

// Recent returns the latest count posts of feed from a single page, regardless of age.
func (c *Collector) Recent(ctx context.Context, feed string, count int) ([]types.Post, error) {
	ownerID, err := c.resolve(ctx, feed)
	if err != nil {
		return nil, &CollectError{Feed: feed, Offset: -1, Cause: err}
	}
	if count <= 0 || count > PageSize {
		count = PageSize
	}
	page, err := c.page(ctx, ownerID, 0, count)
	if err != nil {
		return nil, &CollectError{Feed: feed, Offset: 0, Cause: err}
	}
	posts := make([]types.Post, 0, len(page.Items))
	for _, item := range page.Items {
		posts = append(posts, item.Post())
	}
	return posts, nil
}

// resolve turns a feed handle into a wall owner id. Numeric handles, with or without the
// leading minus, skip the groups.getById lookup.
func (c *Collector) resolve(ctx context.Context, feed string) (int64, error) {
	if id, err := strconv.ParseInt(strings.TrimPrefix(feed, "-"), 10, 64); err == nil && id > 0 {
		return -id, nil
	}
	group, err := throttled(ctx, c.limiter, func() (*vk.Group, error) {
		return c.api.ResolveGroup(ctx, feed)
	})
	if err != nil {
		return 0, err
	}
	return -group.ID, nil
}

func (c *Collector) page(ctx context.Context, ownerID int64, offset, count int) (*vk.WallPage, error) {
	return throttled(ctx, c.limiter, func() (*vk.WallPage, error) {
		return c.api.GetWall(ctx, ownerID, offset, count)
	})
}

// throttled runs fn through the shared rate limiter.
func throttled[T any](ctx context.Context, limiter ratelimiter.RateLimiter[any], fn func() (T, error)) (T, error) {
	if limiter == nil {
		return fn()
	}
	out, err := failsafe.With[any](limiter).WithContext(ctx).Get(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}
