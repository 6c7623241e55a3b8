package types

import "time"

// Recommendation is one "topic | timing" line suggested by the analyst model
type Recommendation struct {
	Topic  string `json:"topic"`
	Timing string `json:"timing"`
}

// GeneratedPost is the content produced for a single cycle
type GeneratedPost struct {
	Topic     string `json:"topic"`
	Text      string `json:"text"`
	ImagePath string `json:"image_path,omitempty"`
	Fallback  bool   `json:"fallback"` // Text came from the template, not the model
}

// HasImage reports whether an image artifact is attached
func (p GeneratedPost) HasImage() bool {
	return p.ImagePath != ""
}

// Channel names a publishing destination
type Channel string

const (
	// ChannelWall is the VK community wall
	ChannelWall Channel = "vk_wall"
	// ChannelTelegram is the Telegram chat
	ChannelTelegram Channel = "telegram"
)

// PublishResult records the outcome of one channel delivery
type PublishResult struct {
	Channel Channel `json:"channel"`
	OK      bool    `json:"ok"`
	ID      int64   `json:"id,omitempty"` // post_id or message_id
	Error   string  `json:"error,omitempty"`
}

// EngagementStats holds average engagement per post
type EngagementStats struct {
	Posts    int     `json:"posts"`
	Likes    float64 `json:"likes"`
	Comments float64 `json:"comments"`
	Reposts  float64 `json:"reposts"`
	Views    float64 `json:"views"`
}

// Stage identifies a step of the posting cycle
type Stage string

// Cycle stages in execution order
const (
	StageCollect    Stage = "collect"
	StageRecommend  Stage = "recommend"
	StageSynthesize Stage = "synthesize"
	StagePublish    Stage = "publish"
	StageArchive    Stage = "archive"
	StageDone       Stage = "done"
)

// CycleReport summarizes one run of the posting cycle
type CycleReport struct {
	ID              string           `json:"id"`
	StartedAt       time.Time        `json:"started_at"`
	FinishedAt      time.Time        `json:"finished_at"`
	Stage           Stage            `json:"stage"` // last stage reached
	Error           string           `json:"error,omitempty"`
	PostsCollected  int              `json:"posts_collected"`
	BlogPosts       int              `json:"blog_posts"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Post            *GeneratedPost   `json:"post,omitempty"`
	Results         []PublishResult  `json:"results,omitempty"`
	ArchivePath     string           `json:"archive_path,omitempty"`
}

// Failed reports whether the cycle stopped before publishing
func (r CycleReport) Failed() bool {
	return r.Error != ""
}
