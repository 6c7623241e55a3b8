package vk

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/village-blogger/internal/types"
)

// Counter is the {"count": N} object VK uses for likes, reposts, views and comments
type Counter struct {
	Count int `json:"count"`
}

// WallItem is a single wall post as returned by wall.get
type WallItem struct {
	ID       int64    `json:"id"`
	OwnerID  int64    `json:"owner_id"`
	Date     int64    `json:"date"`
	Text     string   `json:"text"`
	Likes    Counter  `json:"likes"`
	Reposts  Counter  `json:"reposts"`
	Views    *Counter `json:"views,omitempty"`
	Comments Counter  `json:"comments"`
}

// Post converts the wall item into the pipeline's Post
func (it WallItem) Post() types.Post {
	views := 0
	if it.Views != nil {
		views = it.Views.Count
	}
	return types.Post{
		ID:       it.ID,
		Date:     it.Date,
		Text:     it.Text,
		Likes:    it.Likes.Count,
		Reposts:  it.Reposts.Count,
		Views:    views,
		Comments: it.Comments.Count,
	}
}

// WallPage is one page of wall.get
type WallPage struct {
	Count int        `json:"count"`
	Items []WallItem `json:"items"`
}

// Group is the subset of groups.getById we use
type Group struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ScreenName string `json:"screen_name"`
}

// groupsResponse accepts both shapes of groups.getById: a bare array (API <= 5.131) and
// {"groups": [...]} (newer versions).
type groupsResponse []Group

func (g *groupsResponse) UnmarshalJSON(data []byte) error {
	var list []Group
	if err := json.Unmarshal(data, &list); err == nil {
		*g = list
		return nil
	}
	var wrapped struct {
		Groups []Group `json:"groups"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return fmt.Errorf("unexpected groups.getById response: %w", err)
	}
	*g = wrapped.Groups
	return nil
}

type wallPostResponse struct {
	PostID int64 `json:"post_id"`
}

// UploadServer is the result of photos.getWallUploadServer
type UploadServer struct {
	UploadURL string `json:"upload_url"`
	AlbumID   int64  `json:"album_id"`
	UserID    int64  `json:"user_id"`
}

// UploadedPhoto is the body returned by the upload server
type UploadedPhoto struct {
	Server int64  `json:"server"`
	Photo  string `json:"photo"`
	Hash   string `json:"hash"`
}

// SavedPhoto is one element of photos.saveWallPhoto
type SavedPhoto struct {
	ID      int64 `json:"id"`
	OwnerID int64 `json:"owner_id"`
}

// Attachment returns the wall.post attachment reference for the photo
func (p SavedPhoto) Attachment() string {
	return fmt.Sprintf("photo%d_%d", p.OwnerID, p.ID)
}

type envelope struct {
	Response json.RawMessage `json:"response"`
	Error    *apiErrorBody   `json:"error"`
}

type apiErrorBody struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}
