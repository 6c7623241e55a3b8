// Package vk is a small client for the VK API methods the blogger needs: group lookup,
// reading and posting to a community wall, and uploading wall photos.
package vk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the VK API method endpoint.
const DefaultBaseURL = "https://api.vk.com/method/"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Options configures the client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

// DefaultOptions returns sensible defaults for the VK API.
func DefaultOptions() *Options {
	return &Options{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Client calls VK API methods with a static access token.
type Client struct {
	baseURL    string
	token      string
	version    string
	httpClient *http.Client
}

// NewClient creates a VK API client.
func NewClient(token, version string, opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		version:    version,
		httpClient: httpClient,
	}
}

// ResolveGroup returns the numeric id of a community given its screen name or id.
func (c *Client) ResolveGroup(ctx context.Context, screenName string) (*Group, error) {
	var groups groupsResponse
	params := url.Values{"group_id": {screenName}}
	if err := c.call(ctx, "groups.getById", params, &groups); err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, &RequestError{Method: "groups.getById", Message: fmt.Sprintf("group %q not found", screenName)}
	}
	return &groups[0], nil
}

// GetWall returns one page of wall posts, newest first.
func (c *Client) GetWall(ctx context.Context, ownerID int64, offset, count int) (*WallPage, error) {
	params := url.Values{
		"owner_id": {strconv.FormatInt(ownerID, 10)},
		"offset":   {strconv.Itoa(offset)},
		"count":    {strconv.Itoa(count)},
	}
	var page WallPage
	if err := c.call(ctx, "wall.get", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PostToWall publishes a post on behalf of the community and returns its post id.
func (c *Client) PostToWall(ctx context.Context, ownerID int64, message string, attachments ...string) (int64, error) {
	params := url.Values{
		"owner_id":   {strconv.FormatInt(ownerID, 10)},
		"from_group": {"1"},
		"message":    {message},
	}
	if len(attachments) > 0 {
		params.Set("attachments", strings.Join(attachments, ","))
	}
	var resp wallPostResponse
	if err := c.call(ctx, "wall.post", params, &resp); err != nil {
		return 0, err
	}
	return resp.PostID, nil
}

// call performs a VK API method and decodes the "response" field into out.
func (c *Client) call(ctx context.Context, method string, params url.Values, out any) error {
	form := url.Values{}
	for k, v := range params {
		form[k] = v
	}
	form.Set("access_token", c.token)
	form.Set("v", c.version)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, strings.NewReader(form.Encode()))
	if err != nil {
		return &RequestError{Method: method, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req, method)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &RequestError{Method: method, Message: "failed to decode response", Cause: err}
	}
	if env.Error != nil {
		return &APIError{Method: method, Code: env.Error.Code, Message: env.Error.Message}
	}
	if len(env.Response) == 0 {
		return &RequestError{Method: method, Message: "empty response"}
	}
	if err := json.Unmarshal(env.Response, out); err != nil {
		return &RequestError{Method: method, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func (c *Client) do(req *http.Request, method string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Method: method, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Method: method, Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{Method: method, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return body, nil
}

// UploadWallPhoto runs the wall photo protocol: get an upload server, upload the file, save
// the photo, and return the attachment reference for wall.post. groupID is the positive
// community id.
func (c *Client) UploadWallPhoto(ctx context.Context, groupID int64, path string) (string, error) {
	server, err := c.GetWallUploadServer(ctx, groupID)
	if err != nil {
		return "", err
	}
	uploaded, err := c.UploadPhoto(ctx, server.UploadURL, path)
	if err != nil {
		return "", err
	}
	saved, err := c.SaveWallPhoto(ctx, groupID, uploaded)
	if err != nil {
		return "", err
	}
	return saved.Attachment(), nil
}

// GetWallUploadServer returns the upload target for community wall photos.
func (c *Client) GetWallUploadServer(ctx context.Context, groupID int64) (*UploadServer, error) {
	var server UploadServer
	params := url.Values{"group_id": {strconv.FormatInt(groupID, 10)}}
	if err := c.call(ctx, "photos.getWallUploadServer", params, &server); err != nil {
		return nil, err
	}
	if server.UploadURL == "" {
		return nil, &RequestError{Method: "photos.getWallUploadServer", Message: "no upload_url in response"}
	}
	return &server, nil
}

// UploadPhoto sends the file at path to uploadURL as multipart field "photo".
func (c *Client) UploadPhoto(ctx context.Context, uploadURL, path string) (*UploadedPhoto, error) {
	const method = "photos.upload"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &RequestError{Method: method, Message: "failed to read photo", Cause: err}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("photo", filepath.Base(path))
	if err != nil {
		return nil, &RequestError{Method: method, Message: "failed to build upload form", Cause: err}
	}
	if _, err := part.Write(data); err != nil {
		return nil, &RequestError{Method: method, Message: "failed to build upload form", Cause: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &RequestError{Method: method, Message: "failed to build upload form", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &buf)
	if err != nil {
		return nil, &RequestError{Method: method, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := c.do(req, method)
	if err != nil {
		return nil, err
	}

	var uploaded UploadedPhoto
	if err := json.Unmarshal(body, &uploaded); err != nil {
		return nil, &RequestError{Method: method, Message: "failed to decode upload response", Cause: err}
	}
	// The upload server answers 200 with photo "[]" when it rejected the file
	if uploaded.Photo == "" || uploaded.Photo == "[]" {
		return nil, &RequestError{Method: method, Message: "upload server rejected the photo"}
	}
	return &uploaded, nil
}

// SaveWallPhoto registers an uploaded photo in the community's wall album.
func (c *Client) SaveWallPhoto(ctx context.Context, groupID int64, uploaded *UploadedPhoto) (*SavedPhoto, error) {
	params := url.Values{
		"group_id": {strconv.FormatInt(groupID, 10)},
		"photo":    {uploaded.Photo},
		"server":   {strconv.FormatInt(uploaded.Server, 10)},
		"hash":     {uploaded.Hash},
	}
	var saved []SavedPhoto
	if err := c.call(ctx, "photos.saveWallPhoto", params, &saved); err != nil {
		return nil, err
	}
	if len(saved) == 0 {
		return nil, &RequestError{Method: "photos.saveWallPhoto", Message: "no photo in response"}
	}
	return &saved[0], nil
}
