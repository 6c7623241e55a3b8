// Package telegram sends messages and photos to a chat through the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultBaseURL is the Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// ParseModeHTML makes Telegram render the basic HTML subset in text and captions.
const ParseModeHTML = "HTML"

// Options configures the client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client talks to the Bot API for a single bot token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Message is the subset of the Bot API Message object we read back.
type Message struct {
	MessageID int64 `json:"message_id"`
	Date      int64 `json:"date"`
}

type envelope struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
}

// NewClient creates a Bot API client.
func NewClient(token string, opts *Options) *Client {
	if opts == nil {
		opts = &Options{}
	}
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{baseURL: baseURL, token: token, httpClient: httpClient}
}

// SendMessage posts an HTML-formatted text message to chatID.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) (*Message, error) {
	form := url.Values{
		"chat_id":    {chatID},
		"text":       {text},
		"parse_mode": {ParseModeHTML},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("sendMessage"), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &RequestError{Method: "sendMessage", Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, "sendMessage")
}

// SendPhoto uploads the image at path with an HTML caption in a single multipart call.
func (c *Client) SendPhoto(ctx context.Context, chatID, path, caption string) (*Message, error) {
	const method = "sendPhoto"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &RequestError{Method: method, Message: "failed to read photo", Cause: err}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"chat_id":    chatID,
		"caption":    caption,
		"parse_mode": ParseModeHTML,
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, &RequestError{Method: method, Message: "failed to build form", Cause: err}
		}
	}
	part, err := mw.CreateFormFile("photo", filepath.Base(path))
	if err != nil {
		return nil, &RequestError{Method: method, Message: "failed to build form", Cause: err}
	}
	if _, err := part.Write(data); err != nil {
		return nil, &RequestError{Method: method, Message: "failed to build form", Cause: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &RequestError{Method: method, Message: "failed to build form", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(method), &buf)
	if err != nil {
		return nil, &RequestError{Method: method, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, method)
}

func (c *Client) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

func (c *Client) do(req *http.Request, method string) (*Message, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Method: method, Message: "HTTP request failed", Cause: c.redact(err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Method: method, Message: "failed to read response body", Cause: err}
	}

	// Bot API errors come back as non-2xx with a JSON body, so decode before checking status
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &RequestError{Method: method, Message: fmt.Sprintf("unexpected response (HTTP %d)", resp.StatusCode), Cause: err}
	}
	if !env.OK {
		code := env.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return nil, &APIError{Method: method, Code: code, Description: env.Description}
	}

	var msg Message
	if err := json.Unmarshal(env.Result, &msg); err != nil {
		return nil, &RequestError{Method: method, Message: "failed to decode result", Cause: err}
	}
	return &msg, nil
}

// redact removes the bot token from transport errors, which embed the request URL.
func (c *Client) redact(err error) error {
	var urlErr *url.Error
	if c.token != "" && errors.As(err, &urlErr) {
		return &url.Error{
			Op:  urlErr.Op,
			URL: strings.ReplaceAll(urlErr.URL, c.token, "<token>"),
			Err: urlErr.Err,
		}
	}
	return err
}
