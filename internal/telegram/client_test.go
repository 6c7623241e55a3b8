package telegram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "@selhozblogger", r.PostForm.Get("chat_id"))
		assert.Equal(t, "<b>Привет</b>", r.PostForm.Get("text"))
		assert.Equal(t, "HTML", r.PostForm.Get("parse_mode"))
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":17,"date":1700000000}}`))
	}))
	defer server.Close()

	client := NewClient("TOKEN", &Options{BaseURL: server.URL})
	msg, err := client.SendMessage(context.Background(), "@selhozblogger", "<b>Привет</b>")
	require.NoError(t, err)
	assert.Equal(t, int64(17), msg.MessageID)
}

func TestSendMessage_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	client := NewClient("TOKEN", &Options{BaseURL: server.URL})
	_, err := client.SendMessage(context.Background(), "nope", "text")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendMessage_NonJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer server.Close()

	client := NewClient("TOKEN", &Options{BaseURL: server.URL})
	_, err := client.SendMessage(context.Background(), "chat", "text")

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Contains(t, err.Error(), "502")
}

func TestSendMessage_TransportErrorHidesToken(t *testing.T) {
	client := NewClient("SECRET123", &Options{BaseURL: "http://127.0.0.1:1"})
	_, err := client.SendMessage(context.Background(), "chat", "text")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET123")
}

func TestSendPhoto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg-bytes"), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendPhoto", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "chat", r.FormValue("chat_id"))
		assert.Equal(t, "Подпись", r.FormValue("caption"))
		assert.Equal(t, "HTML", r.FormValue("parse_mode"))

		file, header, err := r.FormFile("photo")
		require.NoError(t, err)
		data, _ := io.ReadAll(file)
		assert.Equal(t, "jpeg-bytes", string(data))
		assert.Equal(t, "field.jpg", header.Filename)

		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":18}}`))
	}))
	defer server.Close()

	client := NewClient("TOKEN", &Options{BaseURL: server.URL})
	msg, err := client.SendPhoto(context.Background(), "chat", path, "Подпись")
	require.NoError(t, err)
	assert.Equal(t, int64(18), msg.MessageID)
}

func TestSendPhoto_MissingFile(t *testing.T) {
	client := NewClient("TOKEN", nil)
	_, err := client.SendPhoto(context.Background(), "chat", filepath.Join(t.TempDir(), "none.jpg"), "caption")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
