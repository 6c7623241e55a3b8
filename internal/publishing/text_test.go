package publishing

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain unchanged", input: "Утро.\nРоса.", want: "Утро.\nРоса."},
		{name: "tags removed", input: "<b>Утро</b> в <i>деревне</i>", want: "Утро в деревне"},
		{name: "br becomes newline", input: "Утро<br>Роса<br/>Туман", want: "Утро\nРоса\nТуман"},
		{name: "entities decoded", input: "Хлеб &amp; соль", want: "Хлеб & соль"},
		{name: "bare ampersand", input: "Хлеб & соль", want: "Хлеб & соль"},
		{name: "script dropped", input: "Текст<script>alert(1)</script>", want: "Текст"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.input))
		})
	}
}

func TestWallText(t *testing.T) {
	assert.Equal(t, "Пост\n\n👉 Подписаться на Сельский Блогер: https://t.me/selhozblogger", WallText("Пост"))
}

func TestTelegramText(t *testing.T) {
	got := TelegramText("Огурцы < помидоров & перца")
	assert.Equal(t, "Огурцы &lt; помидоров &amp; перца"+TelegramSignature, got)
	assert.True(t, strings.HasSuffix(got, `<a href="https://t.me/selhozblogger">👉 Подписаться на Сельский Блогер</a>`))
}

func TestTelegramCaption(t *testing.T) {
	short := TelegramCaption("Короткий пост")
	assert.Equal(t, TelegramText("Короткий пост"), short)

	long := TelegramCaption(strings.Repeat("а", 2000))
	body := strings.TrimSuffix(long, TelegramSignature)
	assert.True(t, strings.HasSuffix(body, "…"))
	assert.Equal(t, CaptionLimit, utf8.RuneCountInString(body)+telegramSignatureLength)
}
