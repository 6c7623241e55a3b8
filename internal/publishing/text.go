package publishing

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Signatures appended to every published post
const (
	WallSignature     = "\n\n👉 Подписаться на Сельский Блогер: https://t.me/selhozblogger"
	TelegramSignature = "\n\n<a href=\"https://t.me/selhozblogger\">👉 Подписаться на Сельский Блогер</a>"
)

// CaptionLimit is the longest photo caption Telegram accepts, in characters after parsing.
const CaptionLimit = 1024

// telegramSignatureLength is the visible length of TelegramSignature.
var telegramSignatureLength = len([]rune(PlainText(TelegramSignature)))

// PlainText removes any HTML markup the model emitted and decodes entities. Line breaks,
// including <br> tags, are kept.
func PlainText(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return text
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("script, style").Remove()
	return doc.Find("body").Text()
}

// WallText is the message posted to the VK wall.
func WallText(text string) string {
	return PlainText(text) + WallSignature
}

// TelegramText is the HTML message sent to Telegram. Post text is escaped so only the
// signature link is interpreted as markup.
func TelegramText(text string) string {
	return html.EscapeString(PlainText(text)) + TelegramSignature
}

// TelegramCaption is TelegramText cut so the rendered caption fits CaptionLimit.
func TelegramCaption(text string) string {
	plain := []rune(PlainText(text))
	budget := CaptionLimit - telegramSignatureLength
	if len(plain) > budget {
		plain = append(plain[:budget-1], '…')
	}
	return html.EscapeString(string(plain)) + TelegramSignature
}
