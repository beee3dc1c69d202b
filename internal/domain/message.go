package domain

import (
	"strings"
	"time"
)

type ContentKind string

const (
	ContentText      ContentKind = "text"
	ContentPhoto     ContentKind = "photo"
	ContentAudio     ContentKind = "audio"
	ContentVoice     ContentKind = "voice"
	ContentVideo     ContentKind = "video"
	ContentDocument  ContentKind = "document"
	ContentSticker   ContentKind = "sticker"
	ContentAnimation ContentKind = "animation"
	ContentOther     ContentKind = "other"
)

func ParseContentKind(raw string) ContentKind {
	switch kind := ContentKind(strings.ToLower(strings.TrimSpace(raw))); kind {
	case ContentText, ContentPhoto, ContentAudio, ContentVoice, ContentVideo,
		ContentDocument, ContentSticker, ContentAnimation:
		return kind
	default:
		return ContentOther
	}
}

// Content is whatever the sender attached. Only Kind decides how it is
// treated; delivery always relays the original message unchanged.
type Content struct {
	Kind    ContentKind
	Text    string
	Caption string
	FileRef string
}

func (c Content) IsText() bool {
	return c.Kind == ContentText
}

type Message struct {
	Chat    ChatID
	Handle  MessageHandle
	From    Sender
	Content Content
	// ReplyTo is zero when the message is not a reply.
	ReplyTo MessageHandle
	SentAt  time.Time
}

func (m Message) IsReply() bool {
	return m.ReplyTo != 0
}

func (m Message) IsCommand() bool {
	return m.Content.IsText() && strings.HasPrefix(m.Content.Text, "/")
}

// Command splits "/name arg1 arg2" into its name and arguments. A bot
// mention suffix ("/ban@desk_bot") is dropped.
func (m Message) Command() (string, []string) {
	if !m.IsCommand() {
		return "", nil
	}

	fields := strings.Fields(m.Content.Text)
	if len(fields) == 0 {
		return "", nil
	}

	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}

	if len(fields) == 1 {
		return strings.ToLower(name), nil
	}
	return strings.ToLower(name), fields[1:]
}

// CommandText returns everything after the command name, whitespace kept.
func (m Message) CommandText() string {
	if !m.IsCommand() {
		return ""
	}
	text := strings.TrimSpace(m.Content.Text)
	if idx := strings.IndexAny(text, " \n\t"); idx >= 0 {
		return strings.TrimSpace(text[idx+1:])
	}
	return ""
}
