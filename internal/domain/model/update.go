package model

import "time"

// UpdateKind tells the dispatcher how to route an inbound update.
type UpdateKind string

const (
	UpdateCommand  UpdateKind = "command"
	UpdateText     UpdateKind = "text"
	UpdateCallback UpdateKind = "callback"
)

// Update is one inbound event from Telegram, immutable once received.
// ID increases monotonically per bot and is used to drop replayed updates.
type Update struct {
	ID         int64
	ChatID     int64
	SenderID   int64
	Kind       UpdateKind
	Text       string // message text, or command including the leading slash
	Data       string // callback payload for UpdateCallback
	MessageID  int    // message the callback originated from, 0 for plain messages
	ReceivedAt time.Time
}

// OutboundMessage is a reply addressed by chat identifier. Consumed by the
// Telegram adapter exactly once.
type OutboundMessage struct {
	ChatID   int64
	Body     string
	Markdown bool
	ReplyTo  int // message id to reply to, 0 for none
}
