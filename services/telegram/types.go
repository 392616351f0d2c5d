package telegram

import "ligmir-backend/services/charsheet"

// Wire types for the subset of the bot API this service consumes.
// Historical payload shapes are normalized here: newer updates carry
// `message`, older revisions of the transport also delivered
// `edited_message`. Downstream code never branches on payload shape.

type Update struct {
	UpdateID      int64    `json:"update_id"`
	Message       *Message `json:"message"`
	EditedMessage *Message `json:"edited_message"`
}

// message returns whichever message payload the update carries, or nil.
func (u *Update) message() *Message {
	if u.Message != nil {
		return u.Message
	}
	return u.EditedMessage
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type User struct {
	ID int64 `json:"id"`
}

// Source identifies where a reply must be sent. It is captured once
// per inbound message and read-only afterwards.
type Source struct {
	ChatID    int64
	MessageID int64
	// UserID keys stored preferences. Zero when the payload carried no
	// sender.
	UserID int64
}

type Kind int

const (
	// KindNone is a message not directed at the bot, it produces no
	// reply.
	KindNone Kind = iota
	KindSkillCheck
	KindSetCharacter
	// KindMalformed carries user-safe error text to reply with.
	KindMalformed
)

// Command is the normalized form of one inbound update. Exactly one
// is produced per update.
type Command struct {
	Kind   Kind
	Source Source

	// skill check fields
	Skill  string
	Ref    charsheet.Ref
	HasRef bool

	// malformed text (already user safe)
	ErrText string
}
