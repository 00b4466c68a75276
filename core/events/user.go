package events

// KindUserMessageAdded identifies a locally injected user chat turn.
const KindUserMessageAdded Kind = "user.message_added"

// UserMessageAdded carries a chat turn injected by the surrounding UI. It is
// never decoded from the wire.
type UserMessageAdded struct {
	Base
	Text string
}

// NewUserMessageAdded creates a user message event.
func NewUserMessageAdded(text string) UserMessageAdded {
	return UserMessageAdded{Base: NewBase(KindUserMessageAdded), Text: text}
}
