package workflow

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// sentencePunctuation is the set of trailing characters after which combined
// turns join with a plain space instead of an inserted sentence break.
const sentencePunctuation = ".!?,:;"

// appendText appends a plain text chat turn. Consecutive plain text turns
// from the same sender combine into the prior turn; a non-text turn breaks
// the chain, and only the immediately preceding turn is considered.
func appendText(messages []ChatMessage, sender Sender, text string, at time.Time) []ChatMessage {
	if last := len(messages) - 1; last >= 0 {
		prior := messages[last]
		if prior.Sender == sender && prior.Kind == MessageText {
			combined := make([]ChatMessage, len(messages))
			copy(combined, messages)
			prior.Text = joinTurns(prior.Text, text)
			prior.Timestamp = at
			combined[last] = prior
			return combined
		}
	}

	return appendMessage(messages, ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Kind:      MessageText,
		Timestamp: at,
	})
}

// appendMessage appends a turn without combining, copying the slice so prior
// snapshots stay untouched.
func appendMessage(messages []ChatMessage, message ChatMessage) []ChatMessage {
	appended := make([]ChatMessage, len(messages), len(messages)+1)
	copy(appended, messages)
	return append(appended, message)
}

func joinTurns(prior, next string) string {
	if prior == "" {
		return next
	}

	lastRune, _ := utf8.DecodeLastRuneInString(prior)
	if strings.ContainsRune(sentencePunctuation, lastRune) {
		return prior + " " + next
	}
	return prior + ". " + next
}
