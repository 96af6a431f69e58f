package gateway

import (
	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
)

// DefaultMaxContextMessages bounds how much prior history is sent upstream.
const DefaultMaxContextMessages = 20

// BuildMessages assembles the completion conversation: persona, the last
// maxHistory prior turns, then text as the final user turn. If history already
// ends with the just-submitted user turn it is not sent twice.
func BuildMessages(history []model.ChatMessage, text string, maxHistory int) []Message {
	if n := len(history); n > 0 {
		last := history[n-1]
		if last.IsUser && last.Content == text {
			history = history[:n-1]
		}
	}
	if maxHistory >= 0 && len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	msgs := make([]Message, 0, len(history)+2)
	msgs = append(msgs, Message{Role: RoleSystem, Content: SystemPrompt})
	for _, m := range history {
		role := RoleAssistant
		if m.IsUser {
			role = RoleUser
		}
		msgs = append(msgs, Message{Role: role, Content: m.Content})
	}
	return append(msgs, Message{Role: RoleUser, Content: text})
}
