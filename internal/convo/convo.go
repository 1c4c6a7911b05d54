// Package convo defines the normalized conversation model shared by the
// importers, the analytics engine and the persistence layer. Importers own
// normalization: the message slice they hand over is sorted by timestamp
// ascending and the engine never re-sorts it.
package convo

import "strings"

// Reaction is a single emoji reaction attached to a message. Actor may name
// a participant that never appears as a sender.
type Reaction struct {
	Emoji string `json:"emoji"`
	Actor string `json:"actor"`
}

// Message is one normalized chat event. Timestamp is epoch milliseconds.
type Message struct {
	Sender    string     `json:"sender"`
	Timestamp int64      `json:"timestamp"`
	Content   string     `json:"content"`
	Reactions []Reaction `json:"reactions,omitempty"`
	HasMedia  bool       `json:"hasMedia,omitempty"`
	HasLink   bool       `json:"hasLink,omitempty"`
	IsUnsent  bool       `json:"isUnsent,omitempty"`
}

// Participant is a declared member of the conversation.
type Participant struct {
	Name  string `json:"name"`
	Alias string `json:"alias,omitempty"`
}

// Conversation is an ordered message stream plus its declared participants.
// Platform selects the session-gap constant inside the engine.
type Conversation struct {
	Title        string        `json:"title,omitempty"`
	Platform     string        `json:"platform"`
	IsGroup      bool          `json:"isGroup"`
	Language     string        `json:"language,omitempty"`
	Participants []Participant `json:"participants"`
	Messages     []Message     `json:"messages"`
}

// ParticipantNames returns the declared names in declaration order.
func (c *Conversation) ParticipantNames() []string {
	names := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		names = append(names, p.Name)
	}
	return names
}
