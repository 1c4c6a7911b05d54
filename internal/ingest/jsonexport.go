package ingest

import (
	"fmt"
	"strings"

	"chat_dashboard/internal/convo"
	"chat_dashboard/internal/lex"
)

// jsonExport is the generic interchange format other importers emit. Only
// sender, timestamp and content are required per message; everything else
// is optional.
type jsonExport struct {
	Title        string            `json:"title"`
	Platform     string            `json:"platform"`
	IsGroup      *bool             `json:"isGroup"`
	Participants []jsonParticipant `json:"participants"`
	Messages     []jsonMessage     `json:"messages"`
}

type jsonParticipant struct {
	Name  string `json:"name"`
	Alias string `json:"alias"`
}

type jsonMessage struct {
	Sender    string         `json:"sender"`
	Timestamp int64          `json:"timestamp"`
	Content   string         `json:"content"`
	Reactions []jsonReaction `json:"reactions"`
	HasMedia  bool           `json:"hasMedia"`
	HasLink   bool           `json:"hasLink"`
	IsUnsent  bool           `json:"isUnsent"`
}

type jsonReaction struct {
	Emoji string `json:"emoji"`
	Actor string `json:"actor"`
}

func parseJSONExport(raw []byte, path string) (*convo.Conversation, error) {
	var export jsonExport
	if err := jsonFast.Unmarshal(raw, &export); err != nil {
		return nil, fmt.Errorf("decode json export: %w", err)
	}
	if len(export.Messages) == 0 {
		return nil, fmt.Errorf("no messages found in export")
	}

	c := &convo.Conversation{
		Title:    export.Title,
		Platform: strings.ToLower(strings.TrimSpace(export.Platform)),
	}
	if c.Platform == "" {
		c.Platform = "generic"
	}
	for _, p := range export.Participants {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		c.Participants = append(c.Participants, convo.Participant{Name: p.Name, Alias: p.Alias})
	}

	c.Messages = make([]convo.Message, 0, len(export.Messages))
	for i, m := range export.Messages {
		if strings.TrimSpace(m.Sender) == "" {
			return nil, fmt.Errorf("message %d: missing sender", i)
		}
		msg := convo.Message{
			Sender:    m.Sender,
			Timestamp: epochMillis(m.Timestamp),
			Content:   m.Content,
			HasMedia:  m.HasMedia,
			HasLink:   m.HasLink || lex.HasURL(m.Content),
			IsUnsent:  m.IsUnsent,
		}
		for _, re := range m.Reactions {
			if re.Emoji == "" || re.Actor == "" {
				continue
			}
			msg.Reactions = append(msg.Reactions, convo.Reaction{Emoji: re.Emoji, Actor: re.Actor})
		}
		c.Messages = append(c.Messages, msg)
	}

	groupKnown := export.IsGroup != nil
	if groupKnown {
		c.IsGroup = *export.IsGroup
	}
	return finalize(c, path, groupKnown), nil
}

// epochMillis widens second-precision timestamps. Anything below 10^12 is
// read as seconds; exports that already use milliseconds pass through.
func epochMillis(ts int64) int64 {
	if ts > 0 && ts < 1_000_000_000_000 {
		return ts * 1000
	}
	return ts
}
