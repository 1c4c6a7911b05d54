package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"chat_dashboard/internal/convo"
	"chat_dashboard/internal/lex"
)

// WhatsApp writes one of two header shapes depending on the exporting
// device: "[25/12/2023, 10:04:33] Ana: hi" or "25/12/2023, 10:04 - Ana: hi".
// Continuation lines carry no header and belong to the previous message.
var (
	bracketHeader = regexp.MustCompile(`^\[(\d{1,4}[./-]\d{1,2}[./-]\d{1,4}),?\s+(\d{1,2}:\d{2}(?::\d{2})?(?:\s*[AaPp]\.?[Mm]\.?)?)\]\s*(.*)$`)
	dashHeader    = regexp.MustCompile(`^(\d{1,4}[./-]\d{1,2}[./-]\d{1,4}),?\s+(\d{1,2}:\d{2}(?::\d{2})?(?:\s*[AaPp]\.?[Mm]\.?)?)\s+-\s+(.*)$`)
	anyHeader     = regexp.MustCompile(`\[?\d{1,4}[./-]\d{1,2}[./-]\d{1,4},?\s+\d{1,2}:\d{2}(?::\d{2})?(?:\s*[AaPp]\.?[Mm]\.?)?\]?\s*(-\s*)?`)

	// Exports wrap names and placeholders in Unicode direction marks.
	directionMarks = strings.NewReplacer("‎", "", "‏", "")
)

var mediaPlaceholders = map[string]struct{}{
	"<media omitted>":        {},
	"image omitted":          {},
	"video omitted":          {},
	"audio omitted":          {},
	"sticker omitted":        {},
	"gif omitted":            {},
	"document omitted":       {},
	"contact card omitted":   {},
	"voice message omitted":  {},
	"video note omitted":     {},
	"missed voice call":      {},
	"missed video call":      {},
	"location shared":        {},
	"live location shared":   {},
	"poll omitted":           {},
	"this media was omitted": {},
}

var unsentPlaceholders = map[string]struct{}{
	"this message was deleted": {},
	"you deleted this message": {},
	"message deleted":          {},
}

// parseChatText parses WhatsApp-format text into messages. It first scans
// line by line; when that finds fewer messages than the header pattern
// suggests (PDF extraction drops newlines), it re-slices the raw text at
// header boundaries instead.
func parseChatText(text string) ([]convo.Message, error) {
	text = directionMarks.Replace(text)
	msgs := parseChatLines(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
	if sliced := sliceAtHeaders(text); len(sliced) > len(msgs) {
		msgs = sliced
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("no messages found in export")
	}
	return msgs, nil
}

func parseChatLines(lines []string) []convo.Message {
	msgs := make([]convo.Message, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ts, rest, ok := parseHeader(line)
		if !ok {
			// Continuation of the previous message.
			if n := len(msgs); n > 0 {
				appendContinuation(&msgs[n-1], line)
			}
			continue
		}
		msg, ok := buildMessage(ts, rest)
		if !ok {
			continue // system notice, no sender
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

// sliceAtHeaders cuts the text at every header occurrence and parses each
// slice as one message. Headers inside message bodies are rare enough that
// the line scan wins whenever newlines survived.
func sliceAtHeaders(text string) []convo.Message {
	locs := anyHeader.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	msgs := make([]convo.Message, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		// Collapse embedded newlines so the anchored header patterns see
		// one line per message.
		segment := strings.Join(strings.Fields(text[loc[0]:end]), " ")
		ts, rest, ok := parseHeader(segment)
		if !ok {
			continue
		}
		msg, ok := buildMessage(ts, rest)
		if !ok {
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

func parseHeader(line string) (int64, string, bool) {
	m := bracketHeader.FindStringSubmatch(line)
	if m == nil {
		m = dashHeader.FindStringSubmatch(line)
	}
	if m == nil {
		return 0, "", false
	}
	ts, ok := parseStamp(m[1], m[2])
	if !ok {
		return 0, "", false
	}
	return ts, m[3], true
}

// buildMessage splits "Sender: body" and classifies placeholder bodies.
// Lines without the sender separator are group notices and are dropped.
func buildMessage(ts int64, rest string) (convo.Message, bool) {
	idx := strings.Index(rest, ": ")
	if idx <= 0 {
		if strings.HasSuffix(rest, ":") && len(rest) > 1 {
			// "Sender:" with an empty body.
			return convo.Message{Sender: rest[:len(rest)-1], Timestamp: ts}, true
		}
		return convo.Message{}, false
	}
	sender := strings.TrimSpace(rest[:idx])
	body := strings.TrimSpace(rest[idx+2:])
	msg := convo.Message{Sender: sender, Timestamp: ts, Content: body}
	classifyBody(&msg)
	return msg, true
}

func classifyBody(msg *convo.Message) {
	lower := strings.ToLower(strings.TrimSpace(msg.Content))
	if _, ok := mediaPlaceholders[lower]; ok || strings.HasPrefix(lower, "<attached:") {
		msg.HasMedia = true
		msg.Content = ""
		return
	}
	if _, ok := unsentPlaceholders[lower]; ok {
		msg.IsUnsent = true
		msg.Content = ""
		return
	}
	msg.HasLink = lex.HasURL(msg.Content)
}

func appendContinuation(msg *convo.Message, line string) {
	if msg.Content == "" {
		msg.Content = line
	} else {
		msg.Content += "\n" + line
	}
	if !msg.HasLink && lex.HasURL(line) {
		msg.HasLink = true
	}
}

// Day-first layouts come first: WhatsApp exports default to dd/mm and only
// US-locale devices flip the order, which the month>12 failure then catches.
var stampDateLayouts = []string{"2/1/2006", "2/1/06", "1/2/2006", "1/2/06", "2006/1/2"}
var stampClockLayouts = []string{"15:04:05", "15:04", "3:04:05 PM", "3:04 PM", "3:04PM", "3:04:05PM"}

var stampSeparators = strings.NewReplacer(".", "/", "-", "/")

func parseStamp(datePart, clockPart string) (int64, bool) {
	datePart = stampSeparators.Replace(strings.TrimSpace(datePart))
	clockPart = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(clockPart), ".", ""))
	for _, dl := range stampDateLayouts {
		for _, cl := range stampClockLayouts {
			t, err := time.ParseInLocation(dl+" "+cl, datePart+" "+clockPart, time.Local)
			if err != nil {
				continue
			}
			return t.UnixMilli(), true
		}
	}
	return 0, false
}
