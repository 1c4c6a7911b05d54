// Package lex holds the text feature extractors used by the analytics
// engine: tokenization, bigram building, emoji-cluster extraction, URL
// stripping and question/mention detection. Everything here is pure and
// deterministic.
package lex

import (
	"regexp"
	"strings"
	"unicode"
)

var urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)

// Common English filler words excluded from word-frequency counts. The few
// two-letter fragments at the end absorb contraction tails once
// punctuation is stripped ("don't" -> "don", "we've" -> "we" + "ve").
var stopWords = map[string]struct{}{
	"the": {}, "be": {}, "to": {}, "of": {}, "and": {},
	"in": {}, "that": {}, "have": {}, "it": {}, "for": {},
	"not": {}, "on": {}, "with": {}, "he": {}, "as": {},
	"you": {}, "do": {}, "at": {}, "this": {}, "but": {},
	"his": {}, "by": {}, "from": {}, "they": {}, "we": {},
	"say": {}, "her": {}, "she": {}, "or": {}, "an": {},
	"will": {}, "my": {}, "one": {}, "all": {}, "would": {},
	"there": {}, "their": {}, "what": {}, "so": {}, "up": {},
	"out": {}, "if": {}, "about": {}, "who": {}, "get": {},
	"which": {}, "go": {}, "me": {}, "when": {}, "can": {},
	"like": {}, "no": {}, "just": {}, "him": {}, "its": {},
	"was": {}, "im": {}, "ok": {}, "okay": {}, "yeah": {}, "yes": {},
	"lol": {}, "haha": {}, "oh": {}, "hey": {}, "hi": {},
	"are": {}, "is": {}, "am": {}, "been": {}, "your": {},
	"don": {}, "didn": {}, "isn": {}, "won": {}, "ve": {},
	"ll": {}, "re": {},
}

// Tokens lowercases the text and returns alphabetic tokens of at least two
// runes, with stop words removed. Digits and punctuation split tokens.
func Tokens(text string) []string {
	lower := strings.ToLower(text)
	tokens := make([]string, 0, 16)
	var b strings.Builder
	runeLen := 0
	flush := func() {
		if runeLen >= 2 {
			w := b.String()
			if _, stop := stopWords[w]; !stop {
				tokens = append(tokens, w)
			}
		}
		b.Reset()
		runeLen = 0
	}
	for _, r := range lower {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
			runeLen++
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// Bigrams joins adjacent filtered tokens with a single space.
func Bigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	out := make([]string, 0, len(tokens)-1)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// WordCount counts whitespace-separated fields, the raw word total used by
// per-message averages.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// StripURLs removes http(s) and www links so trailing query strings do not
// register as question marks or tokens.
func StripURLs(text string) string {
	if !strings.Contains(text, "http") && !strings.Contains(text, "www.") {
		return text
	}
	return urlPattern.ReplaceAllString(text, " ")
}

// HasURL reports whether the text carries a link.
func HasURL(text string) bool {
	return urlPattern.MatchString(text)
}

// IsQuestion reports whether the text still contains a question mark after
// links are stripped.
func IsQuestion(text string) bool {
	return strings.Contains(StripURLs(text), "?")
}

// HasMention reports whether the text contains an @-mention ("@" directly
// followed by a letter or digit).
func HasMention(text string) bool {
	runes := []rune(text)
	for i := 0; i+1 < len(runes); i++ {
		if runes[i] != '@' {
			continue
		}
		if unicode.IsLetter(runes[i+1]) || unicode.IsDigit(runes[i+1]) {
			return true
		}
	}
	return false
}

const (
	zwj               = 0x200D
	variationSelector = 0xFE0F
	keycap            = 0x20E3
)

func isEmojiBase(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF, // symbols and pictographs
		r >= 0x1F600 && r <= 0x1F64F, // emoticons
		r >= 0x1F680 && r <= 0x1F6FF, // transport and map
		r >= 0x1F900 && r <= 0x1F9FF, // supplemental symbols
		r >= 0x1FA70 && r <= 0x1FAFF, // symbols extended-A
		r >= 0x2600 && r <= 0x26FF,   // miscellaneous symbols
		r >= 0x2700 && r <= 0x27BF,   // dingbats, includes the red heart
		r >= 0x1F1E6 && r <= 0x1F1FF, // regional indicators
		r == 0x2B50, r == 0x2B55:
		return true
	}
	return false
}

func isRegionalIndicator(r rune) bool {
	return r >= 0x1F1E6 && r <= 0x1F1FF
}

func isEmojiModifier(r rune) bool {
	if r >= 0x1F3FB && r <= 0x1F3FF { // skin tones
		return true
	}
	return r == variationSelector || r == keycap
}

// Emojis extracts emoji clusters in order of appearance. A cluster is a
// base emoji plus attached modifiers, a regional-indicator pair (flag), or
// a ZWJ sequence of bases, returned as one string so families and skin-tone
// variants count as single emoji.
func Emojis(text string) []string {
	runes := []rune(text)
	var out []string
	for i := 0; i < len(runes); {
		if !isEmojiBase(runes[i]) {
			i++
			continue
		}
		j := i + 1
		if isRegionalIndicator(runes[i]) && j < len(runes) && isRegionalIndicator(runes[j]) {
			j++
		}
		for j < len(runes) {
			if isEmojiModifier(runes[j]) {
				j++
				continue
			}
			if runes[j] == zwj && j+1 < len(runes) && isEmojiBase(runes[j+1]) {
				j += 2
				continue
			}
			break
		}
		out = append(out, string(runes[i:j]))
		i = j
	}
	return out
}
