package lex

import (
	"reflect"
	"testing"
)

func TestTokensFiltersStopWordsAndShortRunes(t *testing.T) {
	got := Tokens("The pizza was SO good, I ate 3 slices at midnight!")
	want := []string{"pizza", "good", "ate", "slices", "midnight"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokens() = %v, want %v", got, want)
	}
}

func TestTokensSplitsOnDigitsAndPunctuation(t *testing.T) {
	got := Tokens("room42key")
	if !reflect.DeepEqual(got, []string{"room", "key"}) {
		t.Fatalf("Tokens() = %v, want [room key]", got)
	}
}

func TestTokensEmptyInput(t *testing.T) {
	if got := Tokens(""); len(got) != 0 {
		t.Fatalf("Tokens(\"\") = %v, want empty", got)
	}
}

func TestBigrams(t *testing.T) {
	got := Bigrams([]string{"deep", "dish", "pizza"})
	want := []string{"deep dish", "dish pizza"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Bigrams() = %v, want %v", got, want)
	}
	if Bigrams([]string{"solo"}) != nil {
		t.Fatalf("Bigrams of one token should be nil")
	}
}

func TestIsQuestionIgnoresURLQueries(t *testing.T) {
	if IsQuestion("check https://example.com/page?id=7") {
		t.Fatalf("URL query string should not count as a question")
	}
	if !IsQuestion("are you coming?") {
		t.Fatalf("plain question not detected")
	}
	if IsQuestion("sure thing") {
		t.Fatalf("statement flagged as question")
	}
}

func TestHasURL(t *testing.T) {
	if !HasURL("see www.example.com for details") {
		t.Fatalf("www link not detected")
	}
	if HasURL("no links here") {
		t.Fatalf("false positive link")
	}
}

func TestHasMention(t *testing.T) {
	if !HasMention("ping @sam about it") {
		t.Fatalf("mention not detected")
	}
	if HasMention("meet @ 5pm") {
		t.Fatalf("bare @ should not count as a mention")
	}
}

func TestEmojisExtractsClusters(t *testing.T) {
	got := Emojis("love it ❤️ really \U0001F602\U0001F602")
	want := []string{"❤️", "\U0001F602", "\U0001F602"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Emojis() = %q, want %q", got, want)
	}
}

func TestEmojisKeepsZWJFamiliesTogether(t *testing.T) {
	family := "\U0001F468‍\U0001F469‍\U0001F467"
	got := Emojis("us: " + family)
	if len(got) != 1 || got[0] != family {
		t.Fatalf("Emojis() = %q, want one family cluster", got)
	}
}

func TestEmojisSkinToneAttachesToBase(t *testing.T) {
	wave := "\U0001F44B\U0001F3FD"
	got := Emojis(wave + " hi")
	if len(got) != 1 || got[0] != wave {
		t.Fatalf("Emojis() = %q, want single toned cluster", got)
	}
}

func TestEmojisFlagPairs(t *testing.T) {
	flag := "\U0001F1EB\U0001F1F7" // FR
	got := Emojis("going to " + flag)
	if len(got) != 1 || got[0] != flag {
		t.Fatalf("Emojis() = %q, want one flag cluster", got)
	}
}

func TestWordCount(t *testing.T) {
	if n := WordCount("  two   words "); n != 2 {
		t.Fatalf("WordCount = %d, want 2", n)
	}
	if n := WordCount(""); n != 0 {
		t.Fatalf("WordCount(\"\") = %d, want 0", n)
	}
}
