package editor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var profanity = []string{"fuck", "shit", "damn", "hell", "ass"}

const bleepToken = "[bleep]"

// AutoPunctuate capitalizes, terminates and tidies every caption. Each cleanup
// substitution runs exactly once, so "a   b" keeps one double space.
func (s *Store) AutoPunctuate() {
	for i := range s.captions {
		s.captions[i].Text = punctuate(s.captions[i].Text)
	}
	s.commit()
	s.logger.Infow("Auto-punctuation applied", "captions", len(s.captions))
}

func punctuate(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if unicode.IsLower(r) {
		text = string(unicode.ToUpper(r)) + text[size:]
	}
	if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "?") && !strings.HasSuffix(text, "!") {
		text += "."
	}

	text = strings.ReplaceAll(text, " ,", ",")
	text = strings.ReplaceAll(text, " .", ".")
	text = strings.ReplaceAll(text, "  ", " ")
	return text
}

// FindReplace substitutes the literal replace text for every non-overlapping
// match of find, scanning left to right.
func (s *Store) FindReplace(find, replace string, caseSensitive bool) (int, error) {
	if find == "" {
		return 0, fmt.Errorf("find and replace: %w", ErrEmptyPattern)
	}

	total := 0
	for i := range s.captions {
		var n int
		if caseSensitive {
			n = strings.Count(s.captions[i].Text, find)
			s.captions[i].Text = strings.ReplaceAll(s.captions[i].Text, find, replace)
		} else {
			s.captions[i].Text, n = replaceFold(s.captions[i].Text, find, replace)
		}
		total += n
	}
	s.commit()

	s.logger.Infow("Find and replace", "find", find, "replace", replace, "case_sensitive", caseSensitive, "matches", total)
	return total, nil
}

// replaceFold matches find under Unicode case folding over windows of the same
// rune count as find.
func replaceFold(text, find, replace string) (string, int) {
	width := utf8.RuneCountInString(find)

	var b strings.Builder
	count := 0
	for i := 0; i < len(text); {
		end, ok := advanceRunes(text, i, width)
		if ok && strings.EqualFold(text[i:end], find) {
			b.WriteString(replace)
			count++
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		b.WriteString(text[i : i+size])
		i += size
	}
	return b.String(), count
}

// byte offset n runes past start, false when text is too short
func advanceRunes(text string, start, n int) (int, bool) {
	i := start
	for range n {
		if i >= len(text) {
			return 0, false
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return i, true
}

// ApplyProfanityFilter masks listed words in their lower case and leading
// capital forms only. Other casings such as "DAMN" pass through.
func (s *Store) ApplyProfanityFilter(bleep bool) {
	for i := range s.captions {
		s.captions[i].Text = filterProfanity(s.captions[i].Text, bleep)
	}
	s.commit()
	s.logger.Infow("Profanity filter applied", "bleep", bleep, "captions", len(s.captions))
}

func filterProfanity(text string, bleep bool) string {
	for _, word := range profanity {
		for _, form := range []string{word, capitalize(word)} {
			mask := bleepToken
			if !bleep {
				mask = strings.Repeat("*", utf8.RuneCountInString(form))
			}
			text = strings.ReplaceAll(text, form, mask)
		}
	}
	return text
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + word[size:]
}
