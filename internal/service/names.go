package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const maxNameRunes = 24

// SanitizeName normalizes a display name to NFC, strips control and format runes,
// collapses whitespace to single spaces and caps the length.
func SanitizeName(raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range norm.NFC.String(raw) {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r), !unicode.IsPrint(r):
		default:
			b.WriteRune(r)
		}
	}

	name := strings.Join(strings.Fields(b.String()), " ")
	if name == "" {
		return "", ErrInvalidName
	}
	if runes := []rune(name); len(runes) > maxNameRunes {
		// Never cut between a base rune and its combining marks.
		cut := maxNameRunes
		for cut > 0 && unicode.Is(unicode.Mn, runes[cut]) {
			cut--
		}
		name = strings.TrimSpace(string(runes[:cut]))
		if name == "" {
			return "", ErrInvalidName
		}
	}
	return name, nil
}
