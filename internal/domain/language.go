package domain

import (
	"fmt"
	"strings"
)

// Language is a supported content language.
type Language string

// Language constants.
const (
	English Language = "en"
	Farsi   Language = "fa"
)

// IsValid checks if the language is one of the supported values.
func (l Language) IsValid() bool {
	return l == English || l == Farsi
}

// ParseLanguage normalizes and validates a language code. Empty defaults to English.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if l == "" {
		return English, nil
	}
	if !l.IsValid() {
		return "", fmt.Errorf("unsupported language %q: %w", s, ErrInvalidInput)
	}
	return l, nil
}

// Text is a bilingual string. Either side may be empty.
type Text struct {
	EN string `json:"en" yaml:"en"`
	FA string `json:"fa" yaml:"fa"`
}

// For returns the side of the text for the given language.
func (t Text) For(l Language) string {
	if l == Farsi {
		return t.FA
	}
	return t.EN
}

// IsEmpty reports whether both sides are empty.
func (t Text) IsEmpty() bool {
	return strings.TrimSpace(t.EN) == "" && strings.TrimSpace(t.FA) == ""
}
