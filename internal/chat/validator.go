// Package chat holds checks applied to marketplace chat messages before they
// reach the moderation filter.
package chat

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxMessageBytes = 4096 // 4KB max frame size
	MaxTextChars    = 2000 // max character count
)

var (
	ErrEmptyMessage   = errors.New("chat: message text is empty")
	ErrInvalidUTF8    = errors.New("chat: message contains invalid UTF-8")
	ErrMessageTooLong = errors.New("chat: message too long")
)

// ValidateMessage checks that a chat message can be classified. Whitespace
// only messages count as empty.
func ValidateMessage(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if !utf8.ValidString(text) {
		return ErrInvalidUTF8
	}
	if len(text) > MaxMessageBytes {
		return fmt.Errorf("%w: exceeds %d byte limit", ErrMessageTooLong, MaxMessageBytes)
	}
	if n := utf8.RuneCountInString(text); n > MaxTextChars {
		return fmt.Errorf("%w: %d characters, limit %d", ErrMessageTooLong, n, MaxTextChars)
	}
	return nil
}
