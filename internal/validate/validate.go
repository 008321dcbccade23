// Package validate checks a draft comment against the submission rules.
// Rules run in a fixed order and the first failure wins; the returned errors
// carry the exact user-facing reason shown in the widget's message line.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"pagetalk/internal/model"
)

const (
	// MaxContentLen is the longest accepted comment body, in runes.
	MaxContentLen = 2000
	// MaxNicknameLen is enforced by the input layer (field length limit),
	// not re-checked here.
	MaxNicknameLen = 15
)

var (
	ErrMissingNickname   = errors.New("missing nickname")
	ErrNicknameInjection = errors.New("rejected: possible injection")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrInvalidWebsite    = errors.New("invalid website")
	ErrMissingContent    = errors.New("missing content")
	ErrContentTooLong    = errors.New("content too long")
)

var (
	emailRe   = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+@[a-zA-Z0-9_\-.]+\.[a-zA-Z]{2,8}$`)
	websiteRe = regexp.MustCompile(`^https?://[a-zA-Z0-9\-.]+\.[a-zA-Z0-9\-.]+(:\d+)?[\w\-/.@?=%&+#]*$`)
)

// Check returns nil when the draft is acceptable, or the first failing rule's
// reason. It is pure: no network, no storage, no side effects. Callers are
// expected to have trimmed the fields already (BeginSubmit does).
func Check(c model.Comment) error {
	if c.Nickname == "" {
		return ErrMissingNickname
	}
	if strings.ContainsAny(c.Nickname, "<>") {
		return ErrNicknameInjection
	}
	if c.Email != "" && !emailRe.MatchString(c.Email) {
		return ErrInvalidEmail
	}
	if c.Website != "" && !websiteRe.MatchString(c.Website) {
		return ErrInvalidWebsite
	}
	if c.Content == "" {
		return ErrMissingContent
	}
	if utf8.RuneCountInString(c.Content) > MaxContentLen {
		return ErrContentTooLong
	}
	return nil
}
