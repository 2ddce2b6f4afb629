package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"brickvault/models"
)

// ValidationError is a client-side rejection that blocks a request before
// it is sent. Message is shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

const (
	MaxBioLength      = 500
	MaxLocationLength = 100
	MaxCommentLength  = 2000
)

// ValidateProfile checks the editable profile fields
func ValidateProfile(p models.ProfileUpdate) error {
	if err := validateText("bio", "Bio", p.Bio, MaxBioLength); err != nil {
		return err
	}
	return validateText("location", "Location", p.Location, MaxLocationLength)
}

// ValidateComment checks a blog comment before posting
func ValidateComment(content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "content", Message: "Comment cannot be empty."}
	}
	if n := utf8.RuneCountInString(content); n > MaxCommentLength {
		return &ValidationError{Field: "content", Message: fmt.Sprintf("Comment is too long (%d characters). Maximum is %d.", n, MaxCommentLength)}
	}
	return nil
}

// ValidateDraft checks the blog editor fields required to save a post
func ValidateDraft(d models.BlogDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Message: "Title is required."}
	}
	if strings.TrimSpace(d.Content) == "" {
		return &ValidationError{Field: "content", Message: "Content is required."}
	}
	if d.Status != "draft" && d.Status != "published" {
		return &ValidationError{Field: "status", Message: "Status must be draft or published."}
	}
	return nil
}

func validateText(field, label, value string, limit int) error {
	if n := utf8.RuneCountInString(value); n > limit {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s is too long (%d characters). Maximum is %d.", label, n, limit)}
	}
	if ContainsEmoji(value) {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s cannot contain emoji.", label)}
	}
	return nil
}

// ContainsEmoji reports whether s contains a pictographic character
func ContainsEmoji(s string) bool {
	for _, r := range s {
		switch {
		case r >= 0x1F000 && r <= 0x1FAFF: // pictographs, emoticons, transport
			return true
		case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
			return true
		case r == 0xFE0F || r == 0x200D: // variation selector, zero width joiner
			return true
		}
	}
	return false
}

var (
	setNumPattern = regexp.MustCompile(`^[0-9a-z]+(-[0-9]+)?$`)
	slugStrip     = regexp.MustCompile(`[^a-z0-9]+`)
)

// NormalizeSetNum turns user input into a set number: "10220" -> "10220-1".
// ok is false when the input cannot be a set number.
func NormalizeSetNum(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || !setNumPattern.MatchString(s) {
		return "", false
	}
	if !strings.Contains(s, "-") {
		s += "-1"
	}
	return s, true
}

// Slugify builds a URL slug from a title
func Slugify(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}
