// Package submission freezes an edited setup graph and its form metadata
// into the create-setup wire payload and relays it to the server.
package submission

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/restynation/buythatworks/pkg/auth"
)

const (
	MaxNameLength        = 200
	MaxBuilderNameLength = 100
	MaxCommentLength     = 500

	// MaxImageBytes is the largest image accepted for upload.
	MaxImageBytes = 5 * 1024 * 1024
)

// SetupType says whether a setup is owned today or wished for.
type SetupType string

const (
	Current SetupType = "current"
	Dream   SetupType = "dream"
)

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New("setup is not valid")

// ValidationError lists every problem found before anything was sent.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Messages, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Image is a picture attached to a current setup.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// Ext returns the file extension without the dot, lower-cased.
func (i Image) Ext() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(i.Name), "."))
}

// Form is the metadata entered alongside the graph.
type Form struct {
	Name        string
	BuilderName string
	SetupType   SetupType
	Comment     string
	PIN         string

	// BuiltinDisplayUsable is only sent when the computer's product has a
	// built-in display.
	BuiltinDisplayUsable *bool

	Image *Image
}

// Validate checks required fields, text lengths, the PIN format and the
// image size. All problems are reported together.
func (f Form) Validate() error {
	var msgs []string

	if err := auth.ValidatePIN(f.PIN); err != nil {
		msgs = append(msgs, "Password must be exactly 4 digits")
	}
	if strings.TrimSpace(f.Name) == "" {
		msgs = append(msgs, "Setup name is required")
	}
	if strings.TrimSpace(f.BuilderName) == "" {
		msgs = append(msgs, "Builder name is required")
	}
	if strings.TrimSpace(f.Comment) == "" {
		msgs = append(msgs, "Comment is required")
	}
	if utf8.RuneCountInString(f.Name) > MaxNameLength {
		msgs = append(msgs, fmt.Sprintf("Setup name must be %d characters or less", MaxNameLength))
	}
	if utf8.RuneCountInString(f.BuilderName) > MaxBuilderNameLength {
		msgs = append(msgs, fmt.Sprintf("User name must be %d characters or less", MaxBuilderNameLength))
	}
	if utf8.RuneCountInString(f.Comment) > MaxCommentLength {
		msgs = append(msgs, fmt.Sprintf("Comment must be %d characters or less", MaxCommentLength))
	}
	switch f.SetupType {
	case Current, Dream:
	default:
		msgs = append(msgs, fmt.Sprintf("Unknown setup type %q", f.SetupType))
	}
	if f.Image != nil && len(f.Image.Data) > MaxImageBytes {
		msgs = append(msgs, "Image must be smaller than 5MB")
	}

	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}
