package images

import (
	"fmt"
	"strings"
)

// MissingImagesError names the angles that had no active upload.
type MissingImagesError struct {
	Angles []Angle
}

func (e *MissingImagesError) Error() string {
	parts := make([]string, len(e.Angles))
	for i, a := range e.Angles {
		parts[i] = string(a)
	}
	return "images: no upload found for angle(s): " + strings.Join(parts, ", ")
}

// SignedAccessError wraps a failure to mint a signed read URL. Treated as a
// service fault; a subsequent invocation may succeed.
type SignedAccessError struct {
	Location string
	Err      error
}

func (e *SignedAccessError) Error() string {
	return fmt.Sprintf("images: signing access to %q: %v", e.Location, e.Err)
}

func (e *SignedAccessError) Unwrap() error { return e.Err }
