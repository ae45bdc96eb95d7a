package colour

import (
	"errors"
	"fmt"
)

// ErrNoColours is returned (wrapped in an ExtractionError) when an image
// yields no colours to cluster.
var ErrNoColours = errors.New("no colours found")

// InputError reports a source image that could not be found, read or decoded.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("failed to read source image %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// ExtractionError reports a decoded image from which no palette could be built.
type ExtractionError struct {
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("palette extraction failed: %v", e.Err)
	}
	return fmt.Sprintf("palette extraction failed for %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
