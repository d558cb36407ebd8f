package pipeline

import (
	"errors"
	"fmt"

	"github.com/kiesman99/pbrtex/pkg/texture"
)

var (
	// ErrBusy is returned when a generation is already running on the
	// same pipeline
	ErrBusy = errors.New("texture generation already in progress")

	// ErrInvalidInput is returned for requests rejected before processing
	ErrInvalidInput = errors.New("invalid input")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// GenerationError aborts a run. It wraps the failure of one map's
// generation or encoding.
type GenerationError struct {
	Kind  texture.Kind
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to %s %s map: %v", e.Stage, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// TilingError records why one texture could not be tiled. It never aborts
// a run; the untiled map is kept instead.
type TilingError struct {
	Kind texture.Kind
	Err  error
}

func (e *TilingError) Error() string {
	return fmt.Sprintf("tiling %s: %v", e.Kind, e.Err)
}

func (e *TilingError) Unwrap() error {
	return e.Err
}
