package agent

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrGenerationTimeout matches any *TimeoutError.
	ErrGenerationTimeout = errors.New("generation timed out")
	// ErrGenerationCancelled is returned for a request superseded or cancelled
	// before its result arrived.
	ErrGenerationCancelled = errors.New("generation cancelled")
	// ErrNoModel is returned when no chat model is configured.
	ErrNoModel = errors.New("no chat model configured")
)

// TimeoutError reports that the model did not answer in time.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("generation timed out after %s", e.After)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrGenerationTimeout
}

// Stage names where a generation can fail.
const (
	StageModel = "model"
	StageParse = "parse"
)

// GenerationError wraps a failed model call or an unusable reply.
type GenerationError struct {
	Stage string
	Err   error
	// Raw holds the model reply when Stage is StageParse.
	Raw string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
