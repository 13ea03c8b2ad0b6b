package analysis

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Status constants for the analysis lifecycle.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// DefaultVideoType is used when the client does not tag the clip.
const DefaultVideoType = "General"

// Video types offered by the recorder.
var ValidVideoTypes = []string{DefaultVideoType, "Serve", "Forehand", "Backhand", "Volley", "Footwork"}

// Limits
const (
	MaxURILength     = 2048
	MaxFeedbackLines = 10
)

// Domain errors
var (
	ErrEmptyPlayerID    = errors.New("player ID is required")
	ErrEmptyVideoURI    = errors.New("video URI is required")
	ErrURITooLong       = errors.New("video URI cannot exceed 2048 characters")
	ErrInvalidVideoType = errors.New("video type is not recognised")
	ErrInvalidStatus    = errors.New("status must be 'processing', 'completed', or 'failed'")
	ErrNotProcessing    = errors.New("analysis is not processing")
	ErrMissingResult    = errors.New("completed analysis must carry a result")
	ErrInvalidScore     = errors.New("technique score must be between 0 and 10")
	ErrInvalidSpeed     = errors.New("speed must not be negative")
	ErrTooManyFeedback  = errors.New("feedback cannot exceed 10 lines")
	ErrNotFound         = errors.New("analysis not found")
)

// Result is what an analyzer reports for one clip.
type Result struct {
	Speed          int // km/h
	TechniqueScore float64
	Feedback       []string
}

// Validate checks the result is within range.
func (r *Result) Validate() error {
	if r.Speed < 0 {
		return ErrInvalidSpeed
	}
	if r.TechniqueScore < 0 || r.TechniqueScore > 10 {
		return ErrInvalidScore
	}
	if len(r.Feedback) > MaxFeedbackLines {
		return ErrTooManyFeedback
	}
	return nil
}

// Analyzer turns a recorded clip into a Result. Implementations may block
// and must honour ctx cancellation.
type Analyzer interface {
	Analyze(ctx context.Context, analysisID string) (Result, error)
}

// Analysis is one recorded clip and its (eventual) result.
// INVARIANT: Result is non-nil iff Status == completed.
type Analysis struct {
	ID           string
	PlayerID     string
	VideoURI     string
	VideoType    string
	ThumbnailURL string
	Status       string
	Result       *Result
	ErrorMessage string
	CreatedAt    time.Time
	CompletedAt  time.Time
}

// Validate checks if the Analysis has valid data.
// PRE: Analysis struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Analysis) Validate() error {
	if strings.TrimSpace(a.PlayerID) == "" {
		return ErrEmptyPlayerID
	}
	if strings.TrimSpace(a.VideoURI) == "" {
		return ErrEmptyVideoURI
	}
	if len(a.VideoURI) > MaxURILength || len(a.ThumbnailURL) > MaxURILength {
		return ErrURITooLong
	}
	if !IsValidVideoType(a.VideoType) {
		return ErrInvalidVideoType
	}
	switch a.Status {
	case StatusProcessing, StatusFailed:
	case StatusCompleted:
		if a.Result == nil {
			return ErrMissingResult
		}
		if err := a.Result.Validate(); err != nil {
			return err
		}
	default:
		return ErrInvalidStatus
	}
	return nil
}

// Complete records a successful result.
// PRE: Status is processing
// POST: Status is completed, Result set, CompletedAt = now
func (a *Analysis) Complete(r Result, now time.Time) error {
	if a.Status != StatusProcessing {
		return ErrNotProcessing
	}
	if err := r.Validate(); err != nil {
		return err
	}
	a.Status = StatusCompleted
	a.Result = &r
	a.ErrorMessage = ""
	a.CompletedAt = now
	return nil
}

// Fail marks the analysis as failed with the cause.
// PRE: Status is processing
// POST: Status is failed, ErrorMessage set
func (a *Analysis) Fail(cause error, now time.Time) error {
	if a.Status != StatusProcessing {
		return ErrNotProcessing
	}
	a.Status = StatusFailed
	a.ErrorMessage = cause.Error()
	a.CompletedAt = now
	return nil
}

// IsStale reports whether the analysis has been processing longer than maxAge.
func (a *Analysis) IsStale(now time.Time, maxAge time.Duration) bool {
	return a.Status == StatusProcessing && now.Sub(a.CreatedAt) > maxAge
}

// IsValidVideoType reports whether t is an accepted video type.
func IsValidVideoType(t string) bool {
	for _, v := range ValidVideoTypes {
		if v == t {
			return true
		}
	}
	return false
}
