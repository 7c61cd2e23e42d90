package analysis

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/glowlab/skinsight/internal/domain/vision"
)

// ID type for an analysis record
type ID string

// Status enum. Mutated only by the orchestrator, monotonically forward
// except for the jump to StatusError, which is reachable from any
// non-terminal state.
type Status string

const (
	StatusUploading  Status = "uploading"
	StatusScreening  Status = "screening"
	StatusDetecting  Status = "detecting"
	StatusGenerating Status = "generating"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// forward transition table; error is handled separately by Fail.
var next = map[Status]Status{
	StatusUploading:  StatusScreening,
	StatusScreening:  StatusDetecting,
	StatusDetecting:  StatusGenerating,
	StatusGenerating: StatusComplete,
}

// Aggregate root: one record per invocation attempt.
type Record struct {
	ID             ID             `json:"id"`
	OwnerID        string         `json:"owner_id"`
	Status         Status         `json:"status"`
	SkinType       string         `json:"skin_type,omitempty"`
	Confidence     *float64       `json:"confidence,omitempty"`
	PrimaryConcern string         `json:"primary_concern,omitempty"`
	DetectedTraits []vision.Trait `json:"detected_traits"`
	Notes          []string       `json:"notes,omitempty"`
	ModelVersion   string         `json:"model_version,omitempty"`
	ImageRefs      []string       `json:"image_refs,omitempty"`
	ErrorReason    string         `json:"error_reason,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
}

// NewRecord creates a record in the uploading state.
func NewRecord(ownerID string, now time.Time) *Record {
	return &Record{
		ID:        ID(uuid.New().String()),
		OwnerID:   ownerID,
		Status:    StatusUploading,
		CreatedAt: now,
	}
}

// Terminal reports whether the record reached complete or error.
func (r *Record) Terminal() bool {
	return r.Status == StatusComplete || r.Status == StatusError
}

// Advance moves the record one step forward. Illegal jumps are rejected so
// no state is ever skipped. Reaching complete stamps CompletedAt exactly
// once.
func (r *Record) Advance(to Status, now time.Time) error {
	if r.Terminal() {
		return fmt.Errorf("analysis %s: already terminal (%s)", r.ID, r.Status)
	}
	if next[r.Status] != to {
		return fmt.Errorf("analysis %s: illegal transition %s -> %s", r.ID, r.Status, to)
	}
	r.Status = to
	if to == StatusComplete && r.CompletedAt == nil {
		at := now
		r.CompletedAt = &at
	}
	return nil
}

// Fail marks the record terminally failed from any non-terminal state,
// retaining the raw cause for operator diagnostics only. CompletedAt is
// stamped identically to the success path.
func (r *Record) Fail(reason string, now time.Time) {
	if r.Terminal() {
		return
	}
	r.Status = StatusError
	r.ErrorReason = reason
	if r.CompletedAt == nil {
		at := now
		r.CompletedAt = &at
	}
}

// ApplyResult copies the validated vision payload and the image references
// into the record, immediately before the final persist.
func (r *Record) ApplyResult(res *vision.Result, imageRefs []string) {
	r.SkinType = string(res.SkinType)
	r.Confidence = res.Confidence
	r.PrimaryConcern = res.PrimaryConcern
	r.DetectedTraits = res.Traits
	r.Notes = res.Notes
	r.ModelVersion = res.ModelVersion
	r.ImageRefs = imageRefs
}
