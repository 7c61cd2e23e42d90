package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/glowlab/skinsight/internal/domain/analysis"
	"github.com/glowlab/skinsight/internal/domain/vision"
)

type AnalysisRepository struct{ db *sql.DB }

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository { return &AnalysisRepository{db: db} }

// Save insert/update one analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Record) error {
	const q = `
INSERT INTO analyses
(id, owner_id, status, skin_type, confidence, primary_concern,
 traits, notes, model_version, image_refs, error_reason,
 created_at, completed_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 status = VALUES(status),
 skin_type = VALUES(skin_type),
 confidence = VALUES(confidence),
 primary_concern = VALUES(primary_concern),
 traits = VALUES(traits),
 notes = VALUES(notes),
 model_version = VALUES(model_version),
 image_refs = VALUES(image_refs),
 error_reason = VALUES(error_reason),
 completed_at = VALUES(completed_at);`

	traits, err := json.Marshal(a.DetectedTraits)
	if err != nil {
		return fmt.Errorf("encoding traits: %w", err)
	}
	notes, err := json.Marshal(a.Notes)
	if err != nil {
		return fmt.Errorf("encoding notes: %w", err)
	}
	refs, err := json.Marshal(a.ImageRefs)
	if err != nil {
		return fmt.Errorf("encoding image refs: %w", err)
	}

	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = r.db.ExecContext(ctx, q,
		a.ID, a.OwnerID, a.Status, nullString(a.SkinType), nullFloat(a.Confidence),
		nullString(a.PrimaryConcern), traits, notes, nullString(a.ModelVersion),
		refs, nullString(a.ErrorReason), created, nullTime(a.CompletedAt),
	)
	return err
}

// UpdateStatus writes one lifecycle transition, scoped to the owner.
func (r *AnalysisRepository) UpdateStatus(ctx context.Context, ownerID string, id domain.ID, status domain.Status) error {
	const q = `UPDATE analyses SET status = ? WHERE owner_id = ? AND id = ?;`
	_, err := r.db.ExecContext(ctx, q, status, ownerID, id)
	return err
}

// Get by ID + owner
func (r *AnalysisRepository) Get(ctx context.Context, ownerID string, id domain.ID) (*domain.Record, error) {
	const q = selectColumns + `
FROM analyses
WHERE owner_id = ? AND id = ?
LIMIT 1;`
	return scanRecord(r.db.QueryRowContext(ctx, q, ownerID, id))
}

// Latest records per owner by creation time
func (r *AnalysisRepository) Latest(ctx context.Context, ownerID string, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = selectColumns + `
FROM analyses
WHERE owner_id = ?
ORDER BY created_at DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LatestCompleted: most recently completed record by completion time,
// (nil, nil) when none exists.
func (r *AnalysisRepository) LatestCompleted(ctx context.Context, ownerID string) (*domain.Record, error) {
	const q = selectColumns + `
FROM analyses
WHERE owner_id = ? AND status = 'complete'
ORDER BY completed_at DESC
LIMIT 1;`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

const selectColumns = `
SELECT id, owner_id, status, skin_type, confidence, primary_concern,
       traits, notes, model_version, image_refs, error_reason,
       created_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var (
		rec                    domain.Record
		skinType, concern      sql.NullString
		modelVersion, reason   sql.NullString
		confidence             sql.NullFloat64
		traits, notes, imgRefs []byte
		completedAt            sql.NullTime
	)
	if err := row.Scan(
		&rec.ID, &rec.OwnerID, &rec.Status, &skinType, &confidence, &concern,
		&traits, &notes, &modelVersion, &imgRefs, &reason,
		&rec.CreatedAt, &completedAt,
	); err != nil {
		return nil, err
	}

	rec.SkinType = skinType.String
	rec.PrimaryConcern = concern.String
	rec.ModelVersion = modelVersion.String
	rec.ErrorReason = reason.String
	if confidence.Valid {
		v := confidence.Float64
		rec.Confidence = &v
	}
	if completedAt.Valid {
		t := completedAt.Time
		rec.CompletedAt = &t
	}
	if len(traits) > 0 {
		if err := json.Unmarshal(traits, &rec.DetectedTraits); err != nil {
			return nil, fmt.Errorf("decoding traits: %w", err)
		}
	}
	if rec.DetectedTraits == nil {
		rec.DetectedTraits = []vision.Trait{}
	}
	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &rec.Notes); err != nil {
			return nil, fmt.Errorf("decoding notes: %w", err)
		}
	}
	if len(imgRefs) > 0 {
		if err := json.Unmarshal(imgRefs, &rec.ImageRefs); err != nil {
			return nil, fmt.Errorf("decoding image refs: %w", err)
		}
	}
	return &rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
