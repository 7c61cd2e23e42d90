package postgres

import (
	"context"
	"database/sql"

	"github.com/glowlab/skinsight/internal/domain/images"
	"github.com/lib/pq"
)

type ImageRepository struct{ db *sql.DB }

func NewImageRepository(db *sql.DB) *ImageRepository { return &ImageRepository{db: db} }

// ActiveByOwner returns the newest non-deleted upload per required angle.
func (r *ImageRepository) ActiveByOwner(ctx context.Context, ownerID string) ([]*images.Image, error) {
	const q = `
SELECT DISTINCT ON (angle) id, owner_id, angle, storage_location, created_at
FROM images
WHERE owner_id = $1 AND deleted_at IS NULL AND angle = ANY($2)
ORDER BY angle, created_at DESC;`

	angles := images.RequiredAngles()
	names := make([]string, len(angles))
	for i, a := range angles {
		names[i] = string(a)
	}

	rows, err := r.db.QueryContext(ctx, q, ownerID, pq.Array(names))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*images.Image
	for rows.Next() {
		var img images.Image
		if err := rows.Scan(&img.ID, &img.OwnerID, &img.Angle, &img.StorageLocation, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &img)
	}
	return out, rows.Err()
}
