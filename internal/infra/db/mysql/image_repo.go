package mysql

import (
	"context"
	"database/sql"

	"github.com/glowlab/skinsight/internal/domain/images"
)

type ImageRepository struct{ db *sql.DB }

func NewImageRepository(db *sql.DB) *ImageRepository { return &ImageRepository{db: db} }

// ActiveByOwner returns the newest non-deleted upload per required angle.
func (r *ImageRepository) ActiveByOwner(ctx context.Context, ownerID string) ([]*images.Image, error) {
	const q = `
SELECT i.id, i.owner_id, i.angle, i.storage_location, i.created_at
FROM images i
JOIN (
  SELECT angle, MAX(created_at) AS newest
  FROM images
  WHERE owner_id = ? AND deleted_at IS NULL AND angle IN ('front','left_45','right_45')
  GROUP BY angle
) latest ON latest.angle = i.angle AND latest.newest = i.created_at
WHERE i.owner_id = ? AND i.deleted_at IS NULL;`

	rows, err := r.db.QueryContext(ctx, q, ownerID, ownerID)
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
