package analysis

import "context"

// Repository port (interface for persistence). All queries and mutations
// are scoped to the owner.
type Repository interface {
	Save(ctx context.Context, r *Record) error
	UpdateStatus(ctx context.Context, ownerID string, id ID, status Status) error
	Get(ctx context.Context, ownerID string, id ID) (*Record, error)
	Latest(ctx context.Context, ownerID string, limit int) ([]*Record, error)
	// LatestCompleted returns the most recently completed record by
	// completion time, or (nil, nil) when the owner has none.
	LatestCompleted(ctx context.Context, ownerID string) (*Record, error)
}
