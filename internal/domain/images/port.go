package images

import "context"

// Repository port: read-only access to the externally-populated image store.
type Repository interface {
	// ActiveByOwner returns the newest non-deleted record per required
	// angle for the owner. Implementations may return extra rows; callers
	// narrow the set with CollectByAngle.
	ActiveByOwner(ctx context.Context, ownerID string) ([]*Image, error)
}

// URLSigner port: mints a short-lived read-only URL for one stored object.
// Grants are minted fresh on every orchestration attempt, never cached.
type URLSigner interface {
	SignedGetURL(ctx context.Context, storageLocation string) (string, error)
}
