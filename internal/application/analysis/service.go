package analysis

import (
	"context"
	"fmt"

	"github.com/glowlab/skinsight/internal/application"
	"github.com/glowlab/skinsight/internal/application/ratelimit"
	domain "github.com/glowlab/skinsight/internal/domain/analysis"
	"github.com/glowlab/skinsight/internal/domain/images"
	"github.com/glowlab/skinsight/internal/domain/vision"
)

// Service drives one analysis attempt through its lifecycle states.
// Safe for concurrent use; the limiter is the only shared mutable state.
type Service struct {
	Records domain.Repository
	Images  images.Repository
	Signer  images.URLSigner
	Vision  vision.Client
	Limiter *ratelimit.Limiter
	Clock   application.Clock
}

// StartAnalysis runs one full orchestration cycle for the owner:
// rate-limit gate, record creation, image resolution, signed-URL minting,
// model invocation, persistence, summary mapping. The caller gets either a
// summary or one of the typed errors from the domain taxonomy.
func (s *Service) StartAnalysis(ctx context.Context, ownerID string) (*Summary, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}

	// the rate check precedes image resolution, so a permit is consumed
	// even when uploads turn out to be missing
	if retryAfter, allowed := s.Limiter.CheckAndConsume(ownerID); !allowed {
		return nil, &domain.RateLimitedError{RetryAfter: retryAfter}
	}

	rec := domain.NewRecord(ownerID, s.Clock.Now())
	if err := s.Records.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: creating analysis record: %v", domain.ErrInternal, err)
	}

	// uploading -> screening: image resolution happens during this phase
	if err := s.advance(ctx, rec, domain.StatusScreening); err != nil {
		return nil, s.fail(ctx, rec, err)
	}
	candidates, err := s.Images.ActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.fail(ctx, rec, fmt.Errorf("resolving images: %w", err))
	}
	byAngle, err := images.CollectByAngle(candidates)
	if err != nil {
		return nil, s.fail(ctx, rec, err)
	}

	// fresh grants on every attempt, one per angle in fixed order
	urls := make([]string, 0, images.RequiredImages)
	refs := make([]string, 0, images.RequiredImages)
	for _, angle := range images.RequiredAngles() {
		img := byAngle[angle]
		u, err := s.Signer.SignedGetURL(ctx, img.StorageLocation)
		if err != nil {
			return nil, s.fail(ctx, rec, &images.SignedAccessError{Location: img.StorageLocation, Err: err})
		}
		urls = append(urls, u)
		refs = append(refs, img.ID)
	}

	// screening -> detecting: immediately before the model call
	if err := s.advance(ctx, rec, domain.StatusDetecting); err != nil {
		return nil, s.fail(ctx, rec, err)
	}
	res, err := s.Vision.Analyze(ctx, urls)
	if err != nil {
		return nil, s.fail(ctx, rec, err)
	}

	// detecting -> generating: immediately before persisting results
	if err := s.advance(ctx, rec, domain.StatusGenerating); err != nil {
		return nil, s.fail(ctx, rec, err)
	}
	rec.ApplyResult(res, refs)
	if err := rec.Advance(domain.StatusComplete, s.Clock.Now()); err != nil {
		return nil, s.fail(ctx, rec, err)
	}
	if err := s.Records.Save(ctx, rec); err != nil {
		return nil, s.fail(ctx, rec, fmt.Errorf("%w: persisting results: %v", domain.ErrInternal, err))
	}

	return BuildSummary(rec), nil
}

// GetLatestAnalysis returns the most recently completed record's summary,
// or (nil, nil) when the owner has no completed analysis yet.
func (s *Service) GetLatestAnalysis(ctx context.Context, ownerID string) (*Summary, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	rec, err := s.Records.LatestCompleted(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading latest analysis: %v", domain.ErrInternal, err)
	}
	if rec == nil {
		return nil, nil
	}
	return BuildSummary(rec), nil
}

// Get returns one owner-scoped record, for mid-flight status polling.
func (s *Service) Get(ctx context.Context, ownerID string, id domain.ID) (*domain.Record, error) {
	return s.Records.Get(ctx, ownerID, id)
}

// Latest returns the owner's most recent records by creation time.
func (s *Service) Latest(ctx context.Context, ownerID string, limit int) ([]*domain.Record, error) {
	return s.Records.Latest(ctx, ownerID, limit)
}

// advance moves the record forward and makes the new state observable to
// external readers before the phase's work begins.
func (s *Service) advance(ctx context.Context, rec *domain.Record, to domain.Status) error {
	if err := rec.Advance(to, s.Clock.Now()); err != nil {
		return err
	}
	if err := s.Records.UpdateStatus(ctx, rec.OwnerID, rec.ID, to); err != nil {
		return fmt.Errorf("%w: updating status to %s: %v", domain.ErrInternal, to, err)
	}
	return nil
}

// fail records the terminal error state with the raw cause and hands the
// typed error back for categorization at the boundary. The persisted
// error_reason is operator-only detail.
func (s *Service) fail(ctx context.Context, rec *domain.Record, cause error) error {
	rec.Fail(cause.Error(), s.Clock.Now())
	if err := s.Records.Save(ctx, rec); err != nil {
		// the error write itself failed; nothing further to persist
		return fmt.Errorf("%w: recording failure (%v): %v", domain.ErrInternal, cause, err)
	}
	return cause
}
