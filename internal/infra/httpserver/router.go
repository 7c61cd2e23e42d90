package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/glowlab/skinsight/internal/application/analysis"
	domain "github.com/glowlab/skinsight/internal/domain/analysis"
	"github.com/glowlab/skinsight/internal/domain/vision"
	"github.com/glowlab/skinsight/internal/middleware"
)

type Router struct {
	svc *appanalysis.Service
}

// NewRouter assembles the HTTP surface: CORS, logging, metrics and API-key
// auth around the analysis endpoints plus health/metrics probes.
func NewRouter(svc *appanalysis.Service, apiKeys map[string]string, checkers map[string]middleware.HealthChecker, allowedOrigins []string) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.APIKeyAuth(apiKeys))

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/analyses", func(rt chi.Router) {
		rt.Post("/", r.wrap(r.handleStartAnalysis))
		rt.Get("/", r.wrap(r.handleList))
		rt.Get("/latest", r.wrap(r.handleLatest))
		rt.Get("/{id}", r.wrap(r.handleGet))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps the domain error taxonomy onto HTTP. Only the user-safe
// message from Categorize leaves the process; raw causes stay in the
// persisted error_reason.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		category, msg := domain.Categorize(err)
		switch category {
		case domain.CategoryUnauthorized:
			http.Error(w, msg, http.StatusUnauthorized)
		case domain.CategoryMissingImages:
			http.Error(w, msg, http.StatusUnprocessableEntity)
		case domain.CategoryRateLimited:
			var rl *domain.RateLimitedError
			if errors.As(err, &rl) {
				secs := int(rl.RetryAfter.Seconds())
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
			}
			middleware.IncrementRateLimited()
			http.Error(w, msg, http.StatusTooManyRequests)
		case domain.CategoryUnavailable:
			http.Error(w, msg, http.StatusServiceUnavailable)
		default:
			http.Error(w, msg, http.StatusInternalServerError)
		}
	}
}

// POST /v1/analyses
func (r *Router) handleStartAnalysis(w http.ResponseWriter, req *http.Request) error {
	owner := middleware.GetOwnerFromContext(req.Context())
	if err := middleware.ValidateOwnerID(owner); err != nil {
		return domain.ErrUnauthorized
	}

	middleware.IncrementAnalyses()
	summary, err := r.svc.StartAnalysis(req.Context(), owner)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(summary)
}

// GET /v1/analyses/latest
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	owner := middleware.GetOwnerFromContext(req.Context())
	if err := middleware.ValidateOwnerID(owner); err != nil {
		return domain.ErrUnauthorized
	}

	summary, err := r.svc.GetLatestAnalysis(req.Context(), owner)
	if err != nil {
		return err
	}
	if summary == nil {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(summary)
}

// recordView is the owner-facing projection of a record. The persisted
// error_reason is operator-only diagnostic detail and never leaves the
// process; failed records carry the generic message instead.
type recordView struct {
	ID             domain.ID      `json:"id"`
	OwnerID        string         `json:"owner_id"`
	Status         domain.Status  `json:"status"`
	SkinType       string         `json:"skin_type,omitempty"`
	Confidence     *float64       `json:"confidence,omitempty"`
	PrimaryConcern string         `json:"primary_concern,omitempty"`
	DetectedTraits []vision.Trait `json:"detected_traits"`
	Notes          []string       `json:"notes,omitempty"`
	ModelVersion   string         `json:"model_version,omitempty"`
	ImageRefs      []string       `json:"image_refs,omitempty"`
	Error          string         `json:"error,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
}

func newRecordView(rec *domain.Record) recordView {
	v := recordView{
		ID:             rec.ID,
		OwnerID:        rec.OwnerID,
		Status:         rec.Status,
		SkinType:       rec.SkinType,
		Confidence:     rec.Confidence,
		PrimaryConcern: rec.PrimaryConcern,
		DetectedTraits: rec.DetectedTraits,
		Notes:          rec.Notes,
		ModelVersion:   rec.ModelVersion,
		ImageRefs:      rec.ImageRefs,
		CreatedAt:      rec.CreatedAt,
		CompletedAt:    rec.CompletedAt,
	}
	if rec.Status == domain.StatusError {
		v.Error = domain.GenericFailureMessage
	}
	return v
}

// GET /v1/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	owner := middleware.GetOwnerFromContext(req.Context())
	if err := middleware.ValidateOwnerID(owner); err != nil {
		return domain.ErrUnauthorized
	}
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	rec, err := r.svc.Get(req.Context(), owner, domain.ID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(newRecordView(rec))
}

// GET /v1/analyses?limit=20
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	owner := middleware.GetOwnerFromContext(req.Context())
	if err := middleware.ValidateOwnerID(owner); err != nil {
		return domain.ErrUnauthorized
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	list, err := r.svc.Latest(req.Context(), owner, limit)
	if err != nil {
		return err
	}

	views := make([]recordView, 0, len(list))
	for _, rec := range list {
		views = append(views, newRecordView(rec))
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(views)
}
