package library

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/booknotes/internal/domain/view"
	"github.com/xiebiao/booknotes/pkg/metrics"
)

// Metric labels and cache key prefixes of the read views
const (
	viewTopRated   = "top_rated"
	viewMostRecent = "most_recent"
	viewDetail     = "detail"
	viewSearch     = "search"
	viewHome       = "home"
)

// ViewUseCase read views, served cache-aside
type ViewUseCase struct {
	views  view.Service
	cache  ViewCache
	logger *zap.Logger
}

// NewViewUseCase creates the view use cases
func NewViewUseCase(views view.Service, cache ViewCache, logger *zap.Logger) *ViewUseCase {
	if cache == nil {
		cache = NopCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewUseCase{views: views, cache: cache, logger: logger}
}

// TopRated highest rated books first
func (uc *ViewUseCase) TopRated(ctx context.Context, limit int) ([]ReviewedBookResponse, error) {
	limit = effectiveLimit(limit)
	return cached(ctx, uc, viewTopRated, fmt.Sprintf("%s:%d", viewTopRated, limit),
		func() ([]ReviewedBookResponse, error) {
			rows, err := uc.views.TopRated(ctx, limit)
			if err != nil {
				return nil, err
			}
			return toReviewedResponses(rows), nil
		})
}

// MostRecent latest read books first
func (uc *ViewUseCase) MostRecent(ctx context.Context, limit int) ([]ReviewedBookResponse, error) {
	limit = effectiveLimit(limit)
	return cached(ctx, uc, viewMostRecent, fmt.Sprintf("%s:%d", viewMostRecent, limit),
		func() ([]ReviewedBookResponse, error) {
			rows, err := uc.views.MostRecent(ctx, limit)
			if err != nil {
				return nil, err
			}
			return toReviewedResponses(rows), nil
		})
}

// SearchReviews reviewed books whose title contains fragment, sorted by sort
func (uc *ViewUseCase) SearchReviews(ctx context.Context, fragment, sort string) ([]ReviewedBookResponse, error) {
	key, err := view.ParseSortKey(strings.TrimSpace(sort))
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s:%s:%s", viewSearch, key, strings.ToLower(strings.TrimSpace(fragment)))
	return cached(ctx, uc, viewSearch, name, func() ([]ReviewedBookResponse, error) {
		rows, err := uc.views.SearchReviews(ctx, fragment, key.String())
		if err != nil {
			return nil, err
		}
		return toReviewedResponses(rows), nil
	})
}

// Detail book with its review and notes
func (uc *ViewUseCase) Detail(ctx context.Context, bookID uint) (*DetailResponse, error) {
	return cached(ctx, uc, viewDetail, fmt.Sprintf("%s:%d", viewDetail, bookID),
		func() (*DetailResponse, error) {
			d, err := uc.views.Detail(ctx, bookID)
			if err != nil {
				return nil, err
			}
			return toDetailResponse(d), nil
		})
}

// Home top rated and most recent together
func (uc *ViewUseCase) Home(ctx context.Context) (*HomeResponse, error) {
	return cached(ctx, uc, viewHome, viewHome, func() (*HomeResponse, error) {
		h, err := uc.views.Home(ctx)
		if err != nil {
			return nil, err
		}
		return &HomeResponse{
			TopRated:   toReviewedResponses(h.TopRated),
			MostRecent: toReviewedResponses(h.MostRecent),
		}, nil
	})
}

// cached serves name from the cache, or loads and stores it.
// Cache errors degrade to a direct load. The generation is read before
// the load so a write committing meanwhile keeps the result out.
func cached[T any](ctx context.Context, uc *ViewUseCase, label, name string, load func() (T, error)) (T, error) {
	var v T
	gen, genErr := uc.cache.Generation(ctx)
	if genErr != nil {
		uc.logger.Warn("view cache generation read failed", zap.String("view", name), zap.Error(genErr))
	}
	hit, err := uc.cache.Get(ctx, name, &v)
	if err != nil {
		uc.logger.Warn("view cache read failed", zap.String("view", name), zap.Error(err))
	}
	metrics.IncViewCache(label, hit)
	if hit {
		return v, nil
	}

	v, err = load()
	if err != nil {
		return v, err
	}
	if genErr != nil {
		return v, nil
	}
	if err := uc.cache.Set(ctx, name, gen, v); err != nil {
		uc.logger.Warn("view cache write failed", zap.String("view", name), zap.Error(err))
	}
	return v, nil
}

func effectiveLimit(limit int) int {
	if limit <= 0 {
		return view.DefaultLimit
	}
	return limit
}
