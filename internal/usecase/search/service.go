// Package search implements the federated search orchestrator: a two-phase
// index-then-hydrate protocol with a relational fallback when the index is
// unavailable.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bzuer/ethnos-api/internal/cache"
	"github.com/bzuer/ethnos-api/internal/domain"
	domperson "github.com/bzuer/ethnos-api/internal/domain/person"
	"github.com/bzuer/ethnos-api/internal/domain/search/request"
	"github.com/bzuer/ethnos-api/internal/domain/search/result"
	domwork "github.com/bzuer/ethnos-api/internal/domain/work"
	"github.com/bzuer/ethnos-api/internal/metrics"
)

// DefaultCacheTTL keeps search pages warm for half an hour. The dataset is
// read-mostly; entries expire by TTL only, with no explicit invalidation.
const DefaultCacheTTL = 30 * time.Minute

// Service orchestrates search across the full-text index and the store.
type Service struct {
	index   Index
	works   WorkSource
	persons PersonSource
	logger  *zap.Logger

	cache *cache.Cache
	ttl   time.Duration
}

// New creates a search service. The cache is off until WithCache is called.
func New(index Index, works WorkSource, persons PersonSource, logger *zap.Logger) *Service {
	return &Service{
		index:   index,
		works:   works,
		persons: persons,
		logger:  logger,
		ttl:     DefaultCacheTTL,
	}
}

// WithCache attaches a cache-aside wrapper around search results.
func (s *Service) WithCache(c *cache.Cache, ttl time.Duration) *Service {
	s.cache = c
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

// SearchWorks answers a work search. It never fails on index unavailability
// or query deadline misses; only an unreachable store surfaces an error.
func (s *Service) SearchWorks(ctx context.Context, req *request.Request) (result.Page[domwork.Work], error) {
	key := cacheKey(req)
	page, _, err := cache.GetOrCompute(ctx, s.cache, key, s.ttl,
		func(ctx context.Context) (result.Page[domwork.Work], error) {
			return orchestrate(ctx, s, req, "work_search", s.hydrateWorks,
				func(ctx context.Context, pg pageWindow) ([]domwork.Work, error) {
					return s.works.Match(ctx, req.Query(), req.Filters(), pg.limit, pg.offset)
				})
		})
	if err != nil {
		return result.Page[domwork.Work]{}, err
	}
	return page, nil
}

// SearchPersons answers a person search with the same degradation contract.
func (s *Service) SearchPersons(ctx context.Context, req *request.Request) (result.Page[domperson.Person], error) {
	key := cacheKey(req)
	page, _, err := cache.GetOrCompute(ctx, s.cache, key, s.ttl,
		func(ctx context.Context) (result.Page[domperson.Person], error) {
			return orchestrate(ctx, s, req, "person_search", s.hydratePersons,
				func(ctx context.Context, pg pageWindow) ([]domperson.Person, error) {
					return s.persons.Match(ctx, req.Query(), req.Filters(), pg.limit, pg.offset)
				})
		})
	if err != nil {
		return result.Page[domperson.Person]{}, err
	}
	return page, nil
}

type pageWindow struct {
	limit  int
	offset int
}

type hydrateFn[T any] func(ctx context.Context, ids []int64, timings map[string]int64) ([]T, error)

type matchFn[T any] func(ctx context.Context, pg pageWindow) ([]T, error)

// orchestrate runs the INDEX_LOOKUP -> {HYDRATE | FALLBACK_STORE_SEARCH}
// protocol and assembles the result page.
func orchestrate[T any](
	ctx context.Context, s *Service, req *request.Request, queryType string,
	hydrate hydrateFn[T], match matchFn[T],
) (result.Page[T], error) {
	pg := req.Pagination()
	window := pageWindow{limit: pg.Limit, offset: pg.Offset}
	timings := make(map[string]int64)
	totalStart := time.Now()

	idxStart := time.Now()
	idPage, err := s.index.SearchIDs(ctx, req.Kind().String(), req.Query(), req.Filters(), pg.Limit, pg.Offset)
	timings["index_ms"] = time.Since(idxStart).Milliseconds()

	if err != nil {
		s.logger.Warn("index lookup failed, falling back to store search",
			zap.String("kind", req.Kind().String()),
			zap.Error(err),
		)
		return fallback(ctx, s, req, queryType, match, window, timings, totalStart)
	}
	timings["index_reported_ms"] = idPage.QueryTimeMS

	// Zero matches is a valid outcome, not an error. An empty id page past
	// the last result still carries the exact total.
	if len(idPage.IDs) == 0 {
		return assemble(s, req, queryType, []T{}, idPage.Total, result.IndexPlusStore, timings, totalStart), nil
	}

	items, err := hydrate(ctx, idPage.IDs, timings)
	if err != nil {
		// The one retry: a hydration deadline miss reroutes through the
		// fallback path instead of surfacing an error.
		if errors.Is(err, domain.ErrQueryTimeout) {
			s.logger.Warn("hydration timed out, falling back to store search",
				zap.String("kind", req.Kind().String()),
				zap.Error(err),
			)
			return fallback(ctx, s, req, queryType, match, window, timings, totalStart)
		}
		return result.Page[T]{}, fmt.Errorf("hydrate %s results: %w", req.Kind(), err)
	}

	return assemble(s, req, queryType, items, idPage.Total, result.IndexPlusStore, timings, totalStart), nil
}

// fallback performs the bounded substring search against the store. Its
// total is approximate: at least offset + returned rows, possibly more.
// A fallback that itself times out degrades to an empty page, never an error.
func fallback[T any](
	ctx context.Context, s *Service, req *request.Request, queryType string,
	match matchFn[T], window pageWindow, timings map[string]int64, totalStart time.Time,
) (result.Page[T], error) {
	fbStart := time.Now()
	items, err := match(ctx, window)
	timings["fallback_ms"] = time.Since(fbStart).Milliseconds()

	if err != nil {
		if errors.Is(err, domain.ErrQueryTimeout) {
			s.logger.Warn("fallback search timed out, returning degraded empty result",
				zap.String("kind", req.Kind().String()),
			)
			return assemble(s, req, queryType, []T{}, window.offset, result.StoreFallback, timings, totalStart), nil
		}
		return result.Page[T]{}, fmt.Errorf("fallback %s search: %w", req.Kind(), err)
	}

	total := window.offset + len(items)
	return assemble(s, req, queryType, items, total, result.StoreFallback, timings, totalStart), nil
}

func assemble[T any](
	s *Service, req *request.Request, queryType string,
	items []T, total int, engine result.Engine,
	timings map[string]int64, totalStart time.Time,
) result.Page[T] {
	pg := req.Pagination()
	if len(items) > pg.Limit {
		items = items[:pg.Limit]
	}
	timings["total_ms"] = time.Since(totalStart).Milliseconds()
	metrics.SearchTotal.WithLabelValues(req.Kind().String(), string(engine)).Inc()

	return result.Page[T]{
		Items:      items,
		Total:      total,
		Pagination: pg.Meta(total),
		Provenance: result.Provenance{
			Engine:    engine,
			QueryType: queryType,
			Timings:   timings,
		},
	}
}

// hydrateWorks runs the primary record fetch and the secondary publication
// snapshot fetch concurrently, then re-orders rows to exact index rank
// order. A missing snapshot leaves publication fields nil; it never drops
// the record. Snapshot-side timeouts and schema drift degrade the same way.
func (s *Service) hydrateWorks(ctx context.Context, ids []int64, timings map[string]int64) ([]domwork.Work, error) {
	var (
		records         map[int64]domwork.Work
		snaps           map[int64]domwork.Publication
		recErr, snapErr error
		recDur, snapDur time.Duration
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		start := time.Now()
		records, recErr = s.works.ByIDs(ctx, ids)
		recDur = time.Since(start)
	}()
	go func() {
		defer wg.Done()
		start := time.Now()
		snaps, snapErr = s.works.LatestSnapshots(ctx, ids)
		snapDur = time.Since(start)
	}()
	wg.Wait()

	timings["hydrate_ms"] = recDur.Milliseconds()
	timings["snapshot_ms"] = snapDur.Milliseconds()

	if recErr != nil {
		return nil, recErr
	}
	if snapErr != nil {
		if !degradable(snapErr) {
			return nil, snapErr
		}
		s.logger.Warn("work snapshot fetch degraded", zap.Error(snapErr))
		snaps = nil
	}

	items := make([]domwork.Work, 0, len(ids))
	for _, id := range ids {
		rec, ok := records[id]
		if !ok {
			// The index can be stale relative to the store; ids the
			// store no longer has are skipped, not errors.
			continue
		}
		if snap, ok := snaps[id]; ok {
			rec.Publication = &snap
		}
		items = append(items, rec)
	}
	return items, nil
}

// hydratePersons mirrors hydrateWorks with the affiliation snapshot.
func (s *Service) hydratePersons(ctx context.Context, ids []int64, timings map[string]int64) ([]domperson.Person, error) {
	var (
		records        map[int64]domperson.Person
		affs           map[int64]domperson.Affiliation
		recErr, affErr error
		recDur, affDur time.Duration
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		start := time.Now()
		records, recErr = s.persons.ByIDs(ctx, ids)
		recDur = time.Since(start)
	}()
	go func() {
		defer wg.Done()
		start := time.Now()
		affs, affErr = s.persons.Affiliations(ctx, ids)
		affDur = time.Since(start)
	}()
	wg.Wait()

	timings["hydrate_ms"] = recDur.Milliseconds()
	timings["snapshot_ms"] = affDur.Milliseconds()

	if recErr != nil {
		return nil, recErr
	}
	if affErr != nil {
		if !degradable(affErr) {
			return nil, affErr
		}
		s.logger.Warn("person affiliation fetch degraded", zap.Error(affErr))
		affs = nil
	}

	items := make([]domperson.Person, 0, len(ids))
	for _, id := range ids {
		rec, ok := records[id]
		if !ok {
			continue
		}
		if aff, ok := affs[id]; ok {
			rec.Affiliation = &aff
		}
		items = append(items, rec)
	}
	return items, nil
}

// degradable reports whether a secondary-query failure may be absorbed as
// nil snapshot fields instead of failing the whole search.
func degradable(err error) bool {
	return errors.Is(err, domain.ErrQueryTimeout) || errors.Is(err, domain.ErrSchemaDrift)
}

func cacheKey(req *request.Request) string {
	pg := req.Pagination()
	return cache.Key("search_"+req.Kind().String(), req.Query(), req.Filters(), pg.Page, pg.Limit)
}
