// Package enrich implements the schema-tolerant enrichment aggregator. It
// assembles composite venue views from several relational queries, degrading
// a dimension to empty with a recorded warning when this deployment's schema
// lacks the optional elements that dimension needs.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bzuer/ethnos-api/internal/cache"
	"github.com/bzuer/ethnos-api/internal/domain"
	"github.com/bzuer/ethnos-api/internal/domain/pagination"
	domvenue "github.com/bzuer/ethnos-api/internal/domain/venue"
)

// DefaultCacheTTL keeps enriched venues warm for two hours; venue metadata
// changes far slower than search results.
const DefaultCacheTTL = 2 * time.Hour

// Service aggregates venue enrichment queries.
type Service struct {
	venues VenueSource
	logger *zap.Logger

	cache *cache.Cache
	ttl   time.Duration
}

// New creates an enrichment service. The cache is off until WithCache.
func New(venues VenueSource, logger *zap.Logger) *Service {
	return &Service{venues: venues, logger: logger, ttl: DefaultCacheTTL}
}

// WithCache attaches a cache-aside wrapper around enrichment results.
func (s *Service) WithCache(c *cache.Cache, ttl time.Duration) *Service {
	s.cache = c
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

// GetVenue returns one enriched venue, or domain.ErrNotFound.
func (s *Service) GetVenue(ctx context.Context, id int64, opts domvenue.Options) (domvenue.Enriched, error) {
	key := cache.Key("venue_enriched", id, optsKey(opts))
	enriched, _, err := cache.GetOrCompute(ctx, s.cache, key, s.ttl,
		func(ctx context.Context) (domvenue.Enriched, error) {
			byID, warnings, err := s.enrich(ctx, []int64{id}, opts)
			if err != nil {
				return domvenue.Enriched{}, err
			}
			e, ok := byID[id]
			if !ok {
				return domvenue.Enriched{}, fmt.Errorf("venue %d: %w", id, domain.ErrNotFound)
			}
			e.Warnings = warnings
			return e, nil
		})
	if err != nil {
		return domvenue.Enriched{}, err
	}
	return enriched, nil
}

// ListVenues returns one page of enriched venues. Page order follows the
// listing query (works count descending). Heavy per-venue dimensions stay
// detail-view only; listings carry base fields, metrics and subjects.
func (s *Service) ListVenues(
	ctx context.Context, filters domvenue.ListFilters, pg pagination.Pagination,
) (domvenue.Page, error) {
	key := cache.Key("venues_list", filters.Type, filters.MinWorks, pg.Page, pg.Limit)
	page, _, err := cache.GetOrCompute(ctx, s.cache, key, s.ttl,
		func(ctx context.Context) (domvenue.Page, error) {
			ids, total, err := s.venues.List(ctx, filters, pg)
			if err != nil {
				return domvenue.Page{}, fmt.Errorf("list venues: %w", err)
			}

			byID, warnings, err := s.enrich(ctx, ids, domvenue.Options{IncludeSubjects: true})
			if err != nil {
				return domvenue.Page{}, err
			}

			items := make([]domvenue.Enriched, 0, len(ids))
			for _, id := range ids {
				if e, ok := byID[id]; ok {
					items = append(items, e)
				}
			}
			return domvenue.Page{
				Items:      items,
				Pagination: pg.Meta(total),
				Warnings:   warnings,
			}, nil
		})
	if err != nil {
		return domvenue.Page{}, err
	}
	return page, nil
}

// enrich fans out the base query and the option-gated queries concurrently
// and merges by venue id after all have settled. Per-query isolation is the
// point: one missing optional table must not keep core fields from being
// served. Only store-level failures abort the whole aggregation.
func (s *Service) enrich(
	ctx context.Context, ids []int64, opts domvenue.Options,
) (map[int64]domvenue.Enriched, []string, error) {
	var (
		base    map[int64]domvenue.Venue
		baseErr error

		subjects map[int64][]domvenue.Subject
		subjErr  error

		yearly  map[int64][]domvenue.YearStat
		yearErr error

		topAuthors map[int64][]domvenue.TopAuthor
		topErr     error

		uniqueAuthors map[int64]int
		uniqErr       error
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		base, baseErr = s.venues.Base(ctx, ids)
	}()
	if opts.IncludeSubjects {
		wg.Add(1)
		go func() {
			defer wg.Done()
			subjects, subjErr = s.venues.Subjects(ctx, ids)
		}()
	}
	if opts.IncludeYearly {
		wg.Add(1)
		go func() {
			defer wg.Done()
			yearly, yearErr = s.venues.Yearly(ctx, ids)
		}()
	}
	if opts.IncludeTopAuthors {
		wg.Add(1)
		go func() {
			defer wg.Done()
			topAuthors, topErr = s.venues.TopAuthors(ctx, ids)
		}()
	}
	if opts.IncludeUniqueAuthors {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uniqueAuthors, uniqErr = s.venues.UniqueAuthorCounts(ctx, ids)
		}()
	}
	wg.Wait()

	if baseErr != nil {
		return nil, nil, fmt.Errorf("venue base query: %w", baseErr)
	}

	var warnings []string
	absorb := func(dim string, err error) error {
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrSchemaDrift) || errors.Is(err, domain.ErrQueryTimeout) {
			s.logger.Warn("enrichment dimension degraded",
				zap.String("dimension", dim),
				zap.Error(err),
			)
			warnings = append(warnings, fmt.Sprintf("%s unavailable: %v", dim, err))
			return nil
		}
		return err
	}
	if err := absorb("subjects", subjErr); err != nil {
		return nil, nil, fmt.Errorf("venue subjects query: %w", err)
	}
	if err := absorb("yearly", yearErr); err != nil {
		return nil, nil, fmt.Errorf("venue yearly query: %w", err)
	}
	if err := absorb("top_authors", topErr); err != nil {
		return nil, nil, fmt.Errorf("venue top authors query: %w", err)
	}
	if err := absorb("unique_authors", uniqErr); err != nil {
		return nil, nil, fmt.Errorf("venue unique authors query: %w", err)
	}

	out := make(map[int64]domvenue.Enriched, len(base))
	for id, v := range base {
		e := domvenue.Enriched{
			Venue:      v,
			Subjects:   sortSubjects(subjects[id]),
			Yearly:     sortYearly(yearly[id]),
			TopAuthors: rankTopAuthors(topAuthors[id]),
		}
		if opts.IncludeUniqueAuthors {
			if n, ok := uniqueAuthors[id]; ok {
				count := n
				e.UniqueAuthors = &count
			}
		}
		out[id] = e
	}
	return out, warnings, nil
}

// ensureEmpty turns a nil optional slice into an empty one so degraded
// dimensions serialize as [] rather than disappearing.
func ensureEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func sortSubjects(subjects []domvenue.Subject) []domvenue.Subject {
	subjects = ensureEmpty(subjects)
	sort.Slice(subjects, func(i, j int) bool {
		if subjects[i].Count != subjects[j].Count {
			return subjects[i].Count > subjects[j].Count
		}
		return subjects[i].Name < subjects[j].Name
	})
	return subjects
}

func sortYearly(stats []domvenue.YearStat) []domvenue.YearStat {
	stats = ensureEmpty(stats)
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Year < stats[j].Year
	})
	return stats
}

// rankTopAuthors orders by work count descending, then position ascending,
// then name ascending, truncated to the documented maximum.
func rankTopAuthors(authors []domvenue.TopAuthor) []domvenue.TopAuthor {
	authors = ensureEmpty(authors)
	sort.Slice(authors, func(i, j int) bool {
		a, b := authors[i], authors[j]
		if a.WorksCount != b.WorksCount {
			return a.WorksCount > b.WorksCount
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.Name < b.Name
	})
	if len(authors) > domvenue.MaxTopAuthors {
		authors = authors[:domvenue.MaxTopAuthors]
	}
	return authors
}

func optsKey(opts domvenue.Options) string {
	return fmt.Sprintf("s=%t,y=%t,t=%t,u=%t",
		opts.IncludeSubjects, opts.IncludeYearly,
		opts.IncludeTopAuthors, opts.IncludeUniqueAuthors,
	)
}
