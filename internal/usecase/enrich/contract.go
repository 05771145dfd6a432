package enrich

import (
	"context"

	"github.com/bzuer/ethnos-api/internal/domain/pagination"
	domvenue "github.com/bzuer/ethnos-api/internal/domain/venue"
)

// VenueSource serves the base record and every optional enrichment
// dimension for a set of venue ids.
type VenueSource interface {
	Base(ctx context.Context, ids []int64) (map[int64]domvenue.Venue, error)
	Subjects(ctx context.Context, ids []int64) (map[int64][]domvenue.Subject, error)
	Yearly(ctx context.Context, ids []int64) (map[int64][]domvenue.YearStat, error)
	TopAuthors(ctx context.Context, ids []int64) (map[int64][]domvenue.TopAuthor, error)
	UniqueAuthorCounts(ctx context.Context, ids []int64) (map[int64]int, error)
	List(ctx context.Context, filters domvenue.ListFilters, pg pagination.Pagination) ([]int64, int, error)
}
