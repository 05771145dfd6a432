package search

import (
	"context"

	domperson "github.com/bzuer/ethnos-api/internal/domain/person"
	domwork "github.com/bzuer/ethnos-api/internal/domain/work"
	"github.com/bzuer/ethnos-api/internal/index"
)

// Index is the "search for ids" contract of the external full-text index.
// It must fail distinguishably between "no matches" (empty page, nil error)
// and "unavailable" (error wrapping domain.ErrIndexUnavailable).
type Index interface {
	SearchIDs(
		ctx context.Context, entityKind, query string,
		filters map[string]string, limit, offset int,
	) (index.IDPage, error)
}

// WorkSource hydrates work records and serves the fallback substring search.
type WorkSource interface {
	ByIDs(ctx context.Context, ids []int64) (map[int64]domwork.Work, error)
	LatestSnapshots(ctx context.Context, ids []int64) (map[int64]domwork.Publication, error)
	Match(ctx context.Context, query string, filters map[string]string, limit, offset int) ([]domwork.Work, error)
}

// PersonSource hydrates person records and serves the fallback substring search.
type PersonSource interface {
	ByIDs(ctx context.Context, ids []int64) (map[int64]domperson.Person, error)
	Affiliations(ctx context.Context, ids []int64) (map[int64]domperson.Affiliation, error)
	Match(ctx context.Context, query string, filters map[string]string, limit, offset int) ([]domperson.Person, error)
}
