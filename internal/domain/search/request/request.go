// Package request holds the validated search request value object.
package request

import (
	"fmt"
	"strings"

	"github.com/bzuer/ethnos-api/internal/domain"
	"github.com/bzuer/ethnos-api/internal/domain/pagination"
	"github.com/bzuer/ethnos-api/internal/domain/search/kind"
)

// MaxQueryLength is the maximum allowed search query length.
const MaxQueryLength = 512

// Request is a validated search query.
type Request struct {
	query   string
	kind    kind.Kind
	filters map[string]string
	pg      pagination.Pagination
}

// New validates and normalizes search parameters. The query is required and
// trimmed; filters may be nil. Pagination is assumed already normalized.
func New(query string, k kind.Kind, filters map[string]string, pg pagination.Pagination) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrValidation, MaxQueryLength)
	}
	if !k.IsValid() {
		return Request{}, fmt.Errorf("%w: unknown entity kind %q", domain.ErrValidation, k)
	}
	return Request{query: query, kind: k, filters: filters, pg: pg}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Kind returns the entity kind being searched.
func (r *Request) Kind() kind.Kind { return r.kind }

// Filters returns the structured filter map (may be nil).
func (r *Request) Filters() map[string]string { return r.filters }

// Pagination returns the normalized paging window.
func (r *Request) Pagination() pagination.Pagination { return r.pg }
