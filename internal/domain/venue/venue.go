// Package venue holds the publication venue record and its enriched
// composite view.
package venue

import "github.com/bzuer/ethnos-api/internal/domain/pagination"

// MaxTopAuthors caps the top-author list attached to an enriched venue.
const MaxTopAuthors = 10

// Venue is the base venue record, built from guaranteed-present columns.
// Metric fields come from optional columns and stay nil on deployments
// whose schema does not carry them.
type Venue struct {
	ID         int64  `json:"id" msgpack:"id"`
	Name       string `json:"name" msgpack:"name"`
	Type       string `json:"type" msgpack:"type"`
	ISSN       string `json:"issn,omitempty" msgpack:"issn"`
	EISSN      string `json:"eissn,omitempty" msgpack:"eissn"`
	Publisher  string `json:"publisher,omitempty" msgpack:"publisher"`
	WorksCount int    `json:"works_count" msgpack:"works_count"`

	ImpactFactor *float64 `json:"impact_factor,omitempty" msgpack:"impact_factor"`
	HIndex       *int     `json:"h_index,omitempty" msgpack:"h_index"`
}

// Subject is a thematic classification attached to a venue.
type Subject struct {
	ID    int64  `json:"id" msgpack:"id"`
	Name  string `json:"name" msgpack:"name"`
	Count int    `json:"works_count" msgpack:"works_count"`
}

// YearStat is one year of publication activity for a venue.
type YearStat struct {
	Year       int `json:"year" msgpack:"year"`
	WorksCount int `json:"works_count" msgpack:"works_count"`
}

// TopAuthor is a frequent contributor to a venue.
type TopAuthor struct {
	PersonID   int64  `json:"person_id" msgpack:"person_id"`
	Name       string `json:"name" msgpack:"name"`
	WorksCount int    `json:"works_count" msgpack:"works_count"`
	Position   int    `json:"position" msgpack:"position"`
}

// Enriched is the composite venue view. Each optional sub-collection is
// independently empty when its source was unavailable; Warnings records why.
type Enriched struct {
	Venue

	Subjects      []Subject   `json:"subjects" msgpack:"subjects"`
	Yearly        []YearStat  `json:"yearly" msgpack:"yearly"`
	TopAuthors    []TopAuthor `json:"top_authors" msgpack:"top_authors"`
	UniqueAuthors *int        `json:"unique_authors,omitempty" msgpack:"unique_authors"`

	Warnings []string `json:"warnings,omitempty" msgpack:"warnings"`
}

// Options selects which optional enrichment dimensions to compute.
type Options struct {
	IncludeSubjects      bool
	IncludeYearly        bool
	IncludeTopAuthors    bool
	IncludeUniqueAuthors bool
}

// Page is one page of enriched venues.
type Page struct {
	Items      []Enriched      `json:"items" msgpack:"items"`
	Pagination pagination.Meta `json:"pagination" msgpack:"pagination"`
	Warnings   []string        `json:"warnings,omitempty" msgpack:"warnings"`
}

// ListFilters narrows a venue listing.
type ListFilters struct {
	Type     string `json:"type,omitempty" msgpack:"type"`
	MinWorks int    `json:"min_works,omitempty" msgpack:"min_works"`
}
