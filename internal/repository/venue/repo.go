// Package venue composes the relational queries behind venue enrichment.
// Optional dimensions reference columns and tables that not every
// deployment carries; their descriptors either define a guaranteed-columns
// fallback or let the aggregator degrade the dimension to empty.
package venue

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/bzuer/ethnos-api/internal/db"
	"github.com/bzuer/ethnos-api/internal/domain/pagination"
	domvenue "github.com/bzuer/ethnos-api/internal/domain/venue"
)

// executor is the consumer interface for the deadline-bounded executor.
type executor interface {
	Execute(ctx context.Context, q db.Query) ([]db.Row, error)
}

// Repo builds and shapes venue queries.
type Repo struct {
	exec executor
}

// New creates a venue repository.
func New(exec executor) *Repo {
	return &Repo{exec: exec}
}

const venueBaseColumns = "id, name, type, issn, eissn, publisher, works_count"

// Base fetches venue records. The primary variant selects the optional
// metric columns; the fallback covers only guaranteed-present columns so a
// deployment without metrics still serves core fields.
func (r *Repo) Base(ctx context.Context, ids []int64) (map[int64]domvenue.Venue, error) {
	if len(ids) == 0 {
		return map[int64]domvenue.Venue{}, nil
	}

	rows, err := r.exec.Execute(ctx, db.Query{
		Name: "venues_base",
		SQL: `SELECT ` + venueBaseColumns + `, impact_factor, h_index
		        FROM venues
		       WHERE id = ANY($1)`,
		Args: []any{pq.Array(ids)},
		Fallback: &db.Query{
			Name: "venues_base_plain",
			SQL: `SELECT ` + venueBaseColumns + `
			        FROM venues
			       WHERE id = ANY($1)`,
			Args: []any{pq.Array(ids)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch venues: %w", err)
	}

	out := make(map[int64]domvenue.Venue, len(rows))
	for _, row := range rows {
		v := domvenue.Venue{
			ID:         row.Int64("id"),
			Name:       row.String("name"),
			Type:       row.String("type"),
			ISSN:       row.String("issn"),
			EISSN:      row.String("eissn"),
			Publisher:  row.String("publisher"),
			WorksCount: row.Int("works_count"),
		}
		if row.Has("impact_factor") {
			f := row.Float64("impact_factor")
			v.ImpactFactor = &f
		}
		if row.Has("h_index") {
			h := row.Int("h_index")
			v.HIndex = &h
		}
		out[v.ID] = v
	}
	return out, nil
}

// Subjects fetches thematic classifications per venue. The join table is
// optional; no fallback variant exists, so drift degrades the dimension.
func (r *Repo) Subjects(ctx context.Context, ids []int64) (map[int64][]domvenue.Subject, error) {
	rows, err := r.exec.Execute(ctx, db.Query{
		Name: "venue_subjects",
		SQL: `SELECT vs.venue_id, s.id, s.name, vs.works_count
		        FROM venue_subjects vs
		        JOIN subjects s ON s.id = vs.subject_id
		       WHERE vs.venue_id = ANY($1)`,
		Args: []any{pq.Array(ids)},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch venue subjects: %w", err)
	}

	out := make(map[int64][]domvenue.Subject)
	for _, row := range rows {
		vid := row.Int64("venue_id")
		out[vid] = append(out[vid], domvenue.Subject{
			ID:    row.Int64("id"),
			Name:  row.String("name"),
			Count: row.Int("works_count"),
		})
	}
	return out, nil
}

// Yearly aggregates publication activity per venue and year. This scans the
// publications table, so it runs under the aggregate deadline.
func (r *Repo) Yearly(ctx context.Context, ids []int64) (map[int64][]domvenue.YearStat, error) {
	rows, err := r.exec.Execute(ctx, db.Query{
		Name: "venue_yearly_stats",
		SQL: `SELECT venue_id, year, COUNT(*) AS works_count
		        FROM publications
		       WHERE venue_id = ANY($1) AND year IS NOT NULL
		       GROUP BY venue_id, year`,
		Args:      []any{pq.Array(ids)},
		Aggregate: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch venue yearly stats: %w", err)
	}

	out := make(map[int64][]domvenue.YearStat)
	for _, row := range rows {
		vid := row.Int64("venue_id")
		out[vid] = append(out[vid], domvenue.YearStat{
			Year:       row.Int("year"),
			WorksCount: row.Int("works_count"),
		})
	}
	return out, nil
}

// TopAuthors aggregates frequent contributors per venue. Ordering and
// truncation happen in the aggregator, not in SQL.
func (r *Repo) TopAuthors(ctx context.Context, ids []int64) (map[int64][]domvenue.TopAuthor, error) {
	rows, err := r.exec.Execute(ctx, db.Query{
		Name: "venue_top_authors",
		SQL: `SELECT pub.venue_id, per.id AS person_id, per.name,
		             COUNT(*) AS works_count, MIN(a.position) AS position
		        FROM publications pub
		        JOIN authorships a ON a.work_id = pub.work_id
		        JOIN persons per ON per.id = a.person_id
		       WHERE pub.venue_id = ANY($1)
		       GROUP BY pub.venue_id, per.id, per.name`,
		Args:      []any{pq.Array(ids)},
		Aggregate: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch venue top authors: %w", err)
	}

	out := make(map[int64][]domvenue.TopAuthor)
	for _, row := range rows {
		vid := row.Int64("venue_id")
		out[vid] = append(out[vid], domvenue.TopAuthor{
			PersonID:   row.Int64("person_id"),
			Name:       row.String("name"),
			WorksCount: row.Int("works_count"),
			Position:   row.Int("position"),
		})
	}
	return out, nil
}

// UniqueAuthorCounts counts distinct contributors per venue.
func (r *Repo) UniqueAuthorCounts(ctx context.Context, ids []int64) (map[int64]int, error) {
	rows, err := r.exec.Execute(ctx, db.Query{
		Name: "venue_unique_authors",
		SQL: `SELECT pub.venue_id, COUNT(DISTINCT a.person_id) AS unique_authors
		        FROM publications pub
		        JOIN authorships a ON a.work_id = pub.work_id
		       WHERE pub.venue_id = ANY($1)
		       GROUP BY pub.venue_id`,
		Args:      []any{pq.Array(ids)},
		Aggregate: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch venue unique authors: %w", err)
	}

	out := make(map[int64]int, len(rows))
	for _, row := range rows {
		out[row.Int64("venue_id")] = row.Int("unique_authors")
	}
	return out, nil
}

// List returns one page of venue ids matching the filters plus the exact
// total. Venues are few enough that a full count stays cheap.
func (r *Repo) List(
	ctx context.Context, filters domvenue.ListFilters, pg pagination.Pagination,
) ([]int64, int, error) {
	where := []string{"TRUE"}
	var args []any

	if filters.Type != "" {
		args = append(args, filters.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filters.MinWorks > 0 {
		args = append(args, filters.MinWorks)
		where = append(where, fmt.Sprintf("works_count >= $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	countRows, err := r.exec.Execute(ctx, db.Query{
		Name: "venues_list_count",
		SQL:  `SELECT COUNT(*) AS total FROM venues WHERE ` + cond,
		Args: args,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("count venues: %w", err)
	}
	total := 0
	if len(countRows) > 0 {
		total = countRows[0].Int("total")
	}

	pageArgs := append(append([]any{}, args...), pg.Limit, pg.Offset)
	rows, err := r.exec.Execute(ctx, db.Query{
		Name: "venues_list_page",
		SQL: fmt.Sprintf(
			`SELECT id FROM venues WHERE %s ORDER BY works_count DESC, id DESC LIMIT $%d OFFSET $%d`,
			cond, len(pageArgs)-1, len(pageArgs),
		),
		Args: pageArgs,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list venues: %w", err)
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.Int64("id"))
	}
	return ids, total, nil
}
