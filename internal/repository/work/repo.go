// Package work composes the relational queries behind work search hydration.
package work

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/bzuer/ethnos-api/internal/db"
	domwork "github.com/bzuer/ethnos-api/internal/domain/work"
)

// executor is the consumer interface for the deadline-bounded executor.
type executor interface {
	Execute(ctx context.Context, q db.Query) ([]db.Row, error)
}

// Repo builds and shapes work queries.
type Repo struct {
	exec executor
}

// New creates a work repository.
func New(exec executor) *Repo {
	return &Repo{exec: exec}
}

// ByIDs fetches full work records for an identifier set. Rows come back in
// arbitrary order; the orchestrator re-orders them to index rank order.
func (r *Repo) ByIDs(ctx context.Context, ids []int64) (map[int64]domwork.Work, error) {
	if len(ids) == 0 {
		return map[int64]domwork.Work{}, nil
	}

	rows, err := r.exec.Execute(ctx, db.Query{
		Name: "works_by_ids",
		SQL: `SELECT id, title, subtitle, type, language, doi, author_string
		        FROM works
		       WHERE id = ANY($1)`,
		Args: []any{pq.Array(ids)},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch works: %w", err)
	}

	out := make(map[int64]domwork.Work, len(rows))
	for _, row := range rows {
		w := workFromRow(row)
		out[w.ID] = w
	}
	return out, nil
}

// LatestSnapshots fetches the most recent publication snapshot per work.
// Works without a snapshot row are simply absent from the result.
func (r *Repo) LatestSnapshots(ctx context.Context, ids []int64) (map[int64]domwork.Publication, error) {
	if len(ids) == 0 {
		return map[int64]domwork.Publication{}, nil
	}

	rows, err := r.exec.Execute(ctx, db.Query{
		Name: "work_latest_snapshots",
		SQL: `SELECT DISTINCT ON (p.work_id)
		             p.work_id, p.venue_id, v.name AS venue_name,
		             p.year, p.volume, p.issue, p.pages, p.peer_reviewed
		        FROM publications p
		        JOIN venues v ON v.id = p.venue_id
		       WHERE p.work_id = ANY($1)
		       ORDER BY p.work_id, p.year DESC, p.id DESC`,
		Args: []any{pq.Array(ids)},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch work snapshots: %w", err)
	}

	out := make(map[int64]domwork.Publication, len(rows))
	for _, row := range rows {
		out[row.Int64("work_id")] = domwork.Publication{
			VenueID:   row.Int64("venue_id"),
			VenueName: row.String("venue_name"),
			Year:      row.Int("year"),
			Volume:    row.String("volume"),
			Issue:     row.String("issue"),
			Pages:     row.String("pages"),
			PeerRev:   row.Bool("peer_reviewed"),
		}
	}
	return out, nil
}

// Match is the fallback substring search used when the index is down.
// It orders by identifier descending as a stable recency tiebreaker and
// never counts the full match set.
func (r *Repo) Match(
	ctx context.Context, query string, filters map[string]string, limit, offset int,
) ([]domwork.Work, error) {
	where := []string{"title ILIKE '%' || $1 || '%'"}
	args := []any{db.EscapeLike(query)}

	if t := filters["type"]; t != "" {
		args = append(args, t)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if lang := filters["language"]; lang != "" {
		args = append(args, lang)
		where = append(where, fmt.Sprintf("language = $%d", len(args)))
	}

	args = append(args, limit, offset)
	sql := fmt.Sprintf(
		`SELECT id, title, subtitle, type, language, doi, author_string
		   FROM works
		  WHERE %s
		  ORDER BY id DESC
		  LIMIT $%d OFFSET $%d`,
		strings.Join(where, " AND "), len(args)-1, len(args),
	)

	rows, err := r.exec.Execute(ctx, db.Query{
		Name: "works_fallback_match",
		SQL:  sql,
		Args: args,
	})
	if err != nil {
		return nil, fmt.Errorf("fallback work search: %w", err)
	}

	out := make([]domwork.Work, 0, len(rows))
	for _, row := range rows {
		out = append(out, workFromRow(row))
	}
	return out, nil
}

func workFromRow(row db.Row) domwork.Work {
	return domwork.Work{
		ID:       row.Int64("id"),
		Title:    row.String("title"),
		Subtitle: row.String("subtitle"),
		Type:     row.String("type"),
		Language: row.String("language"),
		DOI:      row.String("doi"),
		Authors:  splitAuthors(row.String("author_string")),
	}
}

// splitAuthors unpacks the denormalized semicolon-joined author list.
func splitAuthors(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
