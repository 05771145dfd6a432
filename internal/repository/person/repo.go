// Package person composes the relational queries behind person search
// hydration.
package person

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/bzuer/ethnos-api/internal/db"
	domperson "github.com/bzuer/ethnos-api/internal/domain/person"
)

// executor is the consumer interface for the deadline-bounded executor.
type executor interface {
	Execute(ctx context.Context, q db.Query) ([]db.Row, error)
}

// Repo builds and shapes person queries.
type Repo struct {
	exec executor
}

// New creates a person repository.
func New(exec executor) *Repo {
	return &Repo{exec: exec}
}

// ByIDs fetches full person records for an identifier set in arbitrary order.
func (r *Repo) ByIDs(ctx context.Context, ids []int64) (map[int64]domperson.Person, error) {
	if len(ids) == 0 {
		return map[int64]domperson.Person{}, nil
	}

	rows, err := r.exec.Execute(ctx, db.Query{
		Name: "persons_by_ids",
		SQL: `SELECT id, name, given_names, family_name, orcid, works_count, is_verified
		        FROM persons
		       WHERE id = ANY($1)`,
		Args: []any{pq.Array(ids)},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch persons: %w", err)
	}

	out := make(map[int64]domperson.Person, len(rows))
	for _, row := range rows {
		p := personFromRow(row)
		out[p.ID] = p
	}
	return out, nil
}

// Affiliations fetches the current affiliation snapshot per person.
// Persons without one are absent from the result.
func (r *Repo) Affiliations(ctx context.Context, ids []int64) (map[int64]domperson.Affiliation, error) {
	if len(ids) == 0 {
		return map[int64]domperson.Affiliation{}, nil
	}

	rows, err := r.exec.Execute(ctx, db.Query{
		Name: "person_affiliations",
		SQL: `SELECT DISTINCT ON (pa.person_id)
		             pa.person_id, pa.org_id, o.name AS org_name, o.country
		        FROM person_affiliations pa
		        JOIN organizations o ON o.id = pa.org_id
		       WHERE pa.person_id = ANY($1)
		       ORDER BY pa.person_id, pa.start_year DESC NULLS LAST`,
		Args: []any{pq.Array(ids)},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch affiliations: %w", err)
	}

	out := make(map[int64]domperson.Affiliation, len(rows))
	for _, row := range rows {
		out[row.Int64("person_id")] = domperson.Affiliation{
			OrgID:   row.Int64("org_id"),
			OrgName: row.String("org_name"),
			Country: row.String("country"),
		}
	}
	return out, nil
}

// Match is the fallback substring search over person names.
func (r *Repo) Match(
	ctx context.Context, query string, filters map[string]string, limit, offset int,
) ([]domperson.Person, error) {
	where := []string{"name ILIKE '%' || $1 || '%'"}
	args := []any{db.EscapeLike(query)}

	if v := filters["verified"]; v == "true" {
		where = append(where, "is_verified")
	}

	args = append(args, limit, offset)
	sql := fmt.Sprintf(
		`SELECT id, name, given_names, family_name, orcid, works_count, is_verified
		   FROM persons
		  WHERE %s
		  ORDER BY id DESC
		  LIMIT $%d OFFSET $%d`,
		strings.Join(where, " AND "), len(args)-1, len(args),
	)

	rows, err := r.exec.Execute(ctx, db.Query{
		Name: "persons_fallback_match",
		SQL:  sql,
		Args: args,
	})
	if err != nil {
		return nil, fmt.Errorf("fallback person search: %w", err)
	}

	out := make([]domperson.Person, 0, len(rows))
	for _, row := range rows {
		out = append(out, personFromRow(row))
	}
	return out, nil
}

func personFromRow(row db.Row) domperson.Person {
	return domperson.Person{
		ID:         row.Int64("id"),
		Name:       row.String("name"),
		GivenNames: row.String("given_names"),
		FamilyName: row.String("family_name"),
		ORCID:      row.String("orcid"),
		WorksCount: row.Int("works_count"),
		IsVerified: row.Bool("is_verified"),
	}
}
