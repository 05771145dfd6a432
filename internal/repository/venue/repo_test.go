package venue

import (
	"context"
	"strings"
	"testing"

	"github.com/bzuer/ethnos-api/internal/db"
	"github.com/bzuer/ethnos-api/internal/domain/pagination"
	domvenue "github.com/bzuer/ethnos-api/internal/domain/venue"
)

func TestBase_MetricColumnsOptional(t *testing.T) {
	exec := newMockExecutor()
	exec.rows["venues_base"] = []db.Row{
		{
			"id": int64(1), "name": "Nature", "type": "journal",
			"issn": "0028-0836", "works_count": int64(100),
			"impact_factor": 49.9, "h_index": int64(1200),
		},
		{
			// A fallback-shaped row without the metric columns.
			"id": int64(2), "name": "Obscure Review", "type": "journal",
			"works_count": int64(3),
		},
	}
	repo := New(exec)

	out, err := repo.Base(context.Background(), []int64{1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rich := out[1]
	if rich.ImpactFactor == nil || *rich.ImpactFactor != 49.9 {
		t.Errorf("expected impact factor set, got %v", rich.ImpactFactor)
	}
	if rich.HIndex == nil || *rich.HIndex != 1200 {
		t.Errorf("expected h-index set, got %v", rich.HIndex)
	}

	plain := out[2]
	if plain.ImpactFactor != nil || plain.HIndex != nil {
		t.Errorf("expected nil metrics for plain row, got %+v", plain)
	}
}

func TestBase_DeclaresFallbackVariant(t *testing.T) {
	exec := newMockExecutor()
	exec.rows["venues_base"] = []db.Row{}
	repo := New(exec)

	if _, err := repo.Base(context.Background(), []int64{1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q, ok := exec.byName("venues_base")
	if !ok {
		t.Fatal("expected venues_base query")
	}
	if q.Fallback == nil {
		t.Fatal("base query must carry a guaranteed-columns fallback")
	}
	if strings.Contains(q.Fallback.SQL, "impact_factor") {
		t.Errorf("fallback must avoid optional columns, got %s", q.Fallback.SQL)
	}
}

func TestBase_EmptyIDsShortCircuits(t *testing.T) {
	exec := newMockExecutor()
	repo := New(exec)

	out, err := repo.Base(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 || len(exec.queries) != 0 {
		t.Errorf("expected no store round trip, got %v / %d queries", out, len(exec.queries))
	}
}

func TestSubjects_GroupedByVenue(t *testing.T) {
	exec := newMockExecutor()
	exec.rows["venue_subjects"] = []db.Row{
		{"venue_id": int64(1), "id": int64(10), "name": "Biology", "works_count": int64(40)},
		{"venue_id": int64(1), "id": int64(11), "name": "Physics", "works_count": int64(60)},
		{"venue_id": int64(2), "id": int64(10), "name": "Biology", "works_count": int64(5)},
	}
	repo := New(exec)

	out, err := repo.Subjects(context.Background(), []int64{1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out[1]) != 2 || len(out[2]) != 1 {
		t.Errorf("unexpected grouping: %v", out)
	}
}

func TestAggregates_RunUnderAggregateDeadline(t *testing.T) {
	exec := newMockExecutor()
	exec.rows["venue_yearly_stats"] = []db.Row{}
	exec.rows["venue_top_authors"] = []db.Row{}
	exec.rows["venue_unique_authors"] = []db.Row{}
	repo := New(exec)

	ctx := context.Background()
	if _, err := repo.Yearly(ctx, []int64{1}); err != nil {
		t.Fatalf("Yearly: %v", err)
	}
	if _, err := repo.TopAuthors(ctx, []int64{1}); err != nil {
		t.Fatalf("TopAuthors: %v", err)
	}
	if _, err := repo.UniqueAuthorCounts(ctx, []int64{1}); err != nil {
		t.Fatalf("UniqueAuthorCounts: %v", err)
	}

	for _, q := range exec.queries {
		if !q.Aggregate {
			t.Errorf("query %s must be marked aggregate", q.Name)
		}
	}
}

func TestUniqueAuthorCounts_KeyedByVenue(t *testing.T) {
	exec := newMockExecutor()
	exec.rows["venue_unique_authors"] = []db.Row{
		{"venue_id": int64(1), "unique_authors": int64(340)},
	}
	repo := New(exec)

	out, err := repo.UniqueAuthorCounts(context.Background(), []int64{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[1] != 340 {
		t.Errorf("expected 340 unique authors, got %d", out[1])
	}
}

func TestList_CountAndPage(t *testing.T) {
	exec := newMockExecutor()
	exec.rows["venues_list_count"] = []db.Row{{"total": int64(12)}}
	exec.rows["venues_list_page"] = []db.Row{
		{"id": int64(3)},
		{"id": int64(1)},
	}
	repo := New(exec)

	ids, total, err := repo.List(context.Background(),
		domvenue.ListFilters{Type: "journal", MinWorks: 10},
		pagination.FromValues(1, 10, 0),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 12 {
		t.Errorf("expected total=12, got %d", total)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 1 {
		t.Errorf("expected page order [3 1], got %v", ids)
	}

	page, ok := exec.byName("venues_list_page")
	if !ok {
		t.Fatal("expected venues_list_page query")
	}
	if !strings.Contains(page.SQL, "ORDER BY works_count DESC, id DESC") {
		t.Errorf("expected deterministic listing order, got %s", page.SQL)
	}
	if !strings.Contains(page.SQL, "type = $1") || !strings.Contains(page.SQL, "works_count >= $2") {
		t.Errorf("expected filter conditions, got %s", page.SQL)
	}
}

func TestList_NoFilters(t *testing.T) {
	exec := newMockExecutor()
	exec.rows["venues_list_count"] = []db.Row{{"total": int64(0)}}
	exec.rows["venues_list_page"] = []db.Row{}
	repo := New(exec)

	ids, total, err := repo.List(context.Background(), domvenue.ListFilters{}, pagination.FromValues(1, 10, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 || len(ids) != 0 {
		t.Errorf("expected empty listing, got ids=%v total=%d", ids, total)
	}
}
