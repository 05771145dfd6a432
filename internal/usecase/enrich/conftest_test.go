package enrich

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/bzuer/ethnos-api/internal/domain/pagination"
	domvenue "github.com/bzuer/ethnos-api/internal/domain/venue"
)

// mockVenues implements the VenueSource contract for tests.
type mockVenues struct {
	base    map[int64]domvenue.Venue
	baseErr error

	subjects map[int64][]domvenue.Subject
	subjErr  error

	yearly  map[int64][]domvenue.YearStat
	yearErr error

	topAuthors map[int64][]domvenue.TopAuthor
	topErr     error

	unique  map[int64]int
	uniqErr error

	listIDs   []int64
	listTotal int
	listErr   error

	baseCalls int
	subjCalls int
	topCalls  int
}

func (m *mockVenues) Base(_ context.Context, _ []int64) (map[int64]domvenue.Venue, error) {
	m.baseCalls++
	return m.base, m.baseErr
}

func (m *mockVenues) Subjects(_ context.Context, _ []int64) (map[int64][]domvenue.Subject, error) {
	m.subjCalls++
	return m.subjects, m.subjErr
}

func (m *mockVenues) Yearly(_ context.Context, _ []int64) (map[int64][]domvenue.YearStat, error) {
	return m.yearly, m.yearErr
}

func (m *mockVenues) TopAuthors(_ context.Context, _ []int64) (map[int64][]domvenue.TopAuthor, error) {
	m.topCalls++
	return m.topAuthors, m.topErr
}

func (m *mockVenues) UniqueAuthorCounts(_ context.Context, _ []int64) (map[int64]int, error) {
	return m.unique, m.uniqErr
}

func (m *mockVenues) List(
	_ context.Context, _ domvenue.ListFilters, _ pagination.Pagination,
) ([]int64, int, error) {
	return m.listIDs, m.listTotal, m.listErr
}

func newTestService(venues *mockVenues) *Service {
	return New(venues, zap.NewNop())
}

// memStore is a minimal in-memory cache.Store for wiring a real cache
// wrapper into service tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func allOptions() domvenue.Options {
	return domvenue.Options{
		IncludeSubjects:      true,
		IncludeYearly:        true,
		IncludeTopAuthors:    true,
		IncludeUniqueAuthors: true,
	}
}

func baseVenue(id int64, name string) map[int64]domvenue.Venue {
	return map[int64]domvenue.Venue{
		id: {ID: id, Name: name, Type: "journal", WorksCount: 100},
	}
}

func requireWarning(t *testing.T, warnings []string, substr string) {
	t.Helper()
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return
		}
	}
	t.Errorf("expected warning containing %q, got %v", substr, warnings)
}
