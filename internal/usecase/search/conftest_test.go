package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/bzuer/ethnos-api/internal/domain/pagination"
	domperson "github.com/bzuer/ethnos-api/internal/domain/person"
	"github.com/bzuer/ethnos-api/internal/domain/search/kind"
	"github.com/bzuer/ethnos-api/internal/domain/search/request"
	domwork "github.com/bzuer/ethnos-api/internal/domain/work"
	"github.com/bzuer/ethnos-api/internal/index"
)

// mockIndex implements the Index contract for tests.
type mockIndex struct {
	page  index.IDPage
	err   error
	calls int
}

func (m *mockIndex) SearchIDs(
	_ context.Context, _, _ string, _ map[string]string, _, _ int,
) (index.IDPage, error) {
	m.calls++
	return m.page, m.err
}

// mockWorks implements the WorkSource contract for tests.
type mockWorks struct {
	records    map[int64]domwork.Work
	recordsErr error

	snaps    map[int64]domwork.Publication
	snapsErr error

	matchItems []domwork.Work
	matchErr   error
	matchCalls int

	byIDsCalls int
}

func (m *mockWorks) ByIDs(_ context.Context, _ []int64) (map[int64]domwork.Work, error) {
	m.byIDsCalls++
	return m.records, m.recordsErr
}

func (m *mockWorks) LatestSnapshots(_ context.Context, _ []int64) (map[int64]domwork.Publication, error) {
	return m.snaps, m.snapsErr
}

func (m *mockWorks) Match(
	_ context.Context, _ string, _ map[string]string, _, _ int,
) ([]domwork.Work, error) {
	m.matchCalls++
	return m.matchItems, m.matchErr
}

// mockPersons implements the PersonSource contract for tests.
type mockPersons struct {
	records    map[int64]domperson.Person
	recordsErr error

	affs    map[int64]domperson.Affiliation
	affsErr error

	matchItems []domperson.Person
	matchErr   error
	matchCalls int
}

func (m *mockPersons) ByIDs(_ context.Context, _ []int64) (map[int64]domperson.Person, error) {
	return m.records, m.recordsErr
}

func (m *mockPersons) Affiliations(_ context.Context, _ []int64) (map[int64]domperson.Affiliation, error) {
	return m.affs, m.affsErr
}

func (m *mockPersons) Match(
	_ context.Context, _ string, _ map[string]string, _, _ int,
) ([]domperson.Person, error) {
	m.matchCalls++
	return m.matchItems, m.matchErr
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

func newTestService(idx *mockIndex, works *mockWorks, persons *mockPersons) *Service {
	if works == nil {
		works = &mockWorks{}
	}
	if persons == nil {
		persons = &mockPersons{}
	}
	return New(idx, works, persons, zap.NewNop())
}

func workRequest(t *testing.T, page, limit int) *request.Request {
	t.Helper()
	r, err := request.New("climate", kind.Work, nil, pagination.FromValues(page, limit, 0))
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}

func personRequest(t *testing.T) *request.Request {
	t.Helper()
	r, err := request.New("curie", kind.Person, nil, pagination.FromValues(1, 10, 0))
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}

func workSet(ids ...int64) map[int64]domwork.Work {
	out := make(map[int64]domwork.Work, len(ids))
	for _, id := range ids {
		out[id] = domwork.Work{ID: id, Title: "work", Type: "article"}
	}
	return out
}

func personSet(ids ...int64) map[int64]domperson.Person {
	out := make(map[int64]domperson.Person, len(ids))
	for _, id := range ids {
		out[id] = domperson.Person{ID: id, Name: "person"}
	}
	return out
}
