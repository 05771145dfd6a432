package work

import (
	"context"
	"errors"

	"github.com/bzuer/ethnos-api/internal/db"
)

// mockExecutor returns canned rows keyed by query name and records the
// descriptors it receives.
type mockExecutor struct {
	rows    map[string][]db.Row
	errs    map[string]error
	queries []db.Query
}

func newMockExecutor() *mockExecutor {
	return &mockExecutor{
		rows: make(map[string][]db.Row),
		errs: make(map[string]error),
	}
}

func (m *mockExecutor) Execute(_ context.Context, q db.Query) ([]db.Row, error) {
	m.queries = append(m.queries, q)
	if err := m.errs[q.Name]; err != nil {
		return nil, err
	}
	if rows, ok := m.rows[q.Name]; ok {
		return rows, nil
	}
	return nil, errors.New("unexpected query: " + q.Name)
}
