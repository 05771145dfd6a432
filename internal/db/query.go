package db

import (
	"strings"
	"time"
)

// Default per-query deadlines. Point lookups and id-set hydrations are fast;
// aggregate rollups over the whole publications table need more headroom.
const (
	DefaultTimeout   = 3 * time.Second
	AggregateTimeout = 8 * time.Second
)

// Row is one relational row as a column-name keyed field map.
type Row map[string]any

// Query is a tagged query descriptor. Fallback, when set, is a simpler
// variant over guaranteed-present columns that the executor switches to
// after the primary fails with a schema-class error. Aggregate marks
// multi-second rollup queries that get the larger default deadline;
// an explicit Timeout overrides both defaults.
type Query struct {
	Name      string
	SQL       string
	Args      []any
	Aggregate bool
	Timeout   time.Duration
	Fallback  *Query
}

// likeEscaper neutralizes LIKE/ILIKE metacharacters so user input binds as
// a literal substring instead of a pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes s for use inside a LIKE or ILIKE pattern parameter.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
