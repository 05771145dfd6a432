// Package kind defines the searchable entity kinds.
package kind

// Kind identifies which entity family a search targets.
type Kind string

const (
	// Work is a bibliographic work (article, book, chapter, thesis).
	Work Kind = "work"
	// Person is an author or contributor.
	Person Kind = "person"
)

// IsValid reports whether k is a known entity kind.
func (k Kind) IsValid() bool {
	return k == Work || k == Person
}

// String returns the kind name.
func (k Kind) String() string { return string(k) }
