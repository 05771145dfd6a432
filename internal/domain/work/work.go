// Package work holds the bibliographic work record.
package work

// Work is a hydrated bibliographic work. Snapshot fields come from a
// secondary denormalized query and stay nil when no snapshot row exists.
type Work struct {
	ID       int64    `json:"id" msgpack:"id"`
	Title    string   `json:"title" msgpack:"title"`
	Subtitle string   `json:"subtitle,omitempty" msgpack:"subtitle"`
	Type     string   `json:"type" msgpack:"type"`
	Language string   `json:"language,omitempty" msgpack:"language"`
	DOI      string   `json:"doi,omitempty" msgpack:"doi"`
	Authors  []string `json:"authors,omitempty" msgpack:"authors"`

	Publication *Publication `json:"publication,omitempty" msgpack:"publication"`
}

// Publication is the latest publication snapshot for a work.
type Publication struct {
	VenueID   int64  `json:"venue_id" msgpack:"venue_id"`
	VenueName string `json:"venue_name" msgpack:"venue_name"`
	Year      int    `json:"year" msgpack:"year"`
	Volume    string `json:"volume,omitempty" msgpack:"volume"`
	Issue     string `json:"issue,omitempty" msgpack:"issue"`
	Pages     string `json:"pages,omitempty" msgpack:"pages"`
	PeerRev   bool   `json:"peer_reviewed" msgpack:"peer_reviewed"`
}
