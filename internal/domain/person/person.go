// Package person holds the person (author/contributor) record.
package person

// Person is a hydrated person record. Affiliation comes from a secondary
// snapshot query and stays nil when no affiliation row exists.
type Person struct {
	ID         int64  `json:"id" msgpack:"id"`
	Name       string `json:"name" msgpack:"name"`
	GivenNames string `json:"given_names,omitempty" msgpack:"given_names"`
	FamilyName string `json:"family_name,omitempty" msgpack:"family_name"`
	ORCID      string `json:"orcid,omitempty" msgpack:"orcid"`
	WorksCount int    `json:"works_count" msgpack:"works_count"`
	IsVerified bool   `json:"is_verified" msgpack:"is_verified"`

	Affiliation *Affiliation `json:"affiliation,omitempty" msgpack:"affiliation"`
}

// Affiliation is the current institutional affiliation snapshot.
type Affiliation struct {
	OrgID   int64  `json:"org_id" msgpack:"org_id"`
	OrgName string `json:"org_name" msgpack:"org_name"`
	Country string `json:"country,omitempty" msgpack:"country"`
}
