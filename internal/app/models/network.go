package models

// Network is the top-level tenant: a school system or institution federation
// under which sessions, courses and reference data are scoped.
type Network struct {
	ID   int64  `json:"id" db:"id"`
	Slug string `json:"slug" db:"slug"`
	Name string `json:"name" db:"name"`
}

// Institution represents a school or university. An institution may be shared
// across networks.
type Institution struct {
	ID   int64  `json:"id" db:"id"`
	Slug string `json:"slug" db:"slug"`
	Name string `json:"name" db:"name"`
}
