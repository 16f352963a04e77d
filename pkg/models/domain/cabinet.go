package domain

// Cabinet is one API-token-scoped seller account on the marketplace.
type Cabinet struct {
	ID     string // stable, derived from the profile name
	Name   string
	Token  string
	Active bool
}
