package clientcli

import "github.com/sagarc03/herostore"

// CreateOptions configures a create operation.
type CreateOptions struct {
	Hero herostore.Hero
	// IDOverride is sent as ?id= and replaces Hero.ID on the server.
	IDOverride *int
}

// UpdateResult mirrors the PUT /heroes response.
type UpdateResult struct {
	Updated bool `json:"updated"`
	ID      int  `json:"id"`
}

// DeleteResult represents the result of deleting a single hero.
type DeleteResult struct {
	ID      int   `json:"id"`
	Deleted bool  `json:"deleted"`
	Err     error `json:"-"` // nil on success
}
