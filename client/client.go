// Package client defines the boundary to the remote feed service. The
// service itself (transport, authentication) is supplied by the hosting
// environment; this package only fixes the contract the operation layer
// programs against and implements the XML-text-to-entity parsing that
// contract requires.
package client

import (
	"context"

	"fsc/entity"
)

// Interface is implemented by a concrete feed service connection. All
// operations address a feed or an entry by its URL, mirroring the Atom
// publishing conventions of the server.
type Interface interface {
	// GetFeed retrieves all entries of the feed at url in server order.
	GetFeed(ctx context.Context, url string) (entity.Feed, error)

	// GetEntry retrieves a single entry.
	GetEntry(ctx context.Context, url string) (*entity.Entity, error)

	// Insert adds a new entry to the feed at url and returns the entry as
	// the server recorded it.
	Insert(ctx context.Context, url string, e *entity.Entity) (*entity.Entity, error)

	// Update replaces the entry at url and returns the updated entry.
	Update(ctx context.Context, url string, e *entity.Entity) (*entity.Entity, error)

	// Delete removes the entry at url.
	Delete(ctx context.Context, url string) error
}
