// package services defines interface Lookup for resolving movie metadata over HTTP
//
// OMDb, with an optional Redis cache
package services

import (
	"context"

	"github.com/desertthunder/moviweb/internal/models"
)

// Lookup defines a movie metadata provider.
type Lookup interface {
	models.MovieLookup

	// Lookup resolves a title, returning the classified failure when it cannot.
	Lookup(ctx context.Context, title string) (models.MovieFields, error)

	// Name returns the name of the provider (e.g., "OMDb")
	Name() string
}

// LookupCache stores resolved metadata by key.
type LookupCache interface {
	// Get returns the cached fields and whether the key was present.
	Get(ctx context.Context, key string) (models.MovieFields, bool, error)

	// Set stores fields under key.
	Set(ctx context.Context, key string, fields models.MovieFields) error
}
