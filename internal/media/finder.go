// Package media defines the interface for looking up illustration images for
// generated cards. Lookup is strictly best-effort: a card without an image is
// fine, a card generation blocked on an image provider is not.
package media

import "context"

// Finder locates an image URL for a short search query.
type Finder interface {
	// FindImage returns the URL of an image matching the query, or an
	// empty string when no image could be found. Provider failures are
	// swallowed; the error return is reserved for context cancellation.
	FindImage(ctx context.Context, query string) (string, error)
}

// NoopFinder is a Finder that never finds anything. Used when no image
// provider is configured.
type NoopFinder struct{}

// FindImage implements Finder.
func (NoopFinder) FindImage(ctx context.Context, query string) (string, error) {
	return "", nil
}
