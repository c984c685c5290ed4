package book

import "context"

// Service defines business logic for the book resource.
type Service interface {
	// List returns the requested page of books plus the total count.
	// List pages are cache-accelerated under CacheTag with a fixed TTL.
	List(ctx context.Context, page, limit int) ([]Book, int, error)

	// GetByID is always a fresh store lookup; detail views carry
	// per-request version and role shaping so they are never cached.
	GetByID(ctx context.Context, id int64) (*Book, error)

	// Create validates, persists, resolves the idAuthor reference and
	// invalidates the book list cache. An unresolvable idAuthor leaves the
	// author association null; the request still succeeds.
	Create(ctx context.Context, req *CreateBookRequest) (*Book, error)

	// Update overwrites title, coverText, comment and the author reference
	// on an existing book.
	Update(ctx context.Context, id int64, req *UpdateBookRequest) error

	// Delete removes the book. The cache tag is invalidated before the row
	// delete.
	Delete(ctx context.Context, id int64) error
}
