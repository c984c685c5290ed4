package author

import "context"

// Service defines business logic for the author resource.
type Service interface {
	// List returns the requested page of authors plus the total count.
	// List pages are cache-accelerated under CacheTag with a fixed TTL.
	List(ctx context.Context, page, limit int) ([]Author, int, error)

	// GetByID is always a fresh store lookup; detail views carry
	// per-request version and role shaping so they are never cached.
	GetByID(ctx context.Context, id int64) (*Author, error)

	// Create validates, persists and invalidates the list caches.
	// Returns validation.Errors for constraint violations.
	Create(ctx context.Context, req *CreateAuthorRequest) (*Author, error)

	// Update overwrites first/last name on an existing author.
	Update(ctx context.Context, id int64, req *UpdateAuthorRequest) error

	// Delete removes the author and cascades to its books. The cache tags
	// are invalidated before the row delete.
	Delete(ctx context.Context, id int64) error
}
