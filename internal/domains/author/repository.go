package author

import "context"

// Repository defines author data access.
type Repository interface {
	// Create inserts a new author and returns it with the store-assigned id.
	Create(ctx context.Context, a *Author) (*Author, error)

	// GetByID returns ErrAuthorNotFound if the id does not resolve.
	GetByID(ctx context.Context, id int64) (*Author, error)

	// GetAll returns every author ordered by id ascending. The stable order
	// is what makes cached page windows deterministic.
	GetAll(ctx context.Context) ([]Author, error)

	// Update persists the mutable fields of an existing author.
	Update(ctx context.Context, a *Author) error

	// Delete removes the author and, in the same transaction, every book
	// that references it.
	Delete(ctx context.Context, id int64) error
}
